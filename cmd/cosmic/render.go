package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"cosmic/internal/types"

	"github.com/charmbracelet/glamour"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderMarkdown renders md for the terminal. If the renderer cannot be
// built the raw markdown is returned.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func sortedMetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.3f", v)
}

func printReading(w io.Writer, r *types.Reading) {
	s := app.styles
	fmt.Fprintln(w, s.Title.Render(r.System)+"  "+s.Muted.Render(r.Timestamp.Format("2006-01-02 15:04 MST")))
	fmt.Fprintln(w, s.Body.Render(r.Summary))
	for _, name := range sortedMetricNames(r.Metrics) {
		fmt.Fprintln(w, "  "+s.Row(name, formatMetric(r.Metrics[name])))
	}
}

func elementBadges(els []types.Element) string {
	parts := make([]string, 0, len(els))
	for _, e := range els {
		parts = append(parts, app.styles.Element(e))
	}
	return strings.Join(parts, " ")
}
