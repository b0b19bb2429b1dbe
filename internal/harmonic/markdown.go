package harmonic

import (
	"fmt"
	"strings"

	"cosmic/internal/types"
)

// Markdown renders the synthesis as a short markdown report.
func (s *Synthesis) Markdown() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Cosmic Resonance: %s\n\n", s.Band)
	fmt.Fprintf(&b, "**Resonance** %.2f · **Confidence** %.2f · **Systems** %d\n\n", s.OverallResonance, s.Confidence, len(s.ActiveSystems))
	fmt.Fprintf(&b, "%s\n\n", s.Guidance)

	b.WriteString("## Elemental balance\n\n| Element | Share |\n|---|---|\n")
	for _, e := range types.Elements {
		fmt.Fprintf(&b, "| %s | %.0f%% |\n", e, s.ElementalBalance[e]*100)
	}

	if len(s.Pairs) > 0 {
		b.WriteString("\n## Pairs\n\n| Systems | Score | Band | Shared |\n|---|---|---|---|\n")
		for _, p := range s.Pairs {
			shared := make([]string, 0, len(p.Shared))
			for _, e := range p.Shared {
				shared = append(shared, string(e))
			}
			fmt.Fprintf(&b, "| %s / %s | %.2f | %s | %s |\n", p.A, p.B, p.Score, p.Band, strings.Join(shared, ", "))
		}
	}
	return b.String()
}
