package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cosmic/internal/cosmic"
	"cosmic/internal/registry"
	"cosmic/internal/systems"
	"cosmic/internal/systems/humandesign"

	"github.com/spf13/cobra"
)

func newSystemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List registered cosmic systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			s := app.styles
			reg := app.registry()

			fmt.Fprintln(w, s.Title.Render("Cosmic Systems"))
			fmt.Fprintln(w, s.RenderDivider(60))
			for _, c := range reg.Calculators() {
				birth := ""
				if c.RequiresBirth() {
					birth = s.Muted.Render(" (needs birth)")
				}
				fmt.Fprintf(w, "  %-14s %-22s %s%s\n", c.ID(), c.Name(), c.Interval(), birth)
			}
			fmt.Fprintf(w, "\nTotal: %d systems\n", reg.Count())
			return nil
		},
	}
}

func newReadingCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "reading [system-id]",
		Short: "Compute one system's reading",
		Long: `Computes a single system's reading, served from cache when the
system's recalculation window still covers the reference time.

Example:
  cosmic reading lunar
  cosmic reading cardology --birth 1990-05-15T14:30:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, at, err := moment()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reading, err := app.registry().Calculate(ctx, args[0], birth, at)
			if errors.Is(err, registry.ErrCalculatorNotFound) {
				return fmt.Errorf("unknown system %q (known: %s)", args[0], strings.Join(app.registry().IDs(), ", "))
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if reading == nil {
				fmt.Fprintf(w, "%s has nothing to report: it needs a birth moment (--birth or config birth.time)\n", args[0])
				return nil
			}
			if asJSON {
				return printJSON(w, reading)
			}
			printReading(w, reading)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reading as JSON")
	return cmd
}

func newBundleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Compute every system at one moment",
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, at, err := moment()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			bundle := app.registry().CosmicTimestamp(ctx, birth, at)
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, bundle)
			}

			ids := make([]string, 0, len(bundle.States))
			for id := range bundle.States {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			fmt.Fprintln(w, app.styles.Title.Render("Cosmic Bundle")+"  "+app.styles.Muted.Render(bundle.Timestamp.Format("2006-01-02 15:04 MST")))
			fmt.Fprintln(w, app.styles.RenderDivider(60))
			for _, id := range ids {
				fmt.Fprintln(w, app.styles.Row(id, bundle.States[id].Summary))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the bundle as JSON")
	return cmd
}

func newResonanceCmd() *cobra.Command {
	var asJSON, asMarkdown bool
	cmd := &cobra.Command{
		Use:   "resonance",
		Short: "Synthesize the harmonic resonance across all systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, at, err := moment()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report := cosmic.Resonance(ctx, app.registry(), birth, at)
			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				return printJSON(w, report)
			case asMarkdown:
				fmt.Fprint(w, renderMarkdown(report.Synthesis.Markdown()))
				return nil
			}

			syn := report.Synthesis
			s := app.styles
			fmt.Fprintln(w, s.Title.Render("Cosmic Resonance")+"  "+s.Band(syn.Band))
			fmt.Fprintln(w, s.Row("resonance", s.Meter(syn.OverallResonance, 20)))
			fmt.Fprintln(w, s.Row("confidence", s.Meter(syn.Confidence, 20)))
			fmt.Fprintln(w, s.Row("dominant", elementBadges(syn.DominantElements)))
			fmt.Fprintln(w, s.Row("systems", strings.Join(syn.ActiveSystems, ", ")))
			fmt.Fprintln(w)
			fmt.Fprintln(w, s.Card.Width(78).Render(syn.Guidance))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Render the synthesis as markdown")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	return cmd
}

func newChartCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the Human Design chart for the birth moment",
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, at, err := moment()
			if err != nil {
				return err
			}
			if birth == nil {
				return fmt.Errorf("chart needs a birth moment (--birth or config birth.time)")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reading, err := app.registry().Calculate(ctx, systems.IDHumanDesign, birth, at)
			if err != nil {
				return err
			}
			if reading == nil {
				return fmt.Errorf("human design is disabled in config")
			}
			res, ok := reading.Primary.(*humandesign.Result)
			if !ok {
				return fmt.Errorf("unexpected human design payload %T", reading.Primary)
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, res)
			}

			s := app.styles
			ch := res.Chart
			fmt.Fprintln(w, s.Title.Render(fmt.Sprintf("%s · %s Authority · Profile %s", ch.Type, ch.Authority, ch.Profile)))
			fmt.Fprintln(w, s.Row("personality", fmt.Sprintf("%d.%d / %d.%d", ch.Personality.Sun.Gate, ch.Personality.Sun.Line, ch.Personality.Earth.Gate, ch.Personality.Earth.Line)))
			fmt.Fprintln(w, s.Row("design", fmt.Sprintf("%d.%d / %d.%d", ch.Design.Sun.Gate, ch.Design.Sun.Line, ch.Design.Earth.Gate, ch.Design.Earth.Line)))

			centers := make([]string, 0, len(ch.Defined))
			for _, c := range ch.Defined {
				centers = append(centers, string(c))
			}
			if len(centers) == 0 {
				centers = append(centers, "none")
			}
			fmt.Fprintln(w, s.Row("defined", strings.Join(centers, ", ")))
			fmt.Fprintln(w, s.Row("channels", channelList(ch.Channels)))

			transit := res.Overlay.Transit
			fmt.Fprintln(w, s.Row("transit", fmt.Sprintf("%d.%d / %d.%d", transit.Sun.Gate, transit.Sun.Line, transit.Earth.Gate, transit.Earth.Line)))
			fmt.Fprintln(w, s.Row("completed", channelList(res.Overlay.Completed)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the chart as JSON")
	return cmd
}

func channelList(chs []humandesign.Channel) string {
	if len(chs) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(chs))
	for _, c := range chs {
		parts = append(parts, fmt.Sprintf("%d-%d", c.A, c.B))
	}
	return strings.Join(parts, ", ")
}
