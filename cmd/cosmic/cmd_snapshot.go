package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"cosmic/internal/enrichment"
	"cosmic/internal/logging"
	"cosmic/internal/snapshot"
	"cosmic/internal/store"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive and search cosmic snapshots",
		Long: `Snapshots are the compact cosmic state at one moment: birth card and
planetary period, sun gate, moon phase, Kp index, Human Design type and the
tightest transit aspect. They are archived in a local SQLite database.

Examples:
  cosmic snapshot save --meta note="first light"
  cosmic snapshot query --phase "Full Moon" --min-kp 5
  cosmic snapshot query --like-now`,
	}
	cmd.AddCommand(newSnapshotSaveCmd(), newSnapshotQueryCmd(), newSnapshotPruneCmd())
	return cmd
}

func openStore() (*store.SnapshotStore, error) {
	return store.Open(app.config().Store.DatabasePath)
}

// currentSnapshot runs metadata through the enrichment hook and pulls the
// snapshot back out. When enrichment is switched off it is built directly.
func currentSnapshot(ctx context.Context, meta map[string]any, at time.Time) (*snapshot.Snapshot, map[string]any) {
	enriched := enrichment.EnrichAt(ctx, meta, at)
	if snap, ok := snapshot.FromMetadata(enriched); ok {
		return snap, enriched
	}
	logging.Get(logging.CategoryEnrichment).Info("enrichment disabled; building snapshot directly")
	birth, _ := birthMoment(app.config())
	return snapshot.Build(app.registry().CosmicTimestamp(ctx, birth, at)), enriched
}

func newSnapshotSaveCmd() *cobra.Command {
	var meta map[string]string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Capture the current cosmic state into the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := referenceTime()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			md := make(map[string]any, len(meta))
			for k, v := range meta {
				md[k] = v
			}
			snap, _ := currentSnapshot(ctx, md, at)

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.Save(ctx, snap)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, app.styles.Success.Render("saved")+" "+id)
			printSnapshot(w, snap)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&meta, "meta", nil, "Metadata key=value pairs to enrich")
	return cmd
}

func newSnapshotQueryCmd() *cobra.Command {
	var (
		f       snapshot.Filter
		minKp   float64
		limit   int
		likeNow bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find archived snapshots by cosmic state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			filter := f
			if cmd.Flags().Changed("min-kp") {
				filter.MinKp = snapshot.Float(minKp)
			}
			if likeNow {
				at, err := referenceTime()
				if err != nil {
					return err
				}
				now, _ := currentSnapshot(ctx, nil, at)
				filter = snapshot.FilterFrom(now)
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.Query(ctx, filter, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(w, "No matching snapshots.")
				return nil
			}
			for _, r := range recs {
				fmt.Fprintln(w, app.styles.Bold.Render(r.ID)+"  "+app.styles.Muted.Render(r.CreatedAt.Format(time.RFC3339)))
				printSnapshot(w, r.Snapshot)
			}
			fmt.Fprintf(w, "\nTotal: %d snapshots\n", len(recs))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.CardName, "card", "", "Birth card name, e.g. \"Queen of Hearts\"")
	fl.StringVar(&f.Planet, "planet", "", "Planetary period")
	fl.IntVar(&f.Gate, "gate", 0, "Sun gate")
	fl.StringVar(&f.MoonPhase, "phase", "", "Moon phase name")
	fl.StringVar(&f.StormLevel, "storm", "", "Storm level (quiet, active, storm, severe)")
	fl.Float64Var(&minKp, "min-kp", 0, "Minimum Kp index")
	fl.IntVar(&limit, "limit", store.DefaultQueryLimit, "Maximum results")
	fl.BoolVar(&likeNow, "like-now", false, "Match the current cosmic state")
	fl.BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

func newSnapshotPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archived snapshots older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d snapshots\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Age cutoff")
	return cmd
}

func printSnapshot(w io.Writer, snap *snapshot.Snapshot) {
	s := app.styles
	if snap.CardName != "" {
		fmt.Fprintln(w, "  "+s.Row("card", fmt.Sprintf("%s (%s period)", snap.CardName, snap.Planet)))
	}
	if snap.Gate != 0 {
		fmt.Fprintln(w, "  "+s.Row("gate", fmt.Sprintf("%d.%d", snap.Gate, snap.Line)))
	}
	if snap.MoonPhase != "" {
		fmt.Fprintln(w, "  "+s.Row("moon", fmt.Sprintf("%s (%.0f%%)", snap.MoonPhase, snap.Illumination*100)))
	}
	if snap.StormLevel != "" {
		fmt.Fprintln(w, "  "+s.Row("weather", fmt.Sprintf("%s (Kp %.1f)", snap.StormLevel, snap.KpIndex)))
	}
	if snap.HDType != "" {
		fmt.Fprintln(w, "  "+s.Row("design", fmt.Sprintf("%s, %s", snap.HDType, snap.HDAuthority)))
	}
	if snap.TightestAspect != "" {
		fmt.Fprintln(w, "  "+s.Row("aspect", snap.TightestAspect))
	}
}
