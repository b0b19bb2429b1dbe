package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmic/internal/config"
	"cosmic/internal/cosmic"
	"cosmic/internal/logging"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the resonance on an interval, reloading config on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					logging.Boot("received shutdown signal")
					cancel()
				case <-ctx.Done():
				}
			}()

			reloaded := make(chan struct{}, 1)
			watcher, err := config.NewWatcher(cfgPath, func(cfg *config.Config) {
				if err := cfg.Validate(); err != nil {
					logging.Get(logging.CategoryConfig).Warn("ignoring invalid config: %v", err)
					return
				}
				app.reload(cfg)
				select {
				case reloaded <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return fmt.Errorf("failed to create config watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				logging.Get(logging.CategoryConfig).Warn("config hot reload unavailable: %v", err)
			}
			defer watcher.Stop()

			every := func() time.Duration {
				if cmd.Flags().Changed("interval") {
					return interval
				}
				return app.config().GetWatchInterval()
			}
			return watchLoop(ctx, cmd.OutOrStdout(), every, reloaded, count)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Tick interval (default: config watch.interval)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many ticks (0 = forever)")
	return cmd
}

// watchLoop prints one resonance line immediately and then on every tick.
// A config reload re-arms the ticker with the new interval.
func watchLoop(ctx context.Context, w io.Writer, every func() time.Duration, reloaded <-chan struct{}, count int) error {
	ticks := 0
	tick := func() bool {
		birth, at, err := moment()
		if err != nil {
			logging.Get(logging.CategoryBoot).Warn("watch: %v", err)
			return false
		}
		report := cosmic.Resonance(ctx, app.registry(), birth, at)
		syn := report.Synthesis
		fmt.Fprintf(w, "%s  %s %.2f  confidence %.2f  %v\n",
			at.Format(time.RFC3339), syn.Band, syn.OverallResonance, syn.Confidence, syn.DominantElements)
		ticks++
		return count > 0 && ticks >= count
	}

	if tick() {
		return nil
	}
	ticker := time.NewTicker(every())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloaded:
			ticker.Reset(every())
		case <-ticker.C:
			if tick() {
				return nil
			}
		}
	}
}
