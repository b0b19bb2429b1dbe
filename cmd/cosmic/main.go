// Command cosmic computes cosmic readings from the six built-in systems,
// synthesizes their harmonic resonance and archives snapshots.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"cosmic/cmd/cosmic/ui"
	"cosmic/internal/config"
	"cosmic/internal/cosmic"
	"cosmic/internal/enrichment"
	"cosmic/internal/logging"
	"cosmic/internal/registry"
	"cosmic/internal/types"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	timeout time.Duration

	// Moment flags
	atFlag    string
	birthFlag string
	latFlag   float64
	lonFlag   float64
	tzFlag    string

	app *appState
)

// appState is the loaded config and the registry built from it. The watch
// command swaps both on hot reload.
type appState struct {
	mu     sync.RWMutex
	cfg    *config.Config
	reg    *registry.Registry
	styles ui.Styles
}

func newAppState(cfg *config.Config) *appState {
	return &appState{
		cfg:    cfg,
		reg:    cosmic.NewRegistry(cfg),
		styles: ui.DefaultStyles(),
	}
}

func (a *appState) config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

func (a *appState) registry() *registry.Registry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reg
}

// reload installs cfg and rebuilds the registry, dropping cached readings.
func (a *appState) reload(cfg *config.Config) {
	reg := cosmic.NewRegistry(cfg)
	a.mu.Lock()
	a.cfg = cfg
	a.reg = reg
	a.mu.Unlock()
	logging.Boot("config reloaded: systems=%v", reg.IDs())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cosmic",
		Short: "Cosmic systems registry and harmonic synthesis",
		Long: `cosmic computes readings from six independent systems (cardology,
I Ching gates, Human Design, space weather, lunar phase and planetary
transits), maps each to elemental archetypes and scores how well they
resonate with one another.

Readings are cached per system for the system's natural interval.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", cfgPath, err)
			}
			if err := logging.Initialize(cfg.Logging.Options(verbose)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			app = newAppState(cfg)
			enrichment.SetResolvers(app.registry, app.config)
			logging.Boot("cosmic ready: config=%s systems=%v", cfgPath, app.registry().IDs())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "cosmic.yaml", "Config file path")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	pf.StringVar(&atFlag, "at", "", "Reference time, RFC3339 (default: now)")
	pf.StringVar(&birthFlag, "birth", "", "Birth time, RFC3339 (default: config birth)")
	pf.Float64Var(&latFlag, "lat", 0, "Birth latitude")
	pf.Float64Var(&lonFlag, "lon", 0, "Birth longitude")
	pf.StringVar(&tzFlag, "tz", "", "Birth IANA timezone")

	root.AddCommand(
		newSystemsCmd(),
		newReadingCmd(),
		newBundleCmd(),
		newResonanceCmd(),
		newChartCmd(),
		newSnapshotCmd(),
		newWatchCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// referenceTime resolves --at.
func referenceTime() (time.Time, error) {
	if atFlag == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, atFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC3339: %w", err)
	}
	return t, nil
}

// birthMoment resolves --birth, falling back to the config birth. It
// returns nil when neither is set.
func birthMoment(cfg *config.Config) (*types.BirthMoment, error) {
	if birthFlag == "" {
		return cfg.BirthMoment()
	}
	t, err := time.Parse(time.RFC3339, birthFlag)
	if err != nil {
		return nil, fmt.Errorf("--birth must be RFC3339: %w", err)
	}
	b, err := types.NewBirthMoment(t, latFlag, lonFlag, tzFlag)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// moment resolves both the reference time and the birth moment.
func moment() (*types.BirthMoment, time.Time, error) {
	at, err := referenceTime()
	if err != nil {
		return nil, time.Time{}, err
	}
	birth, err := birthMoment(app.config())
	if err != nil {
		return nil, time.Time{}, err
	}
	return birth, at, nil
}
