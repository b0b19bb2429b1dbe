// Package cosmic wires the six built-in calculators into a registry and
// runs the full pipeline: bundle, archetypes and harmonic synthesis.
package cosmic

import (
	"context"
	"sync"
	"time"

	"cosmic/internal/config"
	"cosmic/internal/harmonic"
	"cosmic/internal/logging"
	"cosmic/internal/registry"
	"cosmic/internal/systems/cardology"
	"cosmic/internal/systems/gates"
	"cosmic/internal/systems/humandesign"
	"cosmic/internal/systems/lunar"
	"cosmic/internal/systems/solar"
	"cosmic/internal/systems/transits"
	"cosmic/internal/types"
)

// Calculators builds every built-in calculator enabled in cfg, in
// registration order. A nil cfg enables all of them with default settings.
func Calculators(cfg *config.Config) []types.Calculator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var fetcher solar.Fetcher
	if cfg.Solar.Enabled {
		fetcher = solar.NewSWPCFetcher(cfg.Solar.BaseURL, cfg.GetSolarTimeout())
	}

	all := []types.Calculator{
		cardology.New(),
		gates.New(),
		humandesign.New(),
		solar.New(fetcher),
		lunar.New(),
		transits.New(),
	}

	out := make([]types.Calculator, 0, len(all))
	for _, c := range all {
		if cfg.IsSystemEnabled(c.ID()) {
			out = append(out, c)
		}
	}
	return out
}

// Populate registers the enabled built-in calculators into reg.
func Populate(reg *registry.Registry, cfg *config.Config) error {
	for _, c := range Calculators(cfg) {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a fresh registry holding the enabled calculators.
func NewRegistry(cfg *config.Config, opts ...registry.Option) *registry.Registry {
	reg := registry.New(opts...)
	if err := Populate(reg, cfg); err != nil {
		// Built-in calculators always have IDs; this cannot happen.
		panic(err)
	}
	return reg
}

var (
	defaultOnce sync.Once
	defaultCfg  *config.Config
	defaultMu   sync.Mutex
)

// Configure sets the config Default populates from. It only has an effect
// before the first call to Default.
func Configure(cfg *config.Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCfg = cfg
}

// Default returns the global registry, populated once with the enabled
// built-in calculators.
func Default() *registry.Registry {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		cfg := defaultCfg
		defaultMu.Unlock()

		reg := registry.Global()
		if err := Populate(reg, cfg); err != nil {
			panic(err)
		}
		logging.Boot("cosmic registry ready: %v", reg.IDs())
	})
	return registry.Global()
}

// Report is a full cosmic reading at one moment.
type Report struct {
	Bundle    *types.CosmicBundle      `json:"bundle"`
	Mappings  []types.ArchetypeMapping `json:"mappings"`
	Synthesis *harmonic.Synthesis      `json:"synthesis"`
}

// Resonance computes the bundle, maps it to archetypes and synthesizes it.
// A nil registry uses Default.
func Resonance(ctx context.Context, reg *registry.Registry, birth *types.BirthMoment, at time.Time) *Report {
	if reg == nil {
		reg = Default()
	}
	bundle := reg.CosmicTimestamp(ctx, birth, at)
	mappings := reg.Archetypes(bundle)
	return &Report{
		Bundle:    bundle,
		Mappings:  mappings,
		Synthesis: harmonic.Synthesize(mappings),
	}
}
