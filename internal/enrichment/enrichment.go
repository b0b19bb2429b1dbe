// Package enrichment attaches a cosmic snapshot to arbitrary metadata
// before it is stored elsewhere. The registry and config are resolved
// lazily through functions installed at start-up, so callers never import
// the calculator wiring directly.
package enrichment

import (
	"context"
	"sync"
	"time"

	"cosmic/internal/config"
	"cosmic/internal/logging"
	"cosmic/internal/registry"
	"cosmic/internal/snapshot"
)

// RegistryResolver returns the registry to compute with.
type RegistryResolver func() *registry.Registry

// ConfigResolver returns the current configuration.
type ConfigResolver func() *config.Config

var (
	mu          sync.RWMutex
	getRegistry RegistryResolver
	getConfig   ConfigResolver
)

// SetResolvers installs the lazy accessors. Passing nil clears one.
func SetResolvers(reg RegistryResolver, cfg ConfigResolver) {
	mu.Lock()
	defer mu.Unlock()
	getRegistry = reg
	getConfig = cfg
}

func resolvers() (RegistryResolver, ConfigResolver) {
	mu.RLock()
	defer mu.RUnlock()
	return getRegistry, getConfig
}

// Enrich is EnrichAt for the current moment.
func Enrich(ctx context.Context, metadata map[string]any) map[string]any {
	return EnrichAt(ctx, metadata, time.Time{})
}

// EnrichAt returns a copy of metadata with a cosmic snapshot under
// snapshot.MetadataKey. When enrichment is disabled, unresolved, or fails
// in any way, the original map is returned untouched.
func EnrichAt(ctx context.Context, metadata map[string]any, at time.Time) (out map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.EnrichmentWarn("enrichment panicked: %v", rec)
			out = metadata
		}
	}()

	regFn, cfgFn := resolvers()
	if regFn == nil {
		return metadata
	}

	cfg := config.DefaultConfig()
	if cfgFn != nil {
		if c := cfgFn(); c != nil {
			cfg = c
		}
	}
	if !cfg.Enrichment.Enabled {
		return metadata
	}

	reg := regFn()
	if reg == nil {
		logging.EnrichmentWarn("registry resolver returned nil")
		return metadata
	}

	birth, err := cfg.BirthMoment()
	if err != nil {
		logging.EnrichmentWarn("ignoring configured birth moment: %v", err)
		birth = nil
	}

	snap := snapshot.Build(reg.CosmicTimestamp(ctx, birth, at))
	if snap == nil {
		return metadata
	}

	out = make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out[snapshot.MetadataKey] = snap
	return out
}
