package enrichment

import (
	"context"
	"testing"
	"time"

	"cosmic/internal/config"
	"cosmic/internal/cosmic"
	"cosmic/internal/registry"
	"cosmic/internal/snapshot"
	"cosmic/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Solar.Enabled = false
	cfg.Birth = config.BirthConfig{Time: "1990-05-15T14:30:00Z", Latitude: 40.7, Longitude: -74, Timezone: "UTC"}
	return cfg
}

func install(t *testing.T, reg RegistryResolver, cfg ConfigResolver) {
	t.Helper()
	SetResolvers(reg, cfg)
	t.Cleanup(func() { SetResolvers(nil, nil) })
}

func TestEnrichAddsSnapshot(t *testing.T) {
	cfg := offlineConfig()
	reg := cosmic.NewRegistry(cfg)
	install(t, func() *registry.Registry { return reg }, func() *config.Config { return cfg })

	in := map[string]any{"title": "note"}
	out := EnrichAt(context.Background(), in, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "note", out["title"])
	assert.NotContains(t, in, snapshot.MetadataKey, "input must not be mutated")

	snap, ok := snapshot.FromMetadata(out)
	require.True(t, ok)
	assert.Equal(t, "4 of Diamonds", snap.CardName)
	assert.Equal(t, "quiet", snap.StormLevel)
}

func TestEnrichReturnsOriginal(t *testing.T) {
	in := map[string]any{"k": "v"}
	cfg := offlineConfig()
	reg := cosmic.NewRegistry(cfg)

	t.Run("no resolvers", func(t *testing.T) {
		SetResolvers(nil, nil)
		assert.Equal(t, in, Enrich(context.Background(), in))
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := offlineConfig()
		disabled.Enrichment.Enabled = false
		install(t, func() *registry.Registry { return reg }, func() *config.Config { return disabled })
		out := Enrich(context.Background(), in)
		assert.NotContains(t, out, snapshot.MetadataKey)
	})

	t.Run("nil registry", func(t *testing.T) {
		install(t, func() *registry.Registry { return nil }, func() *config.Config { return cfg })
		assert.NotContains(t, Enrich(context.Background(), in), snapshot.MetadataKey)
	})

	t.Run("resolver panics", func(t *testing.T) {
		install(t, func() *registry.Registry { panic("not wired") }, func() *config.Config { return cfg })
		out := Enrich(context.Background(), in)
		assert.Equal(t, in, out)
	})
}

func TestEnrichWithBadBirthStillEnriches(t *testing.T) {
	cfg := offlineConfig()
	cfg.Birth.Timezone = "Nowhere/Special"
	reg := cosmic.NewRegistry(cfg)
	install(t, func() *registry.Registry { return reg }, func() *config.Config { return cfg })

	out := Enrich(context.Background(), nil)
	snap, ok := snapshot.FromMetadata(out)
	require.True(t, ok)
	assert.Empty(t, snap.CardName)
	assert.NotZero(t, snap.Gate)
}

func TestEnrichNilConfigUsesDefaults(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(stubCalc{})
	install(t, func() *registry.Registry { return reg }, nil)

	out := Enrich(context.Background(), map[string]any{})
	_, ok := snapshot.FromMetadata(out)
	assert.True(t, ok)
}

type stubCalc struct{}

func (stubCalc) ID() string                     { return "stub" }
func (stubCalc) Name() string                   { return "stub" }
func (stubCalc) RequiresBirth() bool            { return false }
func (stubCalc) Interval() types.RecalcInterval { return types.Hours(1) }
func (stubCalc) Calculate(_ context.Context, _ *types.BirthMoment, at time.Time) (*types.Reading, error) {
	return &types.Reading{System: "stub", Timestamp: at}, nil
}
func (stubCalc) Synthesize(r *types.Reading) string { return r.Summary }
func (stubCalc) Archetypes(*types.Reading) types.ArchetypeMapping {
	return types.ArchetypeMapping{System: "stub"}
}
