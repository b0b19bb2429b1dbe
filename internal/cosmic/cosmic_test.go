package cosmic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmic/internal/config"
	"cosmic/internal/registry"
	"cosmic/internal/systems"
	"cosmic/internal/systems/solar"
	"cosmic/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offlineConfig points the space-weather fetcher at a server that always fails.
func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "offline", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Solar.BaseURL = srv.URL
	cfg.Solar.Timeout = "1s"
	return cfg
}

func TestCalculatorsHonourConfig(t *testing.T) {
	all := Calculators(nil)
	require.Len(t, all, 6)
	for i, c := range all {
		assert.Equal(t, systems.AllIDs[i], c.ID())
	}

	cfg := config.DefaultConfig()
	cfg.Systems = map[string]bool{systems.IDSolar: false, systems.IDTransits: false}
	ids := make([]string, 0)
	for _, c := range Calculators(cfg) {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"cardology", "gates", "human_design", "lunar"}, ids)
}

func TestResonanceWithoutBirth(t *testing.T) {
	reg := NewRegistry(offlineConfig(t))
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rep := Resonance(context.Background(), reg, nil, at)
	require.NotNil(t, rep.Synthesis)
	assert.Equal(t, at, rep.Bundle.Timestamp)

	assert.Nil(t, rep.Bundle.Get(systems.IDCardology))
	assert.Nil(t, rep.Bundle.Get(systems.IDHumanDesign))
	for _, id := range []string{systems.IDGates, systems.IDSolar, systems.IDLunar, systems.IDTransits} {
		r := rep.Bundle.Get(id)
		require.NotNil(t, r, id)
		assert.Equal(t, id, r.System)
	}
	assert.Equal(t, solar.SourceDefault, rep.Bundle.Get(systems.IDSolar).Primary.(*solar.Result).Source)
}

func TestResonanceWithBirth(t *testing.T) {
	reg := NewRegistry(offlineConfig(t))
	birth, err := types.NewBirthMoment(time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC), 40.7, -74, "America/New_York")
	require.NoError(t, err)

	rep := Resonance(context.Background(), reg, &birth, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.Len(t, rep.Bundle.States, 6)
	require.Len(t, rep.Mappings, 6)
	assert.Equal(t, "cardology", rep.Mappings[0].System)

	s := rep.Synthesis
	assert.Len(t, s.Pairs, 15)
	assert.GreaterOrEqual(t, s.OverallResonance, 0.0)
	assert.LessOrEqual(t, s.OverallResonance, 1.0)
	assert.Equal(t, types.BandFor(s.OverallResonance), s.Band)
	assert.Equal(t, 6, len(s.ActiveSystems))
}

func TestDefaultIsPopulatedOnce(t *testing.T) {
	Configure(offlineConfig(t))
	reg := Default()
	assert.Same(t, registry.Global(), reg)
	assert.Len(t, reg.IDs(), 6)
	assert.Same(t, reg, Default())
}
