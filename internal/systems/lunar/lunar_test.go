package lunar

import (
	"context"
	"testing"
	"time"

	"cosmic/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIllumination(t *testing.T) {
	assert.InDelta(t, 1.0, Illumination(0), 1e-12)
	assert.InDelta(t, 0.5, Illumination(90), 1e-12)
	assert.InDelta(t, 0.0, Illumination(180), 1e-12)
	assert.InDelta(t, Illumination(45), Illumination(-45), 1e-12)

	prev := Illumination(0)
	for a := 1.0; a <= 180; a++ {
		cur := Illumination(a)
		assert.LessOrEqual(t, cur, prev)
		assert.Less(t, prev-cur, 0.01)
		prev = cur
	}
}

func TestPhaseIndex(t *testing.T) {
	tests := []struct {
		elong float64
		want  string
	}{
		{0, "New Moon"},
		{22.4, "New Moon"},
		{22.5, "Waxing Crescent"},
		{90, "First Quarter"},
		{135, "Waxing Gibbous"},
		{180, "Full Moon"},
		{225, "Waning Gibbous"},
		{270, "Last Quarter"},
		{315, "Waning Crescent"},
		{337.4, "Waning Crescent"},
		{337.5, "New Moon"},
		{359.9, "New Moon"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseNames[PhaseIndex(tt.elong)], "elongation %v", tt.elong)
	}
}

func TestSupermoonScore(t *testing.T) {
	assert.Equal(t, 1.0, SupermoonScore(356500))
	assert.Equal(t, 0.0, SupermoonScore(406700))
	assert.Equal(t, 1.0, SupermoonScore(350000))
	assert.Equal(t, 0.0, SupermoonScore(410000))
	assert.InDelta(t, 0.5, SupermoonScore(381600), 1e-9)
}

func TestAtKnownPhases(t *testing.T) {
	full := At(time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC))
	assert.Equal(t, "Full Moon", full.Phase)
	assert.Greater(t, full.Illumination, 0.99)

	nm := At(time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC))
	assert.Equal(t, "New Moon", nm.Phase)
	assert.Less(t, nm.Illumination, 0.01)
}

func TestCalculator(t *testing.T) {
	c := New()
	assert.Equal(t, time.Hour, c.Interval().TTL())

	r, err := c.Calculate(context.Background(), nil, time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "lunar", r.System)
	assert.Contains(t, r.Summary, "Full Moon")

	m := c.Archetypes(r)
	assert.Equal(t, types.Water, m.Elements[0])
	assert.Contains(t, m.Archetypes, "The Illuminated")
	assert.Empty(t, c.Archetypes(&types.Reading{}).Elements)
}
