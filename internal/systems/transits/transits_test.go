package transits

import (
	"context"
	"testing"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		want    string
		wantDev float64
		ok      bool
	}{
		{"conjunction across zero", 358, 3, "conjunction", 5, true},
		{"sextile", 10, 71, "sextile", 1, true},
		{"square outside sextile orb", 0, 83.5, "square", 6.5, true},
		{"trine", 200, 80.5, "trine", 0.5, true},
		{"opposition folded", 10, 185, "opposition", 5, true},
		{"no aspect", 0, 40, "", 0, false},
		{"between square and trine", 0, 105, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, dev, ok := Match(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, k.Name)
				assert.InDelta(t, tt.wantDev, dev, 1e-9)
			}
		})
	}
}

func TestSignificance(t *testing.T) {
	exact := Aspect{Deviation: 0.4}
	tight := Aspect{Deviation: 1.5}
	loose := Aspect{Deviation: 2.5}

	assert.True(t, exact.Exact())
	assert.False(t, exact.Tight())
	assert.True(t, tight.Tight())
	assert.False(t, tight.Exact())
	assert.True(t, exact.Significant())
	assert.True(t, tight.Significant())
	assert.False(t, loose.Significant())
}

func TestBetween(t *testing.T) {
	pos := map[astro.Body]float64{
		astro.Sun:  100,
		astro.Moon: 280.5,
		astro.Mars: 192,
	}
	got := Between(pos)
	require.Len(t, got, 3)

	assert.Equal(t, astro.Sun, got[0].A)
	assert.Equal(t, astro.Moon, got[0].B)
	assert.Equal(t, "opposition", got[0].Kind.Name)
	assert.True(t, got[0].Exact())

	for _, a := range got {
		assert.GreaterOrEqual(t, a.Separation, 0.0)
		assert.LessOrEqual(t, a.Separation, 180.0)
	}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Deviation, got[i].Deviation)
	}
}

func TestToNatalIncludesSameBody(t *testing.T) {
	transit := map[astro.Body]float64{astro.Saturn: 10}
	natal := map[astro.Body]float64{astro.Saturn: 11}
	got := ToNatal(transit, natal)
	require.Len(t, got, 1)
	assert.True(t, got[0].Natal)
	assert.Equal(t, "Saturn conjunction natal Saturn", got[0].String())
}

func TestCalculator(t *testing.T) {
	c := New()
	assert.False(t, c.RequiresBirth())
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r, err := c.Calculate(context.Background(), nil, at)
	require.NoError(t, err)
	res := r.Primary.(*Result)
	assert.Len(t, res.Positions, 9)
	assert.Empty(t, res.Natal)
	assert.Equal(t, float64(len(res.Aspects)), r.Metric("aspects"))

	birth, err := types.NewBirthMoment(time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC), 0, 0, "")
	require.NoError(t, err)
	rn, err := c.Calculate(context.Background(), &birth, at)
	require.NoError(t, err)
	assert.NotEmpty(t, rn.Primary.(*Result).Natal)

	m := c.Archetypes(rn)
	assert.NotEmpty(t, m.Elements)
	assert.LessOrEqual(t, len(m.Archetypes), 3)
	assert.InDelta(t, 1.0, m.Resonance["harmony"]+m.Resonance["tension"]+conjunctionShare(rn.Primary.(*Result)), 1e-9)
}

func conjunctionShare(r *Result) float64 {
	n, total := 0, 0
	for _, set := range [][]Aspect{r.Aspects, r.Natal} {
		for _, a := range set {
			total++
			if a.Kind.Angle == 0 {
				n++
			}
		}
	}
	return float64(n) / float64(total)
}
