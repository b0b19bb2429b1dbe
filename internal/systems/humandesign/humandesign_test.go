package humandesign

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/systems/gates"
	"cosmic/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelTable(t *testing.T) {
	require.Len(t, Channels, 36)
	seen := make(map[Channel]bool)
	for _, ch := range Channels {
		assert.False(t, seen[ch], "duplicate channel %v", ch)
		seen[ch] = true
		a, b := ch.Centers()
		assert.NotEmpty(t, a)
		assert.NotEmpty(t, b)
		assert.NotEqual(t, a, b, "channel %d-%d stays in one center", ch.A, ch.B)
	}
}

func TestDefine(t *testing.T) {
	tests := []struct {
		name     string
		gates    []int
		wantType Type
		wantAuth Authority
		wantCtrs []gates.Center
	}{
		{"open chart", nil, Reflector, Lunar, nil},
		{"unpaired gates", []int{1, 2, 3}, Reflector, Lunar, nil},
		{"throat to sacral", []int{20, 34}, ManifestingGenerator, SacralAuth, []gates.Center{gates.Throat, gates.Sacral}},
		{"sacral to g", []int{5, 15}, Generator, SacralAuth, []gates.Center{gates.G, gates.Sacral}},
		{"emotional generator", []int{6, 59}, Generator, Emotional, []gates.Center{gates.Sacral, gates.SolarPlexus}},
		{"heart to throat", []int{21, 45}, Manifestor, EgoManifested, []gates.Center{gates.Throat, gates.Heart}},
		{"emotional manifestor", []int{35, 36}, Manifestor, Emotional, []gates.Center{gates.Throat, gates.SolarPlexus}},
		{"motor through g", []int{25, 51, 10, 20}, Manifestor, EgoManifested, []gates.Center{gates.Throat, gates.G, gates.Heart}},
		{"g to throat", []int{1, 8}, Projector, SelfProjected, []gates.Center{gates.Throat, gates.G}},
		{"head to ajna", []int{24, 61}, Projector, Mental, []gates.Center{gates.Head, gates.Ajna}},
		{"heart to spleen", []int{26, 44}, Projector, Splenic, []gates.Center{gates.Heart, gates.Spleen}},
		{"heart to g", []int{25, 51}, Projector, EgoProjected, []gates.Center{gates.G, gates.Heart}},
		{"solar plexus to heart", []int{37, 40}, Projector, Emotional, []gates.Center{gates.Heart, gates.SolarPlexus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Define(tt.gates)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, tt.wantAuth, d.Authority)
			if diff := cmp.Diff(tt.wantCtrs, d.Defined); diff != "" {
				t.Errorf("defined centers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefineThroatSacralExample(t *testing.T) {
	d := Define([]int{20, 34})
	assert.Equal(t, ManifestingGenerator, d.Type)
	assert.True(t, d.IsDefined(gates.Throat))
	assert.True(t, d.IsDefined(gates.Sacral))
	assert.False(t, d.IsDefined(gates.G))
	assert.Equal(t, []Channel{{20, 34}}, d.Channels)
}

func TestDesignTimeConverges(t *testing.T) {
	births := []time.Time{
		time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC),
		time.Date(1975, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2001, 3, 21, 6, 0, 0, 0, time.UTC),
		time.Date(1964, 8, 2, 11, 45, 0, 0, time.UTC),
	}
	for _, b := range births {
		d := DesignTime(b)
		arc := astro.Normalize(astro.SunLongitude(b) - astro.SunLongitude(d))
		assert.InDelta(t, DesignArc, arc, 0.1, "birth %s", b)

		days := b.Sub(d).Hours() / 24
		assert.Greater(t, days, 80.0)
		assert.Less(t, days, 96.0)
	}
}

func TestNewChart(t *testing.T) {
	birth, err := types.NewBirthMoment(time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC), 40.7, -74, "America/New_York")
	require.NoError(t, err)

	c := NewChart(birth)
	assert.Equal(t, birth.Key(), c.BirthKey)
	assert.NotEmpty(t, c.Gates)
	assert.LessOrEqual(t, len(c.Gates), 4)
	assert.True(t, c.HasGate(c.Personality.Sun.Gate))
	assert.True(t, c.HasGate(c.Design.Earth.Gate))
	assert.Regexp(t, `^[1-6]/[1-6]$`, c.Profile)
	assert.Equal(t, Define(c.Gates), c.Definition)
}

func TestOverlayCompletesChannels(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := snapshotAt(at)

	var partner int
	for _, ch := range Channels {
		if ch.A == tr.Sun.Gate {
			partner = ch.B
			break
		}
		if ch.B == tr.Sun.Gate {
			partner = ch.A
			break
		}
	}
	require.NotZero(t, partner, "sun gate %d has no channel", tr.Sun.Gate)

	chart := &Chart{Gates: []int{partner}}
	ov := chart.Overlay(at)
	assert.Equal(t, tr.Sun.Gate, ov.Transit.Sun.Gate)
	found := false
	for _, ch := range ov.Completed {
		if ch.Has(partner) && ch.Has(tr.Sun.Gate) {
			found = true
		}
	}
	assert.True(t, found)

	empty := &Chart{}
	for _, ch := range empty.Overlay(at).Completed {
		assert.True(t, ch.Has(tr.Sun.Gate) && ch.Has(tr.Earth.Gate))
	}
}

func TestChartCache(t *testing.T) {
	cc := NewChartCache()
	birth, err := types.NewBirthMoment(time.Date(1985, 10, 26, 1, 21, 0, 0, time.UTC), 34, -118, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	charts := make([]*Chart, 8)
	for i := range charts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			charts[i] = cc.Get(birth)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, cc.Len())
	for _, c := range charts {
		assert.Same(t, charts[0], c)
	}

	cc.Forget(birth)
	assert.Equal(t, 0, cc.Len())
	assert.NotSame(t, charts[0], cc.Get(birth))
}

func TestCalculator(t *testing.T) {
	c := New()
	r, err := c.Calculate(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, r)

	birth, err := types.NewBirthMoment(time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC), 40.7, -74, "UTC")
	require.NoError(t, err)

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r1, err := c.Calculate(context.Background(), &birth, at)
	require.NoError(t, err)
	r2, err := c.Calculate(context.Background(), &birth, at.AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Equal(t, "human_design", r1.System)
	assert.Equal(t, 1, c.Charts().Len())
	assert.Same(t, r1.Primary.(*Result).Chart, r2.Primary.(*Result).Chart)
	assert.NotEqual(t, r1.Primary.(*Result).Overlay.Transit.Sun.Gate, r2.Primary.(*Result).Overlay.Transit.Sun.Gate)

	m := c.Archetypes(r1)
	assert.NotEmpty(t, m.Elements)
	require.Len(t, m.Archetypes, 3)
	assert.Contains(t, m.Archetypes[2], "Profile ")
}

func TestSharedChartCache(t *testing.T) {
	cc := NewChartCache()
	a := New(WithChartCache(cc))
	b := New(WithChartCache(cc))
	assert.Same(t, a.Charts(), b.Charts())
	assert.NotNil(t, New(WithChartCache(nil)).Charts())
}
