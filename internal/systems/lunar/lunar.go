// Package lunar reports the Moon's phase, illumination, distance-based
// supermoon score and zodiac sign.
package lunar

import (
	"context"
	"fmt"
	"math"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/logging"
	"cosmic/internal/systems"
	"cosmic/internal/types"
)

// Phase names, indexed by 45° bucket starting at -22.5° of elongation.
var PhaseNames = []string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

var phaseArchetypes = []struct {
	label   string
	element types.Element
}{
	{"The Seed", types.Ether},
	{"The Sprout", types.Air},
	{"The Builder", types.Fire},
	{"The Refiner", types.Fire},
	{"The Illuminated", types.Water},
	{"The Sage", types.Earth},
	{"The Harvester", types.Air},
	{"The Hermit", types.Ether},
}

var signElements = []types.Element{types.Fire, types.Earth, types.Air, types.Water}

// PhaseIndex buckets an elongation into one of the eight phases.
func PhaseIndex(elongation float64) int {
	return int(astro.Normalize(elongation+22.5)/45) % len(PhaseNames)
}

// Illumination returns the lit fraction for a phase angle, (1+cos angle)/2.
// Phase angle 0 is fully lit; 180 is dark.
func Illumination(angle float64) float64 {
	return types.Clamp01((1 + math.Cos(angle*math.Pi/180)) / 2)
}

// SupermoonScore interpolates distance between apogee (0) and perigee (1).
func SupermoonScore(distanceKm float64) float64 {
	return types.Clamp01((astro.ApogeeKm - distanceKm) / (astro.ApogeeKm - astro.PerigeeKm))
}

// Result is the lunar payload.
type Result struct {
	Elongation float64 `json:"elongation"`
	PhaseIndex int     `json:"phase_index"`
	Phase      string  `json:"phase"`
	// Illumination is the lit fraction, 0 at new moon and 1 at full. It is
	// Illumination evaluated at the phase angle 180 - Elongation.
	Illumination float64 `json:"illumination"`
	Waxing       bool    `json:"waxing"`
	AgeDays      float64 `json:"age_days"`
	DistanceKm   float64 `json:"distance_km"`
	Supermoon    float64 `json:"supermoon"`
	Longitude    float64 `json:"longitude"`
	Sign         string  `json:"sign"`
}

// At computes the lunar state at t.
func At(t time.Time) *Result {
	elong := astro.Elongation(t)
	lon := astro.MoonLongitude(t)
	dist := astro.MoonDistance(t)
	idx := PhaseIndex(elong)
	return &Result{
		Elongation:   elong,
		PhaseIndex:   idx,
		Phase:        PhaseNames[idx],
		Illumination: Illumination(180 - elong),
		Waxing:       elong < 180,
		AgeDays:      elong / 360 * astro.SynodicMonth,
		DistanceKm:   dist,
		Supermoon:    SupermoonScore(dist),
		Longitude:    lon,
		Sign:         astro.Sign(lon),
	}
}

// Calculator reports the lunar phase.
type Calculator struct{}

// New returns a lunar calculator.
func New() *Calculator { return &Calculator{} }

func (c *Calculator) ID() string                     { return systems.IDLunar }
func (c *Calculator) Name() string                   { return "Lunar Phase" }
func (c *Calculator) RequiresBirth() bool            { return false }
func (c *Calculator) Interval() types.RecalcInterval { return types.Hours(1) }

func (c *Calculator) Calculate(ctx context.Context, _ *types.BirthMoment, at time.Time) (*types.Reading, error) {
	res := At(at)
	logging.CalculatorsDebug("lunar: %s %.0f%% in %s", res.Phase, res.Illumination*100, res.Sign)

	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary: fmt.Sprintf("%s, %.0f%% illuminated, Moon in %s (supermoon %.2f)",
			res.Phase, res.Illumination*100, res.Sign, res.Supermoon),
		Metrics: map[string]float64{
			"elongation":   res.Elongation,
			"illumination": res.Illumination,
			"phase_index":  float64(res.PhaseIndex),
			"age_days":     res.AgeDays,
			"distance_km":  res.DistanceKm,
			"supermoon":    res.Supermoon,
		},
	}, nil
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

// Archetypes tags WATER, the phase element and the Moon's sign element.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	if r == nil {
		return m
	}
	res, ok := r.Primary.(*Result)
	if !ok || res == nil {
		return m
	}
	pa := phaseArchetypes[res.PhaseIndex%len(phaseArchetypes)]
	sign := signElements[int(astro.Normalize(res.Longitude)/30)%len(signElements)]

	m.Elements = types.UniqueElements(types.Water, pa.element, sign)
	m.Archetypes = []string{pa.label}
	if res.Supermoon >= 0.9 {
		m.Archetypes = append(m.Archetypes, "Supermoon")
	}
	m.Resonance = map[string]float64{
		"illumination": res.Illumination,
		"supermoon":    res.Supermoon,
	}
	return m
}
