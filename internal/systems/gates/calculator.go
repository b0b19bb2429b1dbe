package gates

import (
	"context"
	"fmt"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/logging"
	"cosmic/internal/systems"
	"cosmic/internal/types"
)

// Result is the gate-of-the-day payload.
type Result struct {
	Sun         astro.Activation `json:"sun"`
	Earth       astro.Activation `json:"earth"`
	SunName     string           `json:"sun_name"`
	EarthName   string           `json:"earth_name"`
	SunCenter   Center           `json:"sun_center"`
	EarthCenter Center           `json:"earth_center"`
	Sign        string           `json:"sign"`
}

// Today computes the sun and earth activations for at.
func Today(at time.Time) *Result {
	lon := astro.SunLongitude(at)
	sun := astro.GateAt(lon)
	earth := astro.EarthOf(lon)
	return &Result{
		Sun:         sun,
		Earth:       earth,
		SunName:     Name(sun.Gate),
		EarthName:   Name(earth.Gate),
		SunCenter:   CenterOf(sun.Gate),
		EarthCenter: CenterOf(earth.Gate),
		Sign:        astro.Sign(lon),
	}
}

// Calculator reports the gate the Sun is transiting.
type Calculator struct{}

// New returns a gate-of-the-day calculator.
func New() *Calculator { return &Calculator{} }

func (c *Calculator) ID() string                     { return systems.IDGates }
func (c *Calculator) Name() string                   { return "Gate of the Day" }
func (c *Calculator) RequiresBirth() bool            { return false }
func (c *Calculator) Interval() types.RecalcInterval { return types.Hours(4) }

func (c *Calculator) Calculate(ctx context.Context, _ *types.BirthMoment, at time.Time) (*types.Reading, error) {
	res := Today(at)
	logging.CalculatorsDebug("gates: sun %d.%d earth %d.%d", res.Sun.Gate, res.Sun.Line, res.Earth.Gate, res.Earth.Line)

	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary: fmt.Sprintf("Gate %d.%d (%s), earth gate %d.%d (%s)",
			res.Sun.Gate, res.Sun.Line, res.SunName, res.Earth.Gate, res.Earth.Line, res.EarthName),
		Metrics: map[string]float64{
			"gate":       float64(res.Sun.Gate),
			"line":       float64(res.Sun.Line),
			"color":      float64(res.Sun.Color),
			"tone":       float64(res.Sun.Tone),
			"base":       float64(res.Sun.Base),
			"earth_gate": float64(res.Earth.Gate),
			"earth_line": float64(res.Earth.Line),
			"longitude":  res.Sun.Longitude,
		},
	}, nil
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

// Archetypes tags the elements of the sun and earth gate centers.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	if r == nil {
		return m
	}
	res, ok := r.Primary.(*Result)
	if !ok || res == nil {
		return m
	}
	m.Elements = types.UniqueElements(res.SunCenter.Element(), res.EarthCenter.Element())
	m.Archetypes = []string{res.SunName, res.EarthName}
	m.Resonance = map[string]float64{
		"line": float64(res.Sun.Line) / 6,
	}
	return m
}
