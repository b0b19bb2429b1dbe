package humandesign

import (
	"context"
	"fmt"
	"time"

	"cosmic/internal/systems"
	"cosmic/internal/systems/gates"
	"cosmic/internal/types"
)

// Result pairs the cached natal chart with the per-call transit overlay.
type Result struct {
	Chart   *Chart  `json:"chart"`
	Overlay Overlay `json:"overlay"`
}

// Calculator computes Human Design charts.
type Calculator struct {
	charts *ChartCache
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithChartCache shares a natal chart cache between calculators.
func WithChartCache(cc *ChartCache) Option {
	return func(c *Calculator) {
		if cc != nil {
			c.charts = cc
		}
	}
}

// New returns a Human Design calculator with its own chart cache.
func New(opts ...Option) *Calculator {
	c := &Calculator{charts: NewChartCache()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Charts exposes the natal chart cache.
func (c *Calculator) Charts() *ChartCache { return c.charts }

func (c *Calculator) ID() string                     { return systems.IDHumanDesign }
func (c *Calculator) Name() string                   { return "Human Design" }
func (c *Calculator) RequiresBirth() bool            { return true }
func (c *Calculator) Interval() types.RecalcInterval { return types.Daily() }

// Calculate returns nil without a birth moment.
func (c *Calculator) Calculate(ctx context.Context, birth *types.BirthMoment, at time.Time) (*types.Reading, error) {
	if birth == nil {
		return nil, nil
	}
	chart := c.charts.Get(*birth)
	res := &Result{Chart: chart, Overlay: chart.Overlay(at)}

	summary := fmt.Sprintf("%s with %s authority, profile %s", chart.Type, chart.Authority, chart.Profile)
	if n := len(res.Overlay.Completed); n > 0 {
		summary += fmt.Sprintf(", transit completes %d channel(s)", n)
	}

	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary:   summary,
		Metrics: map[string]float64{
			"defined_centers":  float64(len(chart.Defined)),
			"active_channels":  float64(len(chart.Channels)),
			"transit_channels": float64(len(res.Overlay.Completed)),
			"personality_gate": float64(chart.Personality.Sun.Gate),
			"design_gate":      float64(chart.Design.Sun.Gate),
		},
	}, nil
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

// Archetypes tags the defined centers' elements. An open chart falls back
// to the centers of the two sun activations.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	if r == nil {
		return m
	}
	res, ok := r.Primary.(*Result)
	if !ok || res == nil || res.Chart == nil {
		return m
	}
	chart := res.Chart

	centers := chart.Defined
	if len(centers) == 0 {
		centers = []gates.Center{gates.CenterOf(chart.Personality.Sun.Gate), gates.CenterOf(chart.Design.Sun.Gate)}
	}
	els := make([]types.Element, 0, len(centers))
	for _, ctr := range centers {
		els = append(els, ctr.Element())
	}
	m.Elements = types.UniqueElements(els...)
	m.Archetypes = []string{string(chart.Type), string(chart.Authority) + " Authority", "Profile " + chart.Profile}
	m.Resonance = map[string]float64{
		"definition": float64(len(chart.Defined)) / float64(len(gates.Centers)),
	}
	return m
}
