package solar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cosmic/internal/logging"
	"cosmic/internal/systems"
	"cosmic/internal/types"
)

// Result is the space-weather payload.
type Result struct {
	Observation
	Level      Level    `json:"level"`
	FlareClass string   `json:"flare_class"`
	Events     []string `json:"events,omitempty"`
}

// Analyze classifies an observation.
func Analyze(obs Observation) *Result {
	class := FlareClass(obs.Flux)
	return &Result{
		Observation: obs,
		Level:       Classify(obs.Kp),
		FlareClass:  class,
		Events:      Events(obs.Kp, class),
	}
}

// Calculator reports current space weather.
type Calculator struct {
	fetcher Fetcher
}

// New returns a space-weather calculator. A nil fetcher always reports the
// defaults.
func New(f Fetcher) *Calculator {
	return &Calculator{fetcher: f}
}

func (c *Calculator) ID() string                     { return systems.IDSolar }
func (c *Calculator) Name() string                   { return "Space Weather" }
func (c *Calculator) RequiresBirth() bool            { return false }
func (c *Calculator) Interval() types.RecalcInterval { return types.Minutes(30) }

// Calculate never fails: feed errors degrade to DefaultObservation.
func (c *Calculator) Calculate(ctx context.Context, _ *types.BirthMoment, at time.Time) (*types.Reading, error) {
	obs := DefaultObservation()
	if c.fetcher != nil {
		fetched, err := c.fetcher.Fetch(ctx)
		if err != nil {
			logging.WeatherWarn("space weather fetch failed, using defaults: %v", err)
		} else {
			obs = fetched
		}
	}
	res := Analyze(obs)

	storm := 0.0
	if res.Level.Index() >= Storm.Index() {
		storm = 1
	}
	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary:   summarize(res),
		Metrics: map[string]float64{
			"kp_index":    res.Kp,
			"flux":        res.Flux,
			"level_index": float64(res.Level.Index()),
			"storm":       storm,
			"events":      float64(len(res.Events)),
		},
	}, nil
}

func summarize(r *Result) string {
	s := fmt.Sprintf("Kp %.1f (%s), flare class %s", r.Kp, r.Level, r.FlareClass)
	if len(r.Events) > 0 {
		s += ": " + strings.Join(r.Events, ", ")
	}
	if r.Source == SourceDefault {
		s += " [default]"
	}
	return s
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

var levelArchetypes = map[Level]struct {
	label    string
	elements []types.Element
}{
	Quiet:  {"Still Field", []types.Element{types.Earth}},
	Active: {"Stirring Field", []types.Element{types.Air}},
	Storm:  {"Geomagnetic Storm", []types.Element{types.Fire, types.Air}},
	Severe: {"Severe Storm", []types.Element{types.Fire, types.Ether}},
}

// Archetypes tags the severity level and adds FIRE for strong flares.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	if r == nil {
		return m
	}
	res, ok := r.Primary.(*Result)
	if !ok || res == nil {
		return m
	}
	la := levelArchetypes[res.Level]
	els := append([]types.Element(nil), la.elements...)
	labels := []string{la.label}
	if res.FlareClass == "M" || res.FlareClass == "X" {
		els = append(els, types.Fire)
		labels = append(labels, fmt.Sprintf("Class %s Flare", res.FlareClass))
	}
	m.Elements = types.UniqueElements(els...)
	m.Archetypes = labels
	m.Resonance = map[string]float64{
		"intensity": types.Clamp01(res.Kp / 9),
	}
	return m
}
