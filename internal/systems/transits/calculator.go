package transits

import (
	"context"
	"fmt"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/logging"
	"cosmic/internal/systems"
	"cosmic/internal/types"
)

// Result is the transits payload.
type Result struct {
	Positions   map[astro.Body]float64 `json:"positions"`
	Aspects     []Aspect               `json:"aspects"`
	Natal       []Aspect               `json:"natal,omitempty"`
	Significant []Aspect               `json:"significant,omitempty"`
}

// Tightest returns the closest aspect, transit or natal, or nil.
func (r *Result) Tightest() *Aspect {
	var best *Aspect
	for _, set := range [][]Aspect{r.Aspects, r.Natal} {
		for i := range set {
			if best == nil || set[i].Deviation < best.Deviation {
				best = &set[i]
			}
		}
	}
	return best
}

// Calculator finds planetary aspects. A birth moment adds natal aspects.
type Calculator struct{}

// New returns a transits calculator.
func New() *Calculator { return &Calculator{} }

func (c *Calculator) ID() string                     { return systems.IDTransits }
func (c *Calculator) Name() string                   { return "Planetary Transits" }
func (c *Calculator) RequiresBirth() bool            { return false }
func (c *Calculator) Interval() types.RecalcInterval { return types.Hours(2) }

func (c *Calculator) Calculate(ctx context.Context, birth *types.BirthMoment, at time.Time) (*types.Reading, error) {
	pos := astro.Positions(at)
	res := &Result{Positions: pos, Aspects: Between(pos)}
	if birth != nil {
		res.Natal = ToNatal(pos, astro.Positions(birth.Time))
	}
	for _, set := range [][]Aspect{res.Aspects, res.Natal} {
		for _, a := range set {
			if a.Significant() {
				res.Significant = append(res.Significant, a)
			}
		}
	}
	sortAspects(res.Significant)

	metrics := map[string]float64{
		"aspects":       float64(len(res.Aspects)),
		"natal_aspects": float64(len(res.Natal)),
		"significant":   float64(len(res.Significant)),
	}
	summary := fmt.Sprintf("%d aspects (%d significant)", len(res.Aspects)+len(res.Natal), len(res.Significant))
	if t := res.Tightest(); t != nil {
		metrics["tightest_orb"] = t.Deviation
		summary += fmt.Sprintf(", tightest %s (%.2f°)", t, t.Deviation)
	}
	logging.CalculatorsDebug("transits: %s", summary)

	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary:   summary,
		Metrics:   metrics,
	}, nil
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

// Archetypes tags the elements of the significant aspects, or of the three
// closest aspects when none are significant.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	if r == nil {
		return m
	}
	res, ok := r.Primary.(*Result)
	if !ok || res == nil {
		return m
	}

	focus := res.Significant
	if len(focus) == 0 {
		focus = append(append([]Aspect(nil), res.Aspects...), res.Natal...)
		sortAspects(focus)
	}
	if len(focus) > 3 {
		focus = focus[:3]
	}

	els := make([]types.Element, 0, len(focus))
	for _, a := range focus {
		els = append(els, a.Kind.Element)
		m.Archetypes = append(m.Archetypes, a.String())
	}
	m.Elements = types.UniqueElements(els...)

	var soft, hard int
	for _, set := range [][]Aspect{res.Aspects, res.Natal} {
		for _, a := range set {
			switch {
			case a.Kind.Soft:
				soft++
			case a.Kind.Angle != 0:
				hard++
			}
		}
	}
	total := len(res.Aspects) + len(res.Natal)
	if total > 0 {
		m.Resonance = map[string]float64{
			"harmony": float64(soft) / float64(total),
			"tension": float64(hard) / float64(total),
		}
	}
	return m
}
