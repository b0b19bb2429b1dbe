package cardology

import (
	"context"
	"fmt"
	"time"

	"cosmic/internal/logging"
	"cosmic/internal/systems"
	"cosmic/internal/types"
)

// Result is the cardology reading payload.
type Result struct {
	BirthCard   Card   `json:"birth_card"`
	SolarValue  int    `json:"solar_value"`
	Age         int    `json:"age"`
	KarmaCards  []Card `json:"karma_cards,omitempty"`
	Cycle       Cycle  `json:"cycle"`
	PeriodIndex int    `json:"period_index"`
	Period      Period `json:"period"`
	PeriodDay   int    `json:"period_day"`
	DaysLeft    int    `json:"days_left"`
}

// Progress is the fraction of the current period already elapsed.
func (r *Result) Progress() float64 {
	if r.Period.Days == 0 {
		return 0
	}
	return types.Clamp01(float64(r.PeriodDay) / float64(r.Period.Days))
}

// Calculator computes the card cycle for a birth moment.
type Calculator struct{}

// New returns a cardology calculator.
func New() *Calculator { return &Calculator{} }

func (c *Calculator) ID() string                     { return systems.IDCardology }
func (c *Calculator) Name() string                   { return "Cardology" }
func (c *Calculator) RequiresBirth() bool            { return true }
func (c *Calculator) Interval() types.RecalcInterval { return types.Daily() }

// Calculate returns nil without a birth moment.
func (c *Calculator) Calculate(ctx context.Context, birth *types.BirthMoment, at time.Time) (*types.Reading, error) {
	if birth == nil {
		return nil, nil
	}
	local := birth.Local()
	at = at.In(local.Location())
	month, day := int(local.Month()), local.Day()

	card, err := BirthCard(month, day)
	if err != nil {
		return nil, err
	}
	sv, _ := SolarValue(month, day)

	cycle, err := NewCycle(month, day, at)
	if err != nil {
		return nil, err
	}
	age := cycle.Start.Year() - local.Year()
	if age < 0 {
		age = 0
	}

	for i, pc := range PeriodCards(card, age) {
		cycle.Periods[i].Card = pc
	}
	idx, period := cycle.Current(at)
	today := civilDate(at)

	res := &Result{
		BirthCard:   card,
		SolarValue:  sv,
		Age:         age,
		KarmaCards:  KarmaCards(card),
		Cycle:       cycle,
		PeriodIndex: idx,
		Period:      period,
		PeriodDay:   daysBetween(period.Start, today) + 1,
		DaysLeft:    daysBetween(today, period.End),
	}
	logging.CalculatorsDebug("cardology: %s age=%d period=%s day=%d/%d", card.Name(), age, period.Planet, res.PeriodDay, period.Days)

	return &types.Reading{
		System:    c.ID(),
		Timestamp: at,
		Primary:   res,
		Summary:   summarize(res),
		Metrics: map[string]float64{
			"solar_value":     float64(sv),
			"age":             float64(age),
			"period_index":    float64(idx + 1),
			"period_day":      float64(res.PeriodDay),
			"period_progress": res.Progress(),
			"days_left":       float64(res.DaysLeft),
		},
	}, nil
}

func summarize(r *Result) string {
	s := fmt.Sprintf("%s in the %s period (day %d of %d)", r.BirthCard.Name(), r.Period.Planet, r.PeriodDay, r.Period.Days)
	if !r.Period.Card.IsJoker() {
		s += fmt.Sprintf(", period card %s", r.Period.Card.Name())
	}
	return s
}

func (c *Calculator) Synthesize(r *types.Reading) string {
	if r == nil {
		return ""
	}
	return r.Summary
}

// Archetypes tags the birth card suit, the period ruler and the period card suit.
func (c *Calculator) Archetypes(r *types.Reading) types.ArchetypeMapping {
	m := types.ArchetypeMapping{System: c.ID()}
	res, ok := primary(r)
	if !ok {
		return m
	}
	els := []types.Element{res.BirthCard.Suit.Element(), systems.PlanetElement[res.Period.Planet]}
	labels := []string{res.BirthCard.Name(), systems.PlanetArchetype[res.Period.Planet]}
	if !res.Period.Card.IsJoker() {
		els = append(els, res.Period.Card.Suit.Element())
		labels = append(labels, res.Period.Card.Name())
	}
	m.Elements = types.UniqueElements(els...)
	m.Archetypes = labels
	m.Resonance = map[string]float64{
		"period_progress": res.Progress(),
		"karma":           float64(len(res.KarmaCards)) / 2,
	}
	return m
}

func primary(r *types.Reading) (*Result, bool) {
	if r == nil {
		return nil, false
	}
	res, ok := r.Primary.(*Result)
	return res, ok && res != nil
}
