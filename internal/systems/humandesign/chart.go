package humandesign

import (
	"fmt"
	"math"
	"time"

	"cosmic/internal/astro"
	"cosmic/internal/types"
)

const (
	// DesignArc is the solar arc between the design and personality snapshots.
	DesignArc = 88.0

	designEstimate  = time.Duration(88.5 * 24 * float64(time.Hour))
	designStep      = 5 * 24 * time.Hour
	designMinStep   = time.Hour
	designTolerance = 0.1
	designMaxIter   = 50
)

// DesignTime finds the moment the Sun stood DesignArc degrees before its
// birth position. The search starts 88.5 days before birth and moves by a
// step that starts at five days and halves every iteration, never below one
// hour, in whichever direction closes the gap.
func DesignTime(birth time.Time) time.Time {
	target := astro.Normalize(astro.SunLongitude(birth) - DesignArc)
	t := birth.Add(-designEstimate)
	step := designStep
	for i := 0; i < designMaxIter; i++ {
		gap := astro.SignedDelta(target, astro.SunLongitude(t))
		if math.Abs(gap) < designTolerance {
			break
		}
		if gap > 0 {
			t = t.Add(step)
		} else {
			t = t.Add(-step)
		}
		step /= 2
		if step < designMinStep {
			step = designMinStep
		}
	}
	return t
}

// Snapshot is the pair of solar activations taken at one instant.
type Snapshot struct {
	At    time.Time        `json:"at"`
	Sun   astro.Activation `json:"sun"`
	Earth astro.Activation `json:"earth"`
}

func snapshotAt(t time.Time) Snapshot {
	lon := astro.SunLongitude(t)
	return Snapshot{At: t, Sun: astro.GateAt(lon), Earth: astro.EarthOf(lon)}
}

// Chart is a natal chart. It depends only on the birth moment.
type Chart struct {
	BirthKey    string   `json:"birth_key"`
	Personality Snapshot `json:"personality"`
	Design      Snapshot `json:"design"`
	Gates       []int    `json:"gates"`
	Definition
	Profile string `json:"profile"`
}

// NewChart computes the natal chart for a birth moment.
func NewChart(birth types.BirthMoment) *Chart {
	p := snapshotAt(birth.Time)
	d := snapshotAt(DesignTime(birth.Time))
	gs := uniqueGates(p.Sun.Gate, p.Earth.Gate, d.Sun.Gate, d.Earth.Gate)
	return &Chart{
		BirthKey:    birth.Key(),
		Personality: p,
		Design:      d,
		Gates:       gs,
		Definition:  Define(gs),
		Profile:     fmt.Sprintf("%d/%d", p.Sun.Line, d.Sun.Line),
	}
}

// HasGate reports whether gate is a natal activation.
func (c *Chart) HasGate(gate int) bool {
	for _, g := range c.Gates {
		if g == gate {
			return true
		}
	}
	return false
}

// Overlay is the transit layer on top of a natal chart.
type Overlay struct {
	Transit   Snapshot  `json:"transit"`
	Completed []Channel `json:"completed,omitempty"`
}

// Overlay reports the channels that today's sun and earth gates complete
// against the natal gates. Channels already active natally are skipped.
func (c *Chart) Overlay(at time.Time) Overlay {
	tr := snapshotAt(at)
	transit := map[int]bool{tr.Sun.Gate: true, tr.Earth.Gate: true}

	var completed []Channel
	for _, ch := range Channels {
		if c.HasGate(ch.A) && c.HasGate(ch.B) {
			continue
		}
		if !transit[ch.A] && !transit[ch.B] {
			continue
		}
		if (c.HasGate(ch.A) || transit[ch.A]) && (c.HasGate(ch.B) || transit[ch.B]) {
			completed = append(completed, ch)
		}
	}
	return Overlay{Transit: tr, Completed: completed}
}
