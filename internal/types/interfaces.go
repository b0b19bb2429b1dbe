package types

import (
	"context"
	"fmt"
	"time"
)

// Calculator is a cosmic system plugged into the registry.
//
// Calculate returns (nil, nil) when the system has nothing to say, e.g. a
// birth moment is required but missing. Errors are reserved for malformed
// input; unavailable external data degrades to documented defaults.
type Calculator interface {
	ID() string
	Name() string
	RequiresBirth() bool
	Interval() RecalcInterval
	Calculate(ctx context.Context, birth *BirthMoment, at time.Time) (*Reading, error)
	// Synthesize re-renders a reading's summary without recomputing it.
	Synthesize(r *Reading) string
	Archetypes(r *Reading) ArchetypeMapping
}

// =============================================================================
// RECALC INTERVAL
// =============================================================================

// IntervalKind tags a RecalcInterval.
type IntervalKind string

const (
	IntervalHours    IntervalKind = "hours"
	IntervalDaily    IntervalKind = "daily"
	IntervalPeriodic IntervalKind = "periodic_days"
	IntervalMinutes  IntervalKind = "minutes"
)

// RecalcInterval is a calculator's declared cache lifetime.
type RecalcInterval struct {
	Kind  IntervalKind `json:"kind"`
	Value int          `json:"value,omitempty"`
}

// Hours returns an interval of n hours.
func Hours(n int) RecalcInterval { return RecalcInterval{Kind: IntervalHours, Value: n} }

// Daily returns a one-day interval.
func Daily() RecalcInterval { return RecalcInterval{Kind: IntervalDaily, Value: 1} }

// EveryDays returns an interval of n days.
func EveryDays(n int) RecalcInterval { return RecalcInterval{Kind: IntervalPeriodic, Value: n} }

// Minutes returns an interval of n minutes.
func Minutes(n int) RecalcInterval { return RecalcInterval{Kind: IntervalMinutes, Value: n} }

// TTL resolves the interval to a fixed duration. Non-positive values count as 1.
func (ri RecalcInterval) TTL() time.Duration {
	n := ri.Value
	if n < 1 {
		n = 1
	}
	switch ri.Kind {
	case IntervalHours:
		return time.Duration(n) * time.Hour
	case IntervalDaily:
		return 24 * time.Hour
	case IntervalPeriodic:
		return time.Duration(n) * 24 * time.Hour
	case IntervalMinutes:
		return time.Duration(n) * time.Minute
	default:
		return time.Hour
	}
}

func (ri RecalcInterval) String() string {
	switch ri.Kind {
	case IntervalDaily:
		return "daily"
	case IntervalPeriodic:
		return fmt.Sprintf("every %d days", ri.Value)
	case IntervalHours:
		return fmt.Sprintf("every %dh", ri.Value)
	case IntervalMinutes:
		return fmt.Sprintf("every %dm", ri.Value)
	default:
		return string(ri.Kind)
	}
}

// =============================================================================
// RESONANCE BANDS
// =============================================================================

// Band is the categorical label of a resonance score.
type Band string

const (
	BandHarmonic    Band = "harmonic"
	BandSupportive  Band = "supportive"
	BandNeutral     Band = "neutral"
	BandChallenging Band = "challenging"
	BandDissonant   Band = "dissonant"
)

// BandFor maps a score onto the fixed thresholds.
func BandFor(score float64) Band {
	switch {
	case score >= 0.8:
		return BandHarmonic
	case score >= 0.6:
		return BandSupportive
	case score >= 0.4:
		return BandNeutral
	case score >= 0.2:
		return BandChallenging
	default:
		return BandDissonant
	}
}
