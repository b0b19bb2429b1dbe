package snapshot

// Filter selects snapshots. Zero-valued fields are unconstrained; every
// set field must match.
type Filter struct {
	CardName   string   `json:"card_name,omitempty"`
	Planet     string   `json:"planet,omitempty"`
	Gate       int      `json:"gate,omitempty"`
	MoonPhase  string   `json:"moon_phase,omitempty"`
	StormLevel string   `json:"storm_level,omitempty"`
	MinKp      *float64 `json:"min_kp,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.CardName == "" && f.Planet == "" && f.Gate == 0 &&
		f.MoonPhase == "" && f.StormLevel == "" && f.MinKp == nil
}

// Matches applies f to s. A nil snapshot only matches an empty filter.
func Matches(s *Snapshot, f Filter) bool {
	if s == nil {
		return f.IsEmpty()
	}
	if f.CardName != "" && f.CardName != s.CardName {
		return false
	}
	if f.Planet != "" && f.Planet != s.Planet {
		return false
	}
	if f.Gate != 0 && f.Gate != s.Gate {
		return false
	}
	if f.MoonPhase != "" && f.MoonPhase != s.MoonPhase {
		return false
	}
	if f.StormLevel != "" && f.StormLevel != s.StormLevel {
		return false
	}
	if f.MinKp != nil && s.KpIndex < *f.MinKp {
		return false
	}
	return true
}

// FilterFrom builds the filter that pins every field s carries.
func FilterFrom(s *Snapshot) Filter {
	if s == nil {
		return Filter{}
	}
	f := Filter{
		CardName:   s.CardName,
		Planet:     s.Planet,
		Gate:       s.Gate,
		MoonPhase:  s.MoonPhase,
		StormLevel: s.StormLevel,
	}
	if s.StormLevel != "" {
		kp := s.KpIndex
		f.MinKp = &kp
	}
	return f
}

// Float is a helper for building MinKp.
func Float(v float64) *float64 { return &v }
