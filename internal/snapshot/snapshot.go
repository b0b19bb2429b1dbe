// Package snapshot condenses a cosmic bundle into a flat record that can be
// attached to stored metadata, and filters those records at retrieval time.
package snapshot

import (
	"encoding/json"
	"time"

	"cosmic/internal/systems"
	"cosmic/internal/systems/cardology"
	"cosmic/internal/systems/gates"
	"cosmic/internal/systems/humandesign"
	"cosmic/internal/systems/lunar"
	"cosmic/internal/systems/solar"
	"cosmic/internal/systems/transits"
	"cosmic/internal/types"
)

// MetadataKey is the metadata entry the enrichment hook writes.
const MetadataKey = "cosmic"

// Snapshot is the compact cosmic state at one moment. Zero values mean the
// owning system did not report.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	CardName   string `json:"card_name,omitempty"`
	Planet     string `json:"planet,omitempty"`
	PeriodCard string `json:"period_card,omitempty"`

	Gate      int `json:"gate,omitempty"`
	Line      int `json:"line,omitempty"`
	EarthGate int `json:"earth_gate,omitempty"`

	MoonPhase    string  `json:"moon_phase,omitempty"`
	Illumination float64 `json:"illumination,omitempty"`

	KpIndex    float64 `json:"kp_index,omitempty"`
	StormLevel string  `json:"storm_level,omitempty"`

	HDType      string `json:"hd_type,omitempty"`
	HDAuthority string `json:"hd_authority,omitempty"`

	AspectCount    int    `json:"aspect_count,omitempty"`
	TightestAspect string `json:"tightest_aspect,omitempty"`
}

// Build condenses a bundle. A nil bundle yields nil.
func Build(bundle *types.CosmicBundle) *Snapshot {
	if bundle == nil {
		return nil
	}
	s := &Snapshot{Timestamp: bundle.Timestamp}

	if r, ok := primary[*cardology.Result](bundle, systems.IDCardology); ok {
		s.CardName = r.BirthCard.Name()
		s.Planet = r.Period.Planet
		if !r.Period.Card.IsJoker() {
			s.PeriodCard = r.Period.Card.Name()
		}
	}
	if r, ok := primary[*gates.Result](bundle, systems.IDGates); ok {
		s.Gate = r.Sun.Gate
		s.Line = r.Sun.Line
		s.EarthGate = r.Earth.Gate
	}
	if r, ok := primary[*lunar.Result](bundle, systems.IDLunar); ok {
		s.MoonPhase = r.Phase
		s.Illumination = r.Illumination
	}
	if r, ok := primary[*solar.Result](bundle, systems.IDSolar); ok {
		s.KpIndex = r.Kp
		s.StormLevel = string(r.Level)
	}
	if r, ok := primary[*humandesign.Result](bundle, systems.IDHumanDesign); ok && r.Chart != nil {
		s.HDType = string(r.Chart.Type)
		s.HDAuthority = string(r.Chart.Authority)
	}
	if r, ok := primary[*transits.Result](bundle, systems.IDTransits); ok {
		s.AspectCount = len(r.Aspects) + len(r.Natal)
		if t := r.Tightest(); t != nil {
			s.TightestAspect = t.String()
		}
	}
	return s
}

func primary[T comparable](bundle *types.CosmicBundle, id string) (T, bool) {
	var zero T
	r := bundle.Get(id)
	if r == nil {
		return zero, false
	}
	v, ok := r.Primary.(T)
	if !ok || v == zero {
		return zero, false
	}
	return v, true
}

// FromMetadata extracts a snapshot stored under MetadataKey. It accepts the
// struct itself or its decoded JSON form.
func FromMetadata(meta map[string]any) (*Snapshot, bool) {
	v, ok := meta[MetadataKey]
	if !ok || v == nil {
		return nil, false
	}
	switch s := v.(type) {
	case *Snapshot:
		return s, s != nil
	case Snapshot:
		return &s, true
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var out Snapshot
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, false
		}
		return &out, true
	}
}
