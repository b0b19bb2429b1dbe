// Package types provides the shared value types used by every cosmic system:
// birth moments, readings, archetype mappings, bundles and recalc intervals.
// It exists to break import cycles between the calculators, the registry and
// the synthesis engine, so it has no dependencies of its own.
package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBirthMoment is returned when a birth moment fails validation.
var ErrInvalidBirthMoment = errors.New("invalid birth moment")

// =============================================================================
// BIRTH MOMENT
// =============================================================================

// BirthMoment is the natal reference frame. It is a value type and is never
// mutated after construction.
type BirthMoment struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
}

// NewBirthMoment validates the coordinates and timezone and returns a
// BirthMoment whose Time is expressed in that zone. An empty timezone means UTC.
func NewBirthMoment(t time.Time, lat, lon float64, tz string) (BirthMoment, error) {
	if lat < -90 || lat > 90 {
		return BirthMoment{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidBirthMoment, lat)
	}
	if lon < -180 || lon > 180 {
		return BirthMoment{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidBirthMoment, lon)
	}
	if t.IsZero() {
		return BirthMoment{}, fmt.Errorf("%w: zero time", ErrInvalidBirthMoment)
	}
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return BirthMoment{}, fmt.Errorf("%w: %v", ErrInvalidBirthMoment, err)
	}
	return BirthMoment{
		Time:      t.In(loc),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  tz,
	}, nil
}

// Key returns a stable identity for caching natal results.
func (b BirthMoment) Key() string {
	return fmt.Sprintf("%d|%.4f|%.4f|%s", b.Time.Unix(), b.Latitude, b.Longitude, b.Timezone)
}

// Local returns the birth time in its own timezone, falling back to the
// stored location when the zone cannot be loaded.
func (b BirthMoment) Local() time.Time {
	if b.Timezone == "" {
		return b.Time
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return b.Time
	}
	return b.Time.In(loc)
}

// BirthKey returns the cache identity for an optional birth moment.
func BirthKey(b *BirthMoment) string {
	if b == nil {
		return ""
	}
	return b.Key()
}

// =============================================================================
// READINGS
// =============================================================================

// Reading is one calculator's result. Primary holds the calculator's own
// typed payload; Metrics is a flat set of named numbers.
type Reading struct {
	System    string             `json:"system"`
	Timestamp time.Time          `json:"timestamp"`
	Primary   any                `json:"primary"`
	Summary   string             `json:"summary"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Metric returns a named metric, or 0 when absent.
func (r *Reading) Metric(name string) float64 {
	if r == nil || r.Metrics == nil {
		return 0
	}
	return r.Metrics[name]
}

// CosmicBundle is what every active system says at one reference time.
type CosmicBundle struct {
	Timestamp time.Time           `json:"timestamp"`
	States    map[string]*Reading `json:"states"`
}

// Get returns the reading for a system, or nil.
func (b *CosmicBundle) Get(system string) *Reading {
	if b == nil || b.States == nil {
		return nil
	}
	return b.States[system]
}

// =============================================================================
// ELEMENTS & ARCHETYPES
// =============================================================================

// Element is one of the five elemental affinities.
type Element string

const (
	Fire  Element = "FIRE"  // dynamic
	Water Element = "WATER" // receptive
	Air   Element = "AIR"   // communicative
	Earth Element = "EARTH" // grounding
	Ether Element = "ETHER" // connective
)

// Elements is the canonical ordering of the vocabulary.
var Elements = []Element{Fire, Water, Air, Earth, Ether}

// Index returns the element's position in Elements, or -1.
func (e Element) Index() int {
	for i, el := range Elements {
		if el == e {
			return i
		}
	}
	return -1
}

// Valid reports whether e belongs to the vocabulary.
func (e Element) Valid() bool {
	return e.Index() >= 0
}

// ArchetypeMapping is the synthesis engine's view of a reading.
type ArchetypeMapping struct {
	System     string             `json:"system"`
	Elements   []Element          `json:"elements"`
	Archetypes []string           `json:"archetypes"`
	Resonance  map[string]float64 `json:"resonance,omitempty"`
}

// UniqueElements returns els with duplicates and unknown values removed,
// keeping first-seen order.
func UniqueElements(els ...Element) []Element {
	seen := make(map[Element]bool, len(els))
	out := make([]Element, 0, len(els))
	for _, e := range els {
		if !e.Valid() || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
