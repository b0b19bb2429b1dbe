// Package transits finds the major aspects between the nine tracked bodies
// at a moment, and between those bodies and their natal positions.
package transits

import (
	"fmt"
	"sort"

	"cosmic/internal/astro"
	"cosmic/internal/types"
)

// AspectKind is one of the five major aspects with its orb.
type AspectKind struct {
	Name    string        `json:"name"`
	Angle   float64       `json:"angle"`
	Orb     float64       `json:"orb"`
	Element types.Element `json:"element"`
	Soft    bool          `json:"soft"`
}

// Kinds lists the major aspects.
var Kinds = []AspectKind{
	{Name: "conjunction", Angle: 0, Orb: 8, Element: types.Ether},
	{Name: "sextile", Angle: 60, Orb: 6, Element: types.Air, Soft: true},
	{Name: "square", Angle: 90, Orb: 7, Element: types.Fire},
	{Name: "trine", Angle: 120, Orb: 8, Element: types.Water, Soft: true},
	{Name: "opposition", Angle: 180, Orb: 8, Element: types.Earth},
}

const (
	exactOrb = 1.0
	tightOrb = 2.0
)

// Aspect is a matched angle between two bodies.
type Aspect struct {
	A          astro.Body `json:"a"`
	B          astro.Body `json:"b"`
	Kind       AspectKind `json:"kind"`
	Separation float64    `json:"separation"`
	Deviation  float64    `json:"deviation"`
	Natal      bool       `json:"natal,omitempty"`
}

// Exact reports a deviation under one degree.
func (a Aspect) Exact() bool { return a.Deviation < exactOrb }

// Tight reports a deviation between one and two degrees.
func (a Aspect) Tight() bool { return a.Deviation >= exactOrb && a.Deviation <= tightOrb }

// Significant reports an exact or tight aspect.
func (a Aspect) Significant() bool { return a.Deviation <= tightOrb }

func (a Aspect) String() string {
	b := string(a.B)
	if a.Natal {
		b = "natal " + b
	}
	return fmt.Sprintf("%s %s %s", a.A, a.Kind.Name, b)
}

// Match returns the aspect formed by a separation, picking the closest
// kind whose orb admits it.
func Match(a, b float64) (AspectKind, float64, bool) {
	sep := astro.AngularDistance(a, b)
	best, bestDev, found := AspectKind{}, 0.0, false
	for _, k := range Kinds {
		dev := sep - k.Angle
		if dev < 0 {
			dev = -dev
		}
		if dev <= k.Orb && (!found || dev < bestDev) {
			best, bestDev, found = k, dev, true
		}
	}
	return best, bestDev, found
}

// Between finds aspects among every unordered pair of positions.
func Between(pos map[astro.Body]float64) []Aspect {
	var out []Aspect
	for i, a := range astro.Bodies {
		la, ok := pos[a]
		if !ok {
			continue
		}
		for _, b := range astro.Bodies[i+1:] {
			lb, ok := pos[b]
			if !ok {
				continue
			}
			if k, dev, ok := Match(la, lb); ok {
				out = append(out, Aspect{A: a, B: b, Kind: k, Separation: astro.AngularDistance(la, lb), Deviation: dev})
			}
		}
	}
	sortAspects(out)
	return out
}

// ToNatal compares every transiting body with every natal position.
func ToNatal(transit, natal map[astro.Body]float64) []Aspect {
	var out []Aspect
	for _, a := range astro.Bodies {
		la, ok := transit[a]
		if !ok {
			continue
		}
		for _, b := range astro.Bodies {
			lb, ok := natal[b]
			if !ok {
				continue
			}
			if k, dev, ok := Match(la, lb); ok {
				out = append(out, Aspect{A: a, B: b, Kind: k, Separation: astro.AngularDistance(la, lb), Deviation: dev, Natal: true})
			}
		}
	}
	sortAspects(out)
	return out
}

func sortAspects(as []Aspect) {
	sort.SliceStable(as, func(i, j int) bool { return as[i].Deviation < as[j].Deviation })
}
