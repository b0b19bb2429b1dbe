// Package humandesign computes the natal Human Design chart: two solar
// snapshots (birth and roughly 88° of solar arc earlier), the channels they
// complete, the centers those channels define, and the type, authority and
// profile that follow from that definition.
package humandesign

import (
	"sort"

	"cosmic/internal/systems/gates"
)

// Channel joins two gates, and through them two centers.
type Channel struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Centers returns the two centers the channel links.
func (ch Channel) Centers() (gates.Center, gates.Center) {
	return gates.CenterOf(ch.A), gates.CenterOf(ch.B)
}

// Has reports whether gate is one of the channel's ends.
func (ch Channel) Has(gate int) bool {
	return ch.A == gate || ch.B == gate
}

// Channels is the fixed table of the 36 channels.
var Channels = []Channel{
	{1, 8}, {2, 14}, {3, 60}, {4, 63}, {5, 15}, {6, 59},
	{7, 31}, {9, 52}, {10, 20}, {10, 34}, {10, 57}, {11, 56},
	{12, 22}, {13, 33}, {16, 48}, {17, 62}, {18, 58}, {19, 49},
	{20, 34}, {20, 57}, {21, 45}, {23, 43}, {24, 61}, {25, 51},
	{26, 44}, {27, 50}, {28, 38}, {29, 46}, {30, 41}, {32, 54},
	{34, 57}, {35, 36}, {37, 40}, {39, 55}, {42, 53}, {47, 64},
}

// Motors are the centers whose connection to the Throat enables manifestation.
var Motors = []gates.Center{gates.Sacral, gates.SolarPlexus, gates.Heart, gates.Root}

// Type is the chart type.
type Type string

const (
	Reflector            Type = "Reflector"
	ManifestingGenerator Type = "Manifesting Generator"
	Generator            Type = "Generator"
	Manifestor           Type = "Manifestor"
	Projector            Type = "Projector"
)

// Authority is the chart's decision-making authority.
type Authority string

const (
	Emotional     Authority = "Emotional"
	SacralAuth    Authority = "Sacral"
	Splenic       Authority = "Splenic"
	EgoManifested Authority = "Ego Manifested"
	EgoProjected  Authority = "Ego Projected"
	SelfProjected Authority = "Self-Projected"
	Mental        Authority = "Mental"
	Lunar         Authority = "Lunar"
)

// Definition is everything derived from a set of activated gates.
type Definition struct {
	Channels  []Channel      `json:"channels"`
	Defined   []gates.Center `json:"defined"`
	Type      Type           `json:"type"`
	Authority Authority      `json:"authority"`
}

// IsDefined reports whether center is defined.
func (d Definition) IsDefined(center gates.Center) bool {
	for _, c := range d.Defined {
		if c == center {
			return true
		}
	}
	return false
}

// Define derives channels, defined centers, type and authority from a gate set.
func Define(activated []int) Definition {
	on := make(map[int]bool, len(activated))
	for _, g := range activated {
		on[g] = true
	}

	var active []Channel
	defined := make(map[gates.Center]bool)
	adj := make(map[gates.Center]map[gates.Center]bool)
	link := func(a, b gates.Center) {
		if adj[a] == nil {
			adj[a] = make(map[gates.Center]bool)
		}
		adj[a][b] = true
	}
	for _, ch := range Channels {
		if !on[ch.A] || !on[ch.B] {
			continue
		}
		active = append(active, ch)
		a, b := ch.Centers()
		defined[a], defined[b] = true, true
		link(a, b)
		link(b, a)
	}

	d := Definition{Channels: active}
	for _, c := range gates.Centers {
		if defined[c] {
			d.Defined = append(d.Defined, c)
		}
	}
	d.Type = chartType(defined, adj)
	d.Authority = authority(d.Type, defined)
	return d
}

func chartType(defined map[gates.Center]bool, adj map[gates.Center]map[gates.Center]bool) Type {
	if len(defined) == 0 {
		return Reflector
	}
	sacral := defined[gates.Sacral]
	manifests := motorReachesThroat(defined, adj)
	switch {
	case sacral && manifests:
		return ManifestingGenerator
	case sacral:
		return Generator
	case manifests:
		return Manifestor
	default:
		return Projector
	}
}

// motorReachesThroat runs a breadth-first search from every defined motor,
// walking only through defined centers.
func motorReachesThroat(defined map[gates.Center]bool, adj map[gates.Center]map[gates.Center]bool) bool {
	if !defined[gates.Throat] {
		return false
	}
	for _, m := range Motors {
		if !defined[m] {
			continue
		}
		seen := map[gates.Center]bool{m: true}
		queue := []gates.Center{m}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur == gates.Throat {
				return true
			}
			for next := range adj[cur] {
				if defined[next] && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return false
}

func authority(t Type, defined map[gates.Center]bool) Authority {
	switch {
	case t == Reflector:
		return Lunar
	case defined[gates.SolarPlexus]:
		return Emotional
	case defined[gates.Sacral]:
		return SacralAuth
	case defined[gates.Spleen]:
		return Splenic
	case defined[gates.Heart] && defined[gates.Throat]:
		return EgoManifested
	case defined[gates.Heart]:
		return EgoProjected
	case defined[gates.G]:
		return SelfProjected
	default:
		return Mental
	}
}

func uniqueGates(gs ...int) []int {
	seen := make(map[int]bool, len(gs))
	out := make([]int, 0, len(gs))
	for _, g := range gs {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Ints(out)
	return out
}
