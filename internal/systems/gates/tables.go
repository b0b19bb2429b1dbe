// Package gates maps the Sun's ecliptic longitude onto the 64-gate wheel
// and carries the gate vocabulary shared with the Human Design chart:
// gate names and the gate-to-center table.
package gates

import "cosmic/internal/types"

var names = [65]string{
	"",
	"The Creative", "The Receptive", "Difficulty at the Beginning", "Youthful Folly",
	"Waiting", "Conflict", "The Army", "Holding Together",
	"Small Taming", "Treading", "Peace", "Standstill",
	"Fellowship", "Possession in Great Measure", "Modesty", "Enthusiasm",
	"Following", "Work on the Decayed", "Approach", "Contemplation",
	"Biting Through", "Grace", "Splitting Apart", "Return",
	"Innocence", "Great Taming", "Nourishment", "Preponderance of the Great",
	"The Abysmal", "The Clinging", "Influence", "Duration",
	"Retreat", "Power of the Great", "Progress", "Darkening of the Light",
	"The Family", "Opposition", "Obstruction", "Deliverance",
	"Decrease", "Increase", "Breakthrough", "Coming to Meet",
	"Gathering Together", "Pushing Upward", "Oppression", "The Well",
	"Revolution", "The Cauldron", "The Arousing", "Keeping Still",
	"Development", "The Marrying Maiden", "Abundance", "The Wanderer",
	"The Gentle", "The Joyous", "Dispersion", "Limitation",
	"Inner Truth", "Preponderance of the Small", "After Completion", "Before Completion",
}

// Name returns the gate's hexagram name, or "" for an unknown gate.
func Name(gate int) string {
	if gate < 1 || gate > 64 {
		return ""
	}
	return names[gate]
}

// Center is one of the nine bodygraph centers.
type Center string

const (
	Head        Center = "Head"
	Ajna        Center = "Ajna"
	Throat      Center = "Throat"
	G           Center = "G"
	Heart       Center = "Heart"
	Sacral      Center = "Sacral"
	SolarPlexus Center = "Solar Plexus"
	Spleen      Center = "Spleen"
	Root        Center = "Root"
)

// Centers lists the nine centers top to bottom.
var Centers = []Center{Head, Ajna, Throat, G, Heart, Sacral, SolarPlexus, Spleen, Root}

// CenterGates lists the gates that belong to each center.
var CenterGates = map[Center][]int{
	Head:        {64, 61, 63},
	Ajna:        {47, 24, 4, 17, 43, 11},
	Throat:      {62, 23, 56, 35, 12, 45, 33, 8, 31, 20, 16},
	G:           {1, 13, 25, 46, 2, 15, 10, 7},
	Heart:       {21, 40, 26, 51},
	Sacral:      {5, 14, 29, 59, 9, 3, 42, 27, 34},
	SolarPlexus: {6, 37, 22, 36, 30, 55, 49},
	Spleen:      {48, 57, 44, 50, 32, 28, 18},
	Root:        {53, 60, 52, 19, 39, 41, 58, 38, 54},
}

var gateCenter = func() [65]Center {
	var out [65]Center
	for c, gs := range CenterGates {
		for _, g := range gs {
			out[g] = c
		}
	}
	return out
}()

// CenterOf returns the center a gate belongs to, or "" for an unknown gate.
func CenterOf(gate int) Center {
	if gate < 1 || gate > 64 {
		return ""
	}
	return gateCenter[gate]
}

var centerElements = map[Center]types.Element{
	Head:        types.Ether,
	Ajna:        types.Air,
	Throat:      types.Air,
	G:           types.Ether,
	Heart:       types.Fire,
	Sacral:      types.Fire,
	SolarPlexus: types.Water,
	Spleen:      types.Water,
	Root:        types.Earth,
}

// Element returns the center's elemental affinity.
func (c Center) Element() types.Element {
	return centerElements[c]
}
