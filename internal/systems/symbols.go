// Package systems holds the symbol tables shared by the individual
// calculators: planetary rulers and their elements and archetype labels.
// Each calculator lives in its own sub-package.
package systems

import "cosmic/internal/types"

// Calculator identifiers.
const (
	IDCardology   = "cardology"
	IDGates       = "gates"
	IDHumanDesign = "human_design"
	IDSolar       = "solar"
	IDLunar       = "lunar"
	IDTransits    = "transits"
)

// AllIDs lists every built-in calculator in registration order.
var AllIDs = []string{IDCardology, IDGates, IDHumanDesign, IDSolar, IDLunar, IDTransits}

// PlanetElement maps a planet name to its elemental affinity.
var PlanetElement = map[string]types.Element{
	"Sun":     types.Fire,
	"Moon":    types.Water,
	"Mercury": types.Air,
	"Venus":   types.Earth,
	"Mars":    types.Fire,
	"Jupiter": types.Fire,
	"Saturn":  types.Earth,
	"Uranus":  types.Air,
	"Neptune": types.Water,
	"Pluto":   types.Ether,
}

// PlanetArchetype maps a planet name to a short archetype label.
var PlanetArchetype = map[string]string{
	"Sun":     "The Sovereign",
	"Moon":    "The Nurturer",
	"Mercury": "The Messenger",
	"Venus":   "The Lover",
	"Mars":    "The Warrior",
	"Jupiter": "The Sage",
	"Saturn":  "The Elder",
	"Uranus":  "The Awakener",
	"Neptune": "The Mystic",
	"Pluto":   "The Alchemist",
}
