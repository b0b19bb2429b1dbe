package harmonic

import "cosmic/internal/types"

// compatibility is the symmetric elemental matrix, indexed in
// types.Elements order: FIRE, WATER, AIR, EARTH, ETHER.
var compatibility = [5][5]float64{
	{1.0, 0.2, 0.8, 0.4, 0.6}, // FIRE
	{0.2, 1.0, 0.3, 0.8, 0.6}, // WATER
	{0.8, 0.3, 1.0, 0.3, 0.7}, // AIR
	{0.4, 0.8, 0.3, 1.0, 0.5}, // EARTH
	{0.6, 0.6, 0.7, 0.5, 1.0}, // ETHER
}

// Compatibility returns the elemental affinity of a and b. Unknown
// elements score a neutral 0.5.
func Compatibility(a, b types.Element) float64 {
	i, j := a.Index(), b.Index()
	if i < 0 || j < 0 {
		return 0.5
	}
	return compatibility[i][j]
}
