package astro

import "math"

// GateOffset rotates the ecliptic so gate 41 starts at 0 (302° tropical).
const GateOffset = 58.0

// GateArc is the width of one gate in degrees.
const GateArc = 360.0 / 64

// GateOrder is the fixed 64-gate wheel starting at gate 41.
var GateOrder = [64]int{
	41, 19, 13, 49, 30, 55, 37, 63,
	22, 36, 25, 17, 21, 51, 42, 3,
	27, 24, 2, 23, 8, 20, 16, 35,
	45, 12, 15, 52, 39, 53, 62, 56,
	31, 33, 7, 4, 29, 59, 40, 64,
	47, 6, 46, 18, 48, 57, 32, 50,
	28, 44, 1, 43, 14, 34, 9, 5,
	26, 11, 10, 58, 38, 54, 61, 60,
}

var gateSlot = func() map[int]int {
	m := make(map[int]int, 64)
	for i, g := range GateOrder {
		m[g] = i
	}
	return m
}()

// Activation is a longitude resolved onto the gate circle.
type Activation struct {
	Gate      int     `json:"gate"`
	Line      int     `json:"line"`
	Color     int     `json:"color"`
	Tone      int     `json:"tone"`
	Base      int     `json:"base"`
	Longitude float64 `json:"longitude"`
}

// GateAt resolves an ecliptic longitude to its gate and sub-divisions.
// Line, color and tone split the remainder into sixths; base into fifths.
func GateAt(lon float64) Activation {
	lon = Normalize(lon)
	pos := Normalize(lon+GateOffset) / 360 * 64
	idx := int(math.Floor(pos))
	if idx > 63 {
		idx = 63
	}
	frac := pos - float64(idx)

	line, frac := split(frac, 6)
	color, frac := split(frac, 6)
	tone, frac := split(frac, 6)
	base, _ := split(frac, 5)

	return Activation{
		Gate:      GateOrder[idx],
		Line:      line,
		Color:     color,
		Tone:      tone,
		Base:      base,
		Longitude: lon,
	}
}

// split returns the 1-based bucket of frac among n and the remainder.
func split(frac float64, n int) (int, float64) {
	scaled := frac * float64(n)
	bucket := int(math.Floor(scaled))
	if bucket >= n {
		bucket = n - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return bucket + 1, scaled - float64(bucket)
}

// GateStart returns the ecliptic longitude where gate begins, or -1 for an
// unknown gate.
func GateStart(gate int) float64 {
	slot, ok := gateSlot[gate]
	if !ok {
		return -1
	}
	return Normalize(float64(slot)*GateArc - GateOffset)
}

// EarthOf returns the activation opposite lon.
func EarthOf(lon float64) Activation {
	return GateAt(lon + 180)
}
