package astro

import (
	"math"
	"time"
)

// Body is a solar-system body tracked by the aspect finder.
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Uranus  Body = "Uranus"
	Neptune Body = "Neptune"
)

// Bodies lists the nine tracked bodies in traditional order.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune}

// orbit holds J2000 mean elements and their rates per Julian century
// (JPL approximate elements, valid 1800–2050).
type orbit struct {
	a, da       float64 // semi-major axis, au
	e, de       float64 // eccentricity
	i, di       float64 // inclination, deg
	l, dl       float64 // mean longitude, deg
	peri, dperi float64 // longitude of perihelion, deg
	node, dnode float64 // longitude of ascending node, deg
}

var orbits = map[Body]orbit{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	"Earth": {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// heliocentric returns ecliptic x,y,z in au.
func heliocentric(o orbit, T float64) (x, y, z float64) {
	a := o.a + o.da*T
	e := o.e + o.de*T
	inc := (o.i + o.di*T) * deg2rad
	L := o.l + o.dl*T
	peri := o.peri + o.dperi*T
	node := o.node + o.dnode*T

	w := (peri - node) * deg2rad
	M := Normalize(L-peri) * deg2rad
	if M > math.Pi {
		M -= 2 * math.Pi
	}
	O := node * deg2rad

	E := M + e*math.Sin(M)
	for k := 0; k < 8; k++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-9 {
			break
		}
	}

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(w), math.Sin(w)
	cO, sO := math.Cos(O), math.Sin(O)
	ci, si := math.Cos(inc), math.Sin(inc)

	x = (cw*cO-sw*sO*ci)*xp + (-sw*cO-cw*sO*ci)*yp
	y = (cw*sO+sw*cO*ci)*xp + (-sw*sO+cw*cO*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// Longitude returns the geocentric ecliptic longitude of body at t.
func Longitude(body Body, t time.Time) float64 {
	switch body {
	case Sun:
		return SunLongitude(t)
	case Moon:
		return MoonLongitude(t)
	}
	o, ok := orbits[body]
	if !ok {
		return 0
	}
	T := DaysSinceJ2000(t) / 36525
	px, py, _ := heliocentric(o, T)
	ex, ey, _ := heliocentric(orbits["Earth"], T)
	return Normalize(math.Atan2(py-ey, px-ex) * rad2deg)
}

// Positions returns the longitude of every tracked body at t.
func Positions(t time.Time) map[Body]float64 {
	out := make(map[Body]float64, len(Bodies))
	for _, b := range Bodies {
		out[b] = Longitude(b, t)
	}
	return out
}
