// Package astro holds the low-order analytic approximations shared by the
// calculators: solar and lunar longitude, planetary positions from mean
// orbital elements, and the 64-slot gate circle. Accuracy is on the order of
// a few arcminutes for the Sun and well under a degree for the Moon, which is
// plenty for symbolic systems and nowhere near ephemeris grade.
package astro

import (
	"math"
	"time"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	// J2000 is the Julian day of 2000-01-01 12:00 TT.
	J2000 = 2451545.0
)

// JulianDay converts t to a Julian day number.
func JulianDay(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/86400e9 + 2440587.5
}

// DaysSinceJ2000 returns the fractional days between J2000 and t.
func DaysSinceJ2000(t time.Time) float64 {
	return JulianDay(t) - J2000
}

// Normalize folds an angle into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// AngularDistance is the shortest separation between two longitudes, in [0,180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignedDelta returns a−b folded into (−180,180].
func SignedDelta(a, b float64) float64 {
	d := Normalize(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}

func sinDeg(d float64) float64 { return math.Sin(d * deg2rad) }
func cosDeg(d float64) float64 { return math.Cos(d * deg2rad) }

// ZodiacSigns in ecliptic order from 0°.
var ZodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Sign returns the tropical sign containing lon.
func Sign(lon float64) string {
	return ZodiacSigns[int(Normalize(lon)/30)%12]
}
