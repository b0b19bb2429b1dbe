package astro

import "time"

// SunLongitude returns the Sun's apparent ecliptic longitude in degrees
// using the almanac's low-precision series (about 0.01° over 1950–2050).
func SunLongitude(t time.Time) float64 {
	d := DaysSinceJ2000(t)
	g := Normalize(357.529 + 0.98560028*d)
	q := Normalize(280.459 + 0.98564736*d)
	return Normalize(q + 1.915*sinDeg(g) + 0.020*sinDeg(2*g))
}

// SunMeanAnomaly returns the Sun's mean anomaly in degrees.
func SunMeanAnomaly(t time.Time) float64 {
	return Normalize(357.529 + 0.98560028*DaysSinceJ2000(t))
}
