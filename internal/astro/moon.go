package astro

import "time"

// Mean lunar distance bounds in km used for the supermoon scale.
const (
	PerigeeKm = 356500.0
	ApogeeKm  = 406700.0
)

// SynodicMonth is the mean new-moon to new-moon period in days.
const SynodicMonth = 29.530588853

type lunarArgs struct {
	L, M, Mp, D, F float64
}

func moonArgs(t time.Time) lunarArgs {
	d := DaysSinceJ2000(t)
	return lunarArgs{
		L:  Normalize(218.316 + 13.176396*d),  // mean longitude
		M:  Normalize(357.529 + 0.98560028*d), // solar mean anomaly
		Mp: Normalize(134.963 + 13.064993*d),  // lunar mean anomaly
		D:  Normalize(297.850 + 12.190749*d),  // mean elongation
		F:  Normalize(93.272 + 13.229350*d),   // argument of latitude
	}
}

// MoonLongitude returns the Moon's ecliptic longitude in degrees from the six
// largest periodic terms (error well under half a degree).
func MoonLongitude(t time.Time) float64 {
	a := moonArgs(t)
	lon := a.L +
		6.289*sinDeg(a.Mp) +
		1.274*sinDeg(2*a.D-a.Mp) +
		0.658*sinDeg(2*a.D) +
		0.214*sinDeg(2*a.Mp) -
		0.186*sinDeg(a.M) -
		0.114*sinDeg(2*a.F)
	return Normalize(lon)
}

// MoonDistance returns the Earth–Moon distance in km.
func MoonDistance(t time.Time) float64 {
	a := moonArgs(t)
	return 385001 -
		20905*cosDeg(a.Mp) -
		3699*cosDeg(2*a.D-a.Mp) -
		2956*cosDeg(2*a.D) -
		570*cosDeg(2*a.Mp)
}

// Elongation returns moon longitude − sun longitude in [0,360).
func Elongation(t time.Time) float64 {
	return Normalize(MoonLongitude(t) - SunLongitude(t))
}
