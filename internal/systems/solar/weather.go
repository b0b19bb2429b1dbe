// Package solar classifies space weather: the planetary K index sets a
// four-level geomagnetic severity and the GOES X-ray flux sets the flare
// class. Observations come from NOAA SWPC and fall back to quiet defaults
// whenever the feed is unavailable.
package solar

import "time"

// Level is the geomagnetic severity.
type Level string

const (
	Quiet  Level = "quiet"
	Active Level = "active"
	Storm  Level = "storm"
	Severe Level = "severe"
)

// Levels lists the severities in increasing order.
var Levels = []Level{Quiet, Active, Storm, Severe}

// Index returns the level's rank, 0 for quiet through 3 for severe.
func (l Level) Index() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return 0
}

// Event names.
const (
	EventGeomagneticStorm = "geomagnetic_storm"
	EventSolarFlare       = "solar_flare"
)

// Defaults used when no observation can be fetched.
const (
	DefaultKp   = 2.0
	DefaultFlux = 1e-7

	SourceDefault = "default"
	SourceSWPC    = "swpc"
)

// Observation is one reading of the space-weather feeds.
type Observation struct {
	Kp         float64   `json:"kp"`
	Flux       float64   `json:"flux"`
	ObservedAt time.Time `json:"observed_at"`
	Source     string    `json:"source"`
}

// DefaultObservation is the documented fallback.
func DefaultObservation() Observation {
	return Observation{Kp: DefaultKp, Flux: DefaultFlux, Source: SourceDefault}
}

// Classify maps a planetary K index to its severity.
func Classify(kp float64) Level {
	switch {
	case kp >= 7:
		return Severe
	case kp >= 5:
		return Storm
	case kp >= 4:
		return Active
	default:
		return Quiet
	}
}

// FlareClass maps a 0.1-0.8nm X-ray flux in W/m² to its letter class.
func FlareClass(flux float64) string {
	switch {
	case flux < 1e-7:
		return "A"
	case flux < 1e-6:
		return "B"
	case flux < 1e-5:
		return "C"
	case flux < 1e-4:
		return "M"
	default:
		return "X"
	}
}

// Events lists the discrete events an observation triggers.
func Events(kp float64, class string) []string {
	var out []string
	if kp >= 5 {
		out = append(out, EventGeomagneticStorm)
	}
	if class == "M" || class == "X" {
		out = append(out, EventSolarFlare)
	}
	return out
}
