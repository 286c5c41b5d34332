// Package harmonic fits observed sea levels to a sum of sinusoids at the
// known astronomical frequencies of named tidal constituents, recovering one
// amplitude and one phase per constituent by least squares.
package harmonic

import (
	"fmt"
	"sort"

	"github.com/soniakeys/unit"
)

// speeds holds the angular speed of each supported constituent in degrees
// per hour. Values are the standard Doodson/Schureman speeds.
var speeds = map[string]float64{
	// Semidiurnal
	"M2": 28.9841042, // principal lunar
	"S2": 30.0000000, // principal solar
	"N2": 28.4397295, // larger lunar elliptic
	"K2": 30.0821373, // lunisolar
	// Diurnal
	"K1": 15.0410686, // lunisolar
	"O1": 13.9430356, // principal lunar
	"P1": 14.9589314, // principal solar
	"Q1": 13.3986609, // larger lunar elliptic
	// Shallow water
	"M4":  57.9682084,
	"MS4": 58.9841042,
	// Long period
	"MF":  1.0980331, // lunar fortnightly
	"MM":  0.5443747, // lunar monthly
	"SSA": 0.0821373, // solar semiannual
	"SA":  0.0410686, // solar annual
}

// Speed returns the angular speed of a named constituent as an angle
// advanced per hour.
func Speed(name string) (unit.Angle, error) {
	s, ok := speeds[name]
	if !ok {
		return 0, fmt.Errorf("unknown tidal constituent %q", name)
	}
	return unit.AngleFromDeg(s), nil
}

// Constituents lists every supported constituent name, sorted.
func Constituents() []string {
	names := make([]string, 0, len(speeds))
	for name := range speeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
