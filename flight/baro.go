package flight

import "math"

// SeaLevelPressure is the standard atmosphere reference in Pa.
const SeaLevelPressure = 101325.0

// PressureAltitude converts static pressure to altitude above the standard
// sea level, in meters.
func PressureAltitude(p float64) float64 {
	return 44330 * (1 - math.Pow(p/SeaLevelPressure, 1/5.255))
}

// AltitudePressure is the inverse of PressureAltitude.
func AltitudePressure(h float64) float64 {
	return SeaLevelPressure * math.Pow(1-h/44330, 5.255)
}
