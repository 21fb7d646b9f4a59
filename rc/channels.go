package rc

import "golang.org/x/exp/constraints"

// Pulse-width limits shared by every receiver protocol, in microseconds.
const (
	NumChannels = 16 // CRSF carries 16, iBus fills the first 14

	MIN_RX_VALUE     = 988  // Minimum Rx channel value
	MAX_RX_VALUE     = 2012 // Maximum Rx channel value
	NEUTRAL_RX_VALUE = 1500 // Neutral Rx channel value
	HIGH_RX_VALUE    = 1800 // Switch threshold for arm/mode channels
	DEADBAND         = 20   // Deadband around neutral
)

// Channels holds one decoded frame, every value a pulse width in microseconds.
type Channels [NumChannels]uint16

// Decoder turns a receiver byte stream into channel frames.
// Feed is called once per byte and reports true when b completed a valid frame.
type Decoder interface {
	Feed(b byte) (Channels, bool)
	Errors() uint32
}

// Stick maps a pulse width to [-1, 1] with the deadband around neutral applied.
func Stick(us uint16) float64 {
	v := float64(us)
	if v > NEUTRAL_RX_VALUE-DEADBAND && v < NEUTRAL_RX_VALUE+DEADBAND {
		return 0
	}
	v = Constrain(v, MIN_RX_VALUE, MAX_RX_VALUE)
	return MapRange(v, MIN_RX_VALUE, MAX_RX_VALUE, -1.0, 1.0)
}

// Throttle maps a pulse width to [0, 1].
func Throttle(us uint16) float64 {
	v := Constrain(float64(us), MIN_RX_VALUE, MAX_RX_VALUE)
	return MapRange(v, MIN_RX_VALUE, MAX_RX_VALUE, 0.0, 1.0)
}

// Switch reports whether a two-position switch channel is high.
func Switch(us uint16) bool {
	return us > HIGH_RX_VALUE
}

// Constrain clamps value within min and max bounds.
func Constrain[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MapRange maps a value from one range to another.
func MapRange[T constraints.Float](value, fromMin, fromMax, toMin, toMax T) T {
	return (value-fromMin)/(fromMax-fromMin)*(toMax-toMin) + toMin
}
