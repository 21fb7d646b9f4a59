package flight

import "github.com/BryanSouza91/RotorFC/kernel"

/*
The status LED is serviced from a housekeeping slot, so its timing counts
service calls rather than reading a clock.

Patterns: off before init, a slow flash while the attitude reference
aligns, alternating slow blink when disarmed, solid while armed, three
blinks then a pause while flying a mission, and a rapid flash in failsafe.
*/

// Pin is a digital output. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// LED patterns
const (
	LED_OFF = iota
	LED_ON
	LED_SLOWFLASH
	LED_FASTFLASH
	LED_FLASH
	LED_ALTERNATE
	LED_BLINK3
)

// Pattern half periods in milliseconds.
const (
	slowFlashMs = 250
	fastFlashMs = 50
	flashMs     = 150
	alternateMs = 500
	blink3Ms    = 100
)

// LED drives one indicator pin through a pattern.
type LED struct {
	pin     Pin
	state   int
	isOn    bool
	callMs  float64
	elapsed float64
	blinks  int
}

// NewLED returns an LED serviced hz times per second.
func NewLED(pin Pin, hz float64) *LED {
	if hz <= 0 {
		hz = 1
	}
	pin.Low()
	return &LED{pin: pin, state: LED_OFF, callMs: 1000 / hz}
}

func (l *LED) SetState(state int) {
	if state == l.state {
		return
	}
	l.state = state
	l.elapsed = 0
	l.blinks = 0
}

func (l *LED) State() int { return l.state }

func (l *LED) IsOn() bool { return l.isOn }

// Periodic advances the pattern by one service call.
func (l *LED) Periodic() {
	l.elapsed += l.callMs
	switch l.state {
	case LED_OFF:
		l.set(false)
	case LED_ON:
		l.set(true)
	case LED_SLOWFLASH:
		l.toggleEvery(slowFlashMs)
	case LED_FASTFLASH:
		l.toggleEvery(fastFlashMs)
	case LED_FLASH:
		l.toggleEvery(flashMs)
	case LED_ALTERNATE:
		l.toggleEvery(alternateMs)
	case LED_BLINK3:
		// Three on/off blinks, then dark for three blink periods.
		if l.elapsed < blink3Ms {
			return
		}
		l.elapsed = 0
		l.blinks++
		switch {
		case l.blinks <= 6:
			l.set(l.blinks%2 == 1)
		case l.blinks < 9:
			l.set(false)
		default:
			l.set(false)
			l.blinks = 0
		}
	}
}

func (l *LED) toggleEvery(ms float64) {
	if l.elapsed < ms {
		return
	}
	l.elapsed = 0
	l.set(!l.isOn)
}

func (l *LED) set(on bool) {
	if on {
		l.pin.High()
	} else {
		l.pin.Low()
	}
	l.isOn = on
}

// StatusLED picks the LED pattern from the flight state on every call.
type StatusLED struct {
	*LED
	state func() kernel.State
}

func NewStatusLED(pin Pin, hz float64, state func() kernel.State) *StatusLED {
	return &StatusLED{LED: NewLED(pin, hz), state: state}
}

func (s *StatusLED) Periodic() {
	s.SetState(PatternFor(s.state()))
	s.LED.Periodic()
}

// PatternFor maps the flight state to an LED pattern.
func PatternFor(st kernel.State) int {
	switch {
	case st.Mode == kernel.ModeInit:
		return LED_OFF
	case st.Mode == kernel.ModeFailsafe:
		return LED_FASTFLASH
	case st.Attitude != kernel.AttitudeRunning:
		return LED_SLOWFLASH
	case !st.MotorsOn:
		return LED_ALTERNATE
	case st.Mode == kernel.ModeNav:
		return LED_BLINK3
	}
	return LED_ON
}
