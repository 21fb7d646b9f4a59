//go:build tinygo

package main

import (
	"errors"
	"fmt"
	"machine"
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
)

// board is the hw boot step and the platform hooks.
type board struct {
	imu *imu
}

func (b *board) Init() error {
	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{
		BaudRate: RX_BAUD_RATE,
		TX:       machine.NoPin,
		RX:       machine.UART_RX_PIN, // CRSF/ELRS/iBus in
	})
	println("UART configured for receiver input.")

	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return fmt.Errorf("i2c: %w", err)
	}
	LED_PIN.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

// BootDelay gives the receiver time to bind and the ESCs time to arm.
func (b *board) BootDelay() { time.Sleep(BOOT_DELAY) }

func (b *board) EnableEvents() { b.imu.enabled = true }

// boardTick paces the periodic dispatcher from the system timer.
type boardTick struct {
	period time.Duration
	next   time.Time
}

func (t *boardTick) Init() error {
	t.period = time.Second / TICK_HZ
	t.next = time.Now().Add(t.period)
	return nil
}

func (t *boardTick) TickReached() bool {
	now := time.Now()
	if now.Before(t.next) {
		return false
	}
	t.next = t.next.Add(t.period)
	if now.Sub(t.next) > t.period {
		t.next = now.Add(t.period)
	}
	return true
}

// pwm is a timer peripheral. machine.PWM0 and friends satisfy it on every
// target the firmware supports.
type pwm interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

type escOutput struct {
	pwm pwm
	ch  uint8
}

// escs drive four ESCs from the quad X mixer.
type escs struct {
	out      [flight.NumMotors]escOutput
	periodNs uint64
}

var errNoPWM = errors.New("escs: could not get PWM channel")

func (e *escs) Init() error {
	e.periodNs = machine.GHz * 1 / ESC_PWM_FREQUENCY
	cfg := machine.PWMConfig{Period: e.periodNs}
	if err := pwm0.Configure(cfg); err != nil {
		return fmt.Errorf("could not configure PWM: %w", err)
	}
	if err := pwm1.Configure(cfg); err != nil {
		return fmt.Errorf("could not configure PWM for motors 2 and 3: %w", err)
	}
	groups := [flight.NumMotors]pwm{pwm0, pwm0, pwm1, pwm1}
	for i, pin := range ESC_PINS {
		ch, err := groups[i].Channel(pin)
		if err != nil {
			return fmt.Errorf("%w: motor %d: %v", errNoPWM, i, err)
		}
		e.out[i] = escOutput{pwm: groups[i], ch: ch}
	}
	e.write(flight.MixQuadX(kernel.Commands{}, false))
	println("PWM configured for ESCs.")
	return nil
}

func (e *escs) Set(cmd kernel.Commands, motorsOn bool) {
	e.write(flight.MixQuadX(cmd, motorsOn))
}

func (e *escs) write(p flight.Pulses) {
	for i, o := range e.out {
		o.pwm.Set(o.ch, flight.Duty(p[i], o.pwm.Top(), e.periodNs))
	}
}

func startWatchdog() {
	watchdog.Configure(machine.WatchdogConfig{
		TimeoutMillis: WATCHDOG_TIMEOUT_MS,
	})
	watchdog.Start()
}
