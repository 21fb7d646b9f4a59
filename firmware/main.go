//go:build tinygo

package main

import (
	"context"
	"fmt"
	"machine"
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/rc"
)

const Version = "0.2.0"

func logf(format string, args ...any) {
	println(fmt.Sprintf(format, args...))
}

// halt reports a fatal error until the watchdog or a power cycle resets
// the board.
func halt(err error) {
	for {
		println("RotorFC halted:", err.Error())
		time.Sleep(time.Second)
	}
}

// noBaro stands in for a board without a barometer.
type noBaro struct{}

func (noBaro) Init() error       { return nil }
func (noBaro) Periodic()         {}
func (noBaro) Event(_, _ func()) {}
func (noBaro) Pressure() float64 { return 0 }

// noDatalink stands in for a board without an uplink radio.
type noDatalink struct{}

func (noDatalink) Event(*kernel.State) {}

// consoleTelemetry prints a snapshot about once a second.
type consoleTelemetry struct {
	div *kernel.Divider
}

func (c consoleTelemetry) Periodic(s kernel.Snapshot) {
	if !c.div.Ready() {
		return
	}
	att := s.Estimate.Attitude
	println(fmt.Sprintf("mode=%s att=%s link=%s motors=%v roll=%.2f pitch=%.2f heading=%.2f",
		s.Mode, s.Attitude, s.Link, s.MotorsOn, att.Roll, att.Pitch, att.Heading))
}

func newDecoder() rc.Decoder {
	if activeProtocol == PROTOCOL_IBUS {
		return rc.NewIBusParser()
	}
	return rc.NewCRSFParser()
}

// Main program loop
func main() {
	// Print startup message
	println("RotorFC - Version", Version)
	println("A TinyGo Flight Controller for Quadrotors")

	sensors := &imu{}
	link := rc.NewLink(machine.DefaultUART, newDecoder(), rc.LinkConfig{})

	ap := flight.DefaultAutopilotConfig()
	ap.Dt = 1.0 / TICK_HZ
	autopilot := flight.NewAutopilot(ap, link)

	aligner := flight.NewAligner(flight.DefaultAlignSamples)
	ahrs := flight.NewKalmanAHRS(aligner, 1.0/TICK_HZ)

	var k *kernel.Kernel
	led := flight.NewStatusLED(LED_PIN, float64(TICK_HZ)/kernel.PrescaleSlots, func() kernel.State {
		if k == nil {
			return kernel.State{}
		}
		return k.State()
	})

	k, err := kernel.New(kernel.Config{
		Features: kernel.BuildFeatures(),
		Logf:     logf,
		Idle:     watchdog.Update,
	}, kernel.Subsystems{
		Tick:          &boardTick{},
		Platform:      &board{imu: sensors},
		Clock:         kernel.Nop{},
		Actuators:     &escs{},
		Radio:         link,
		Analog:        kernel.Nop{},
		Baro:          noBaro{},
		PWM:           kernel.Nop{},
		Battery:       kernel.Nop{},
		IMU:           sensors,
		FMS:           kernel.Nop{},
		Autopilot:     autopilot,
		Nav:           kernel.Nop{},
		GuidanceH:     kernel.Nop{},
		GuidanceV:     kernel.Nop{},
		Stabilization: kernel.Nop{},
		Aligner:       aligner,
		AHRS:          ahrs,
		INS:           flight.NewINS(1.0 / TICK_HZ),
		Datalink:      noDatalink{},
		Telemetry:     consoleTelemetry{div: kernel.NewDivider(TELEMETRY_DIVIDER)},
		LED:           led,
	})
	if err != nil {
		halt(err)
	}
	if err := k.Init(); err != nil {
		halt(err)
	}
	println("Initialization complete. Keep still while the gyro aligns.")

	startWatchdog()
	k.Run(context.Background())
}
