package sitl

import (
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/rc"
)

// Options assemble a simulated vehicle.
type Options struct {
	Features kernel.Features
	Sim      Config
	Link     rc.LinkConfig
	// Decoder parses the receiver stream. Nil selects CRSF.
	Decoder rc.Decoder
	// Tick paces the kernel. Nil selects a WallTick at Sim.TickHz.
	Tick kernel.TickSource
	// Bypass feeds control with true attitude instead of the Kalman filter.
	Bypass       bool
	AlignSamples int
	Autopilot    flight.AutopilotConfig
	BootDelay    time.Duration
	// Datalink and Telemetry default to kernel.Nop equivalents.
	Datalink  kernel.Datalink
	Telemetry kernel.Telemetry
	// ReportEvery logs a status line every so many base ticks. Zero disables it.
	ReportEvery uint64
	Logf        func(format string, args ...any)
	StartupMode kernel.Mode
	// Script, if set, flies the Pilot from simulated time.
	Script *Script
}

// Rig is a kernel wired to the simulation.
type Rig struct {
	Kernel    *kernel.Kernel
	Sim       *Sim
	Queue     *rc.Queue
	Link      *rc.Link
	Pilot     *Pilot
	Autopilot *flight.Autopilot
	Actuators *Actuators
	LED       *flight.StatusLED
	Pin       *Pin
	INS       kernel.NavigationEstimator
	AHRS      kernel.AttitudeReference
}

type noDatalink struct{}

func (noDatalink) Event(*kernel.State) {}

type noTelemetry struct{}

func (noTelemetry) Periodic(kernel.Snapshot) {}

func NewRig(opts Options) (*Rig, error) {
	if opts.Sim.TickHz <= 0 {
		opts.Sim = DefaultConfig()
	}
	if opts.Decoder == nil {
		opts.Decoder = rc.NewCRSFParser()
	}
	if opts.Datalink == nil {
		opts.Datalink = noDatalink{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noTelemetry{}
	}
	if opts.Autopilot.Dt == 0 {
		opts.Autopilot = flight.DefaultAutopilotConfig()
		opts.Autopilot.Dt = 1 / opts.Sim.TickHz
	}

	r := &Rig{Sim: New(opts.Sim), Queue: rc.NewQueue(1024), Pin: &Pin{}}
	r.Link = rc.NewLink(r.Queue, opts.Decoder, opts.Link)
	r.Pilot = NewPilot(r.Queue)
	r.Autopilot = flight.NewAutopilot(opts.Autopilot, r.Link)
	r.Actuators = NewActuators(r.Sim)

	aligner := flight.NewAligner(opts.AlignSamples)
	if opts.Bypass {
		r.AHRS = NewBypassAHRS(r.Sim)
		r.INS = NewBypassINS(r.Sim)
	} else {
		r.AHRS = flight.NewKalmanAHRS(aligner, 1/opts.Sim.IMUHz)
		r.INS = flight.NewINS(1 / opts.Sim.IMUHz)
	}

	clock := NewWallTick(opts.Sim.TickHz)
	tick := opts.Tick
	if tick == nil {
		tick = clock
	}
	// Ticks per prescaler slot visit.
	slotHz := opts.Sim.TickHz / kernel.PrescaleSlots
	r.LED = flight.NewStatusLED(r.Pin, slotHz, r.state)

	var modules []kernel.Module
	if opts.Script != nil {
		modules = append(modules, &scriptModule{script: *opts.Script, pilot: r.Pilot, sim: r.Sim, logf: opts.Logf})
	}
	if opts.ReportEvery > 0 && opts.Logf != nil {
		modules = append(modules, &reporter{rig: r, every: opts.ReportEvery, logf: opts.Logf})
	}

	cfg := kernel.Config{Features: opts.Features, Logf: opts.Logf, StartupMode: opts.StartupMode}
	if w, ok := tick.(*WallTick); ok {
		cfg.Idle = w.Idle
	}
	k, err := kernel.New(cfg, kernel.Subsystems{
		Tick:          tick,
		Platform:      NewPlatform(r.Sim, opts.BootDelay),
		Clock:         clock,
		Actuators:     r.Actuators,
		Radio:         r.Link,
		Analog:        kernel.Nop{},
		Baro:          r.Sim.Baro,
		PWM:           kernel.Nop{},
		Battery:       kernel.Nop{},
		IMU:           r.Sim.IMU,
		FMS:           kernel.Nop{},
		Autopilot:     r.Autopilot,
		Nav:           kernel.Nop{},
		GuidanceH:     kernel.Nop{},
		GuidanceV:     kernel.Nop{},
		Stabilization: kernel.Nop{},
		Aligner:       aligner,
		AHRS:          r.AHRS,
		INS:           r.INS,
		GPS:           r.Sim.GPS,
		Datalink:      opts.Datalink,
		Telemetry:     opts.Telemetry,
		LED:           r.LED,
		GroundDetect:  NewGroundDetector(r.Sim),
		Modules:       modules,
	})
	if err != nil {
		return nil, err
	}
	r.Kernel = k
	return r, nil
}

func (r *Rig) state() kernel.State {
	if r.Kernel == nil {
		return kernel.State{}
	}
	return r.Kernel.State()
}

// reporter is a user module that logs the vehicle's progress.
type reporter struct {
	rig   *Rig
	every uint64
	logf  func(format string, args ...any)
	calls uint64
}

func (m *reporter) Init() error { return nil }

func (m *reporter) Periodic() {
	m.calls++
	if m.calls%m.every != 0 {
		return
	}
	st := m.rig.Kernel.State()
	v := m.rig.Sim.Vehicle()
	m.logf("t=%.1fs mode=%s att=%s link=%s alt=%.2fm motors=%v flight=%v",
		m.rig.Sim.Time(), st.Mode, st.Attitude, m.rig.Link.Status(), v.Altitude(), st.MotorsOn, st.InFlight)
}

func (m *reporter) Event() {}
