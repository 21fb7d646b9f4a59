package kernel

import "context"

// Config holds the kernel's build and runtime options.
type Config struct {
	Features Features
	// Logf receives kernel log lines. Nil discards them.
	Logf func(format string, args ...any)
	// Idle, if set, is called by Run after every step. Hosts use it to
	// yield instead of spinning; firmware leaves it nil or kicks the watchdog.
	Idle func()
	// StartupMode is entered once Init completes. The zero value selects ModeKill.
	StartupMode Mode
}

// Kernel is the cooperative scheduler. All methods must be called from one
// goroutine; collaborators only latch asynchronous data for the event path.
type Kernel struct {
	cfg  Config
	subs Subsystems

	state       State
	prescaler   *Prescaler
	flightTimer *Divider
	initialized bool

	// Event handlers, bound once in New.
	onRCFrame   func()
	onGyroAccel func()
	onMag       func()
	onBaroAbs   func()
	onBaroDiff  func()
	onGPSFix    func()
}

// New validates subs against cfg.Features and returns a kernel ready for Init.
func New(cfg Config, subs Subsystems) (*Kernel, error) {
	if err := subs.validate(cfg.Features); err != nil {
		return nil, err
	}
	if cfg.StartupMode == ModeInit {
		cfg.StartupMode = ModeKill
	}
	k := &Kernel{
		cfg:         cfg,
		subs:        subs,
		flightTimer: NewDivider(FlightTimerDivider),
	}
	k.state.logf = cfg.Logf
	k.state.Mode = ModeInit
	k.prescaler = NewPrescaler(
		k.checkRadio,
		subs.FMS.Periodic,
		nil,
		subs.LED.Periodic,
		subs.Baro.Periodic,
		nil,
		nil,
		nil,
		nil,
		k.sendTelemetry,
	)
	k.onRCFrame = k.handleRCFrame
	k.onGyroAccel = k.handleGyroAccel
	k.onMag = k.handleMag
	k.onBaroAbs = k.handleBaroAbsolute
	k.onBaroDiff = k.handleBaroDifferential
	k.onGPSFix = k.handleGPSFix
	return k, nil
}

// Step is one outer-loop iteration. The periodic path runs to completion
// before the event path. Before Init has succeeded it does not consult the
// tick source and runs no handler.
func (k *Kernel) Step() {
	if !k.initialized {
		return
	}
	if k.subs.Tick.TickReached() {
		k.Periodic()
	}
	k.Event()
}

// Run steps the kernel until ctx is done. Cancellation models platform
// shutdown and returns nil.
func (k *Kernel) Run(ctx context.Context) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	for {
		select {
		case <-ctx.Done():
			k.logf("shutdown")
			return nil
		default:
		}
		k.Step()
		if k.cfg.Idle != nil {
			k.cfg.Idle()
		}
	}
}

// State returns a copy of the flight state.
func (k *Kernel) State() State {
	s := k.state
	s.logf = nil
	return s
}

// Mutate applies fn to the live flight state. It must be called from the
// goroutine that steps the kernel.
func (k *Kernel) Mutate(fn func(st *State)) { fn(&k.state) }

// Snapshot returns the telemetry view of the current state and estimate.
func (k *Kernel) Snapshot() Snapshot {
	return Snapshot{
		Session:      k.state.Session,
		Ticks:        k.state.Ticks,
		Mode:         k.state.Mode,
		Attitude:     k.state.Attitude,
		Link:         k.subs.Radio.Status(),
		MotorsOn:     k.state.MotorsOn,
		InFlight:     k.state.InFlight,
		FlightTime:   k.state.FlightTime,
		DatalinkTime: k.state.DatalinkTime,
		Estimate:     k.estimate(),
	}
}

func (k *Kernel) estimate() Estimate {
	return Estimate{Attitude: k.subs.AHRS.Attitude(), Nav: k.subs.INS.Nav()}
}

func (k *Kernel) logf(format string, args ...any) {
	if k.cfg.Logf != nil {
		k.cfg.Logf(format, args...)
	}
}
