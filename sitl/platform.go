package sitl

import (
	"time"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
)

// Platform is the simulated board.
type Platform struct {
	sim       *Sim
	bootDelay time.Duration
	sleep     func(time.Duration)
}

func NewPlatform(sim *Sim, bootDelay time.Duration) *Platform {
	return &Platform{sim: sim, bootDelay: bootDelay, sleep: time.Sleep}
}

func (p *Platform) Init() error { return nil }

func (p *Platform) BootDelay() {
	if p.bootDelay > 0 {
		p.sleep(p.bootDelay)
	}
}

func (p *Platform) EnableEvents() { p.sim.EnableEvents() }

// Actuators mix commands onto four simulated ESCs and step the simulation
// one base period.
type Actuators struct {
	sim  *Sim
	last flight.Pulses
}

func NewActuators(sim *Sim) *Actuators { return &Actuators{sim: sim} }

func (a *Actuators) Init() error {
	a.last = flight.MixQuadX(kernel.Commands{}, false)
	return nil
}

func (a *Actuators) Set(cmd kernel.Commands, motorsOn bool) {
	a.last = flight.MixQuadX(cmd, motorsOn)
	a.sim.Advance(a.sim.Dt(), a.last)
}

// Pulses returns the last ESC outputs.
func (a *Actuators) Pulses() flight.Pulses { return a.last }

// GroundDetector kills the motors once a failsafe descent touches down.
type GroundDetector struct {
	sim *Sim
}

func NewGroundDetector(sim *Sim) *GroundDetector { return &GroundDetector{sim: sim} }

func (g *GroundDetector) Event(st *kernel.State) {
	if st.Mode != kernel.ModeFailsafe || !st.MotorsOn {
		return
	}
	if g.sim.Vehicle().OnGround() {
		st.MotorsOn = false
		st.InFlight = false
		st.SetMode(kernel.ModeKill)
	}
}

// Pin is a simulated LED output.
type Pin struct {
	On      bool
	Toggles uint32
}

func (p *Pin) High() {
	if !p.On {
		p.Toggles++
	}
	p.On = true
}

func (p *Pin) Low() {
	if p.On {
		p.Toggles++
	}
	p.On = false
}
