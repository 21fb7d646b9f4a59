package sitl

import "github.com/BryanSouza91/RotorFC/kernel"

// BypassAHRS reports the simulated vehicle's true attitude after each
// propagation, so control can be exercised without filter error.
type BypassAHRS struct {
	sim     *Sim
	att     kernel.Attitude
	aligned bool
}

func NewBypassAHRS(sim *Sim) *BypassAHRS { return &BypassAHRS{sim: sim} }

func (a *BypassAHRS) Init() error {
	a.att = kernel.Attitude{}
	a.aligned = false
	return nil
}

func (a *BypassAHRS) Align() {
	a.aligned = true
	a.att = a.sim.Vehicle().Attitude
}

func (a *BypassAHRS) Propagate(kernel.Vec3) { a.att = a.sim.Vehicle().Attitude }

func (a *BypassAHRS) UpdateAccel(kernel.Vec3) {}
func (a *BypassAHRS) UpdateMag(kernel.Vec3)   {}

func (a *BypassAHRS) Attitude() kernel.Attitude { return a.att }

// BypassINS reports true position and velocity. It counts fusion calls so
// runs can check that nothing reaches it before alignment.
type BypassINS struct {
	sim *Sim
	nav kernel.Nav

	Propagations, BaroUpdates, GPSUpdates uint32
}

func NewBypassINS(sim *Sim) *BypassINS { return &BypassINS{sim: sim} }

func (n *BypassINS) Init() error {
	n.nav = kernel.Nav{}
	return nil
}

func (n *BypassINS) Propagate(kernel.Attitude, kernel.Vec3) {
	n.Propagations++
	v := n.sim.Vehicle()
	n.nav = kernel.Nav{Position: v.Position, Velocity: v.Velocity}
}

func (n *BypassINS) UpdateBaro(float64)   { n.BaroUpdates++ }
func (n *BypassINS) UpdateGPS(kernel.Fix) { n.GPSUpdates++ }

func (n *BypassINS) Nav() kernel.Nav { return n.nav }
