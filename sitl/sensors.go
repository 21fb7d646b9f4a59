package sitl

import (
	"math"

	"github.com/BryanSouza91/RotorFC/flight"
	"github.com/BryanSouza91/RotorFC/kernel"
)

// IMU latches raw samples in the driver's native units, micro-dps and
// micro-g, until the event path drains and scales them.
type IMU struct {
	rawGyro, rawAccel [3]int32
	rawMag            kernel.Vec3

	gyroAccelReady, magReady bool

	gyro, accel, mag kernel.Vec3
	periodic         uint32
	dropped          uint32
}

func (i *IMU) Init() error { return nil }

// Periodic counts service calls. Samples arrive through Event.
func (i *IMU) Periodic() { i.periodic++ }

func (i *IMU) latchGyroAccel(rates, force kernel.Vec3) {
	if i.gyroAccelReady {
		i.dropped++
	}
	toMicroDPS := func(v float64) int32 { return int32(math.Round(v / flight.MicroDPSToRadS)) }
	toMicroG := func(v float64) int32 { return int32(math.Round(v / flight.MicroGToMS2)) }
	i.rawGyro = [3]int32{toMicroDPS(rates.X), toMicroDPS(rates.Y), toMicroDPS(rates.Z)}
	i.rawAccel = [3]int32{toMicroG(force.X), toMicroG(force.Y), toMicroG(force.Z)}
	i.gyroAccelReady = true
}

func (i *IMU) latchMag(m kernel.Vec3) {
	i.rawMag = m
	i.magReady = true
}

func (i *IMU) Event(onGyroAccel, onMag func()) {
	if i.gyroAccelReady {
		i.gyroAccelReady = false
		onGyroAccel()
	}
	if i.magReady {
		i.magReady = false
		onMag()
	}
}

func (i *IMU) ScaleGyro() {
	i.gyro = kernel.Vec3{
		X: float64(i.rawGyro[0]) * flight.MicroDPSToRadS,
		Y: float64(i.rawGyro[1]) * flight.MicroDPSToRadS,
		Z: float64(i.rawGyro[2]) * flight.MicroDPSToRadS,
	}
}

func (i *IMU) ScaleAccel() {
	i.accel = kernel.Vec3{
		X: float64(i.rawAccel[0]) * flight.MicroGToMS2,
		Y: float64(i.rawAccel[1]) * flight.MicroGToMS2,
		Z: float64(i.rawAccel[2]) * flight.MicroGToMS2,
	}
}

func (i *IMU) ScaleMag() { i.mag = i.rawMag }

func (i *IMU) Gyro() kernel.Vec3  { return i.gyro }
func (i *IMU) Accel() kernel.Vec3 { return i.accel }
func (i *IMU) Mag() kernel.Vec3   { return i.mag }

// Dropped counts gyro/accel samples overwritten before they were drained.
func (i *IMU) Dropped() uint32 { return i.dropped }

// Baro converts on request: Periodic starts a conversion and the next
// simulation step latches the result.
type Baro struct {
	requested bool
	ready     bool
	pressure  float64
}

func (b *Baro) Init() error { return nil }

func (b *Baro) Periodic() { b.requested = true }

func (b *Baro) latch(p float64) {
	if !b.requested {
		return
	}
	b.requested = false
	b.pressure = p
	b.ready = true
}

// Event reports absolute pressure. The simulated airframe has no pitot, so
// onDifferential is never called.
func (b *Baro) Event(onAbsolute, onDifferential func()) {
	if b.ready {
		b.ready = false
		onAbsolute()
	}
}

func (b *Baro) Pressure() float64 { return b.pressure }

// GPS latches fixes at the receiver rate. It reports lost once no fix has
// arrived for lostAfter seconds; Periodic re-evaluates that.
type GPS struct {
	sim       *Sim
	lostAfter float64

	outage  bool
	ready   bool
	fix     kernel.Fix
	lastFix float64
	haveFix bool
	lost    bool
}

func (g *GPS) Init() error {
	g.lost = true
	return nil
}

func (g *GPS) latch(pos, vel kernel.Vec3) {
	if g.outage {
		return
	}
	g.fix = kernel.Fix{Position: pos, Velocity: vel, NumSV: 10, Valid: true}
	g.ready = true
	g.haveFix = true
	g.lastFix = g.sim.Time()
}

func (g *GPS) Periodic() {
	g.lost = !g.haveFix || g.sim.Time()-g.lastFix > g.lostAfter
}

func (g *GPS) Event(onFix func()) {
	if g.ready {
		g.ready = false
		onFix()
	}
}

func (g *GPS) Lost() bool      { return g.lost }
func (g *GPS) Fix() kernel.Fix { return g.fix }

// SetOutage stops or resumes fixes, as when the antenna is shadowed.
func (g *GPS) SetOutage(on bool) { g.outage = on }
