package kernel

import (
	"errors"

	"github.com/BryanSouza91/RotorFC/rc"
)

// recorder is the shared call log every fake writes to.
type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

func (r *recorder) reset() { r.calls = nil }

func (r *recorder) count(s string) int {
	n := 0
	for _, c := range r.calls {
		if c == s {
			n++
		}
	}
	return n
}

func (r *recorder) index(s string) int {
	for i, c := range r.calls {
		if c == s {
			return i
		}
	}
	return -1
}

type fakeInit struct {
	name string
	rec  *recorder
	err  error
}

func (f *fakeInit) Init() error {
	f.rec.add(f.name + ".init")
	return f.err
}

type fakePeriodic struct {
	fakeInit
}

func (f *fakePeriodic) Periodic() { f.rec.add(f.name + ".periodic") }

type fakeTick struct{ ready bool }

func (f *fakeTick) TickReached() bool {
	r := f.ready
	f.ready = false
	return r
}

type fakePlatform struct{ fakeInit }

func (f *fakePlatform) BootDelay()    { f.rec.add("boot_delay") }
func (f *fakePlatform) EnableEvents() { f.rec.add("enable_events") }

type fakeActuators struct {
	fakeInit
	last     Commands
	motorsOn bool
}

func (f *fakeActuators) Set(cmd Commands, motorsOn bool) {
	f.rec.add("actuators.set")
	f.last, f.motorsOn = cmd, motorsOn
}

type fakeRadio struct {
	fakePeriodic
	status  rc.Status
	pending int
}

func (f *fakeRadio) Status() rc.Status { return f.status }

func (f *fakeRadio) Event(onFrame func()) {
	f.rec.add("radio.event")
	for ; f.pending > 0; f.pending-- {
		onFrame()
	}
}

type fakeBaro struct {
	fakePeriodic
	abs, diff bool
	pressure  float64
}

func (f *fakeBaro) Pressure() float64 { return f.pressure }

func (f *fakeBaro) Event(onAbsolute, onDifferential func()) {
	f.rec.add("baro.event")
	if f.abs {
		f.abs = false
		onAbsolute()
	}
	if f.diff {
		f.diff = false
		onDifferential()
	}
}

type fakeIMU struct {
	fakePeriodic
	gyroAccel, mag uint8
}

func (f *fakeIMU) Event(onGyroAccel, onMag func()) {
	f.rec.add("imu.event")
	for ; f.gyroAccel > 0; f.gyroAccel-- {
		onGyroAccel()
	}
	for ; f.mag > 0; f.mag-- {
		onMag()
	}
}

func (f *fakeIMU) ScaleGyro()  { f.rec.add("imu.scale_gyro") }
func (f *fakeIMU) ScaleAccel() { f.rec.add("imu.scale_accel") }
func (f *fakeIMU) ScaleMag()   { f.rec.add("imu.scale_mag") }
func (f *fakeIMU) Gyro() Vec3  { return Vec3{X: 0.1} }
func (f *fakeIMU) Accel() Vec3 { return Vec3{Z: -9.81} }
func (f *fakeIMU) Mag() Vec3   { return Vec3{X: 1} }

type fakeAutopilot struct {
	fakeInit
	usesRC bool
	cmd    Commands
	frames int
	// onPeriodic lets a test change state from inside the control step.
	onPeriodic func(st *State)
}

func (f *fakeAutopilot) Periodic(st *State, _ Estimate) Commands {
	f.rec.add("autopilot.periodic")
	if f.onPeriodic != nil {
		f.onPeriodic(st)
	}
	return f.cmd
}

func (f *fakeAutopilot) UsesRC() bool { return f.usesRC }

func (f *fakeAutopilot) OnRCFrame(*State) {
	f.rec.add("autopilot.rc_frame")
	f.frames++
}

type fakeAligner struct {
	fakeInit
	status AlignerStatus
	runs   int
}

func (f *fakeAligner) Run(_, _, _ Vec3) {
	f.rec.add("aligner.run")
	f.runs++
}

func (f *fakeAligner) Status() AlignerStatus { return f.status }

type fakeAHRS struct{ fakeInit }

func (f *fakeAHRS) Align()             { f.rec.add("ahrs.align") }
func (f *fakeAHRS) Propagate(Vec3)     { f.rec.add("ahrs.propagate") }
func (f *fakeAHRS) UpdateAccel(Vec3)   { f.rec.add("ahrs.update_accel") }
func (f *fakeAHRS) UpdateMag(Vec3)     { f.rec.add("ahrs.update_mag") }
func (f *fakeAHRS) Attitude() Attitude { return Attitude{Roll: 0.2} }

type fakeINS struct{ fakeInit }

func (f *fakeINS) Propagate(Attitude, Vec3) { f.rec.add("ins.propagate") }
func (f *fakeINS) UpdateBaro(float64)       { f.rec.add("ins.update_baro") }
func (f *fakeINS) UpdateGPS(Fix)            { f.rec.add("ins.update_gps") }
func (f *fakeINS) Nav() Nav                 { return Nav{} }

type fakeGPS struct {
	fakePeriodic
	lost    bool
	pending bool
}

func (f *fakeGPS) Lost() bool { return f.lost }
func (f *fakeGPS) Fix() Fix   { return Fix{Valid: true, NumSV: 8} }

func (f *fakeGPS) Event(onFix func()) {
	f.rec.add("gps.event")
	if f.pending {
		f.pending = false
		onFix()
	}
}

type fakeDatalink struct {
	rec *recorder
	// apply runs against the live state when set.
	apply func(st *State)
}

func (f *fakeDatalink) Event(st *State) {
	f.rec.add("datalink.event")
	if f.apply != nil {
		f.apply(st)
		f.apply = nil
	}
}

type fakeTelemetry struct {
	rec  *recorder
	sent []Snapshot
}

func (f *fakeTelemetry) Periodic(s Snapshot) {
	f.rec.add("telemetry.periodic")
	f.sent = append(f.sent, s)
}

type fakeGroundDetect struct{ rec *recorder }

func (f *fakeGroundDetect) Event(*State) { f.rec.add("ground_detect.event") }

type fakeModule struct{ fakePeriodic }

func (f *fakeModule) Event() { f.rec.add(f.name + ".event") }

// rig wires a full set of fakes to one recorder.
type rig struct {
	rec       *recorder
	tick      *fakeTick
	platform  *fakePlatform
	actuators *fakeActuators
	radio     *fakeRadio
	analog    *fakePeriodic
	baro      *fakeBaro
	pwm       *fakeInit
	imu       *fakeIMU
	fms       *fakePeriodic
	autopilot *fakeAutopilot
	aligner   *fakeAligner
	ahrs      *fakeAHRS
	ins       *fakeINS
	gps       *fakeGPS
	datalink  *fakeDatalink
	telemetry *fakeTelemetry
	led       *fakePeriodic
	ground    *fakeGroundDetect
	module    *fakeModule
}

func newRig() *rig {
	rec := &recorder{}
	in := func(name string) fakeInit { return fakeInit{name: name, rec: rec} }
	per := func(name string) fakePeriodic { return fakePeriodic{in(name)} }
	return &rig{
		rec:       rec,
		tick:      &fakeTick{},
		platform:  &fakePlatform{in("hw")},
		actuators: &fakeActuators{fakeInit: in("actuators")},
		radio:     &fakeRadio{fakePeriodic: per("radio")},
		analog:    ptr(per("analog")),
		baro:      &fakeBaro{fakePeriodic: per("baro"), pressure: 101325},
		pwm:       ptr(in("pwm")),
		imu:       &fakeIMU{fakePeriodic: per("imu")},
		fms:       ptr(per("fms")),
		autopilot: &fakeAutopilot{fakeInit: in("autopilot"), usesRC: true},
		aligner:   &fakeAligner{fakeInit: in("ahrs_aligner")},
		ahrs:      &fakeAHRS{in("ahrs")},
		ins:       &fakeINS{in("ins")},
		gps:       &fakeGPS{fakePeriodic: per("gps")},
		datalink:  &fakeDatalink{rec: rec},
		telemetry: &fakeTelemetry{rec: rec},
		led:       ptr(per("led")),
		ground:    &fakeGroundDetect{rec: rec},
		module:    &fakeModule{per("module")},
	}
}

func ptr[T any](v T) *T { return &v }

func (r *rig) subsystems() Subsystems {
	in := func(name string) *fakeInit { return &fakeInit{name: name, rec: r.rec} }
	return Subsystems{
		Tick:          r.tick,
		Platform:      r.platform,
		Clock:         in("sys_time"),
		Actuators:     r.actuators,
		Radio:         r.radio,
		Analog:        r.analog,
		Baro:          r.baro,
		PWM:           r.pwm,
		Battery:       in("battery"),
		IMU:           r.imu,
		FMS:           r.fms,
		Autopilot:     r.autopilot,
		Nav:           in("nav"),
		GuidanceH:     in("guidance_h"),
		GuidanceV:     in("guidance_v"),
		Stabilization: in("stabilization"),
		Aligner:       r.aligner,
		AHRS:          r.ahrs,
		INS:           r.ins,
		GPS:           r.gps,
		Datalink:      r.datalink,
		Telemetry:     r.telemetry,
		LED:           r.led,
		GroundDetect:  r.ground,
		Modules:       []Module{r.module},
	}
}

var errBoom = errors.New("boom")
