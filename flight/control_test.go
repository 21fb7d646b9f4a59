package flight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BryanSouza91/RotorFC/kernel"
	"github.com/BryanSouza91/RotorFC/rc"
)

func TestPID(t *testing.T) {
	p := NewPID(2, 0, 0)
	require.Equal(t, 1.0, p.Update(0.5, 0.01))

	p = NewPID(0, 1, 0)
	p.IntegralLimit = 0.1
	for i := 0; i < 1000; i++ {
		p.Update(1, 0.01)
	}
	require.InDelta(t, 0.1, p.Update(1, 0.01), 1e-9, "integral clamps")
	require.InDelta(t, 0.09, p.Update(-1, 0.01), 1e-9, "and unwinds from the clamp")

	p = NewPID(0, 0, 1)
	require.Zero(t, p.Update(1, 0.01), "no derivative kick on the first sample")
	require.InDelta(t, 100, p.Update(2, 0.01), 1e-9)
	p.Reset()
	require.Zero(t, p.Update(5, 0.01))
}

func TestMixQuadX(t *testing.T) {
	off := MixQuadX(kernel.Commands{Thrust: 1}, false)
	for _, v := range off {
		require.Equal(t, uint32(MIN_PULSE_WIDTH_US), v)
	}

	idle := MixQuadX(kernel.Commands{}, true)
	for _, v := range idle {
		require.Equal(t, uint32(MIN_PULSE_WIDTH_US+MotorIdle*1000), v)
	}

	level := MixQuadX(kernel.Commands{Thrust: 0.5}, true)
	for _, v := range level {
		require.Equal(t, uint32(1500), v)
	}

	roll := MixQuadX(kernel.Commands{Thrust: 0.5, Roll: 0.1}, true)
	require.Greater(t, roll[1], roll[0], "rear left above front right")
	require.Greater(t, roll[2], roll[3], "front left above rear right")

	full := MixQuadX(kernel.Commands{Thrust: 1, Pitch: 1}, true)
	require.Equal(t, uint32(MAX_PULSE_WIDTH_US), full[0])
}

func TestDuty(t *testing.T) {
	// 500 Hz ESC timer, 2ms period, counter top 10000.
	require.Equal(t, uint32(5000), Duty(1000, 10000, 2_000_000))
	require.Equal(t, uint32(10000), Duty(2000, 10000, 2_000_000))
	require.Zero(t, Duty(1500, 10000, 0))
}

type fakeRadio struct{ ch rc.Channels }

func (f *fakeRadio) Channels() rc.Channels { return f.ch }

func neutralRadio() *fakeRadio {
	r := &fakeRadio{}
	for i := range r.ch {
		r.ch[i] = rc.NEUTRAL_RX_VALUE
	}
	r.ch[ThrottleCh] = rc.MIN_RX_VALUE
	r.ch[ArmCh] = rc.MIN_RX_VALUE
	r.ch[ModeCh] = rc.MIN_RX_VALUE
	return r
}

func newTestAutopilot(t *testing.T) (*Autopilot, *fakeRadio, *kernel.State) {
	t.Helper()
	r := neutralRadio()
	cfg := DefaultAutopilotConfig()
	cfg.InFlightTicks = 4
	a := NewAutopilot(cfg, r)
	require.NoError(t, a.Init())
	return a, r, &kernel.State{Mode: kernel.ModeKill}
}

func TestAutopilotArming(t *testing.T) {
	a, r, st := newTestAutopilot(t)
	require.True(t, a.UsesRC())

	r.ch[ArmCh] = rc.MAX_RX_VALUE
	a.OnRCFrame(st)
	require.False(t, st.MotorsOn, "switch must be seen low after boot")

	r.ch[ArmCh] = rc.MIN_RX_VALUE
	a.OnRCFrame(st)
	r.ch[ThrottleCh] = 1500
	r.ch[ArmCh] = rc.MAX_RX_VALUE
	a.OnRCFrame(st)
	require.False(t, st.MotorsOn, "throttle must be low to arm")

	r.ch[ThrottleCh] = rc.MIN_RX_VALUE
	a.OnRCFrame(st)
	require.True(t, st.MotorsOn)
	require.Equal(t, kernel.ModeRcManual, st.Mode)

	r.ch[ArmCh] = rc.MIN_RX_VALUE
	a.OnRCFrame(st)
	require.False(t, st.MotorsOn)
	require.Equal(t, kernel.ModeKill, st.Mode)
}

func armed(t *testing.T, a *Autopilot, r *fakeRadio, st *kernel.State) {
	t.Helper()
	a.OnRCFrame(st)
	r.ch[ArmCh] = rc.MAX_RX_VALUE
	a.OnRCFrame(st)
	require.True(t, st.MotorsOn)
}

func TestAutopilotModeSwitch(t *testing.T) {
	a, r, st := newTestAutopilot(t)
	armed(t, a, r, st)

	for us, want := range map[uint16]kernel.Mode{
		1000: kernel.ModeRcManual,
		1500: kernel.ModeAttitudeDirect,
		2000: kernel.ModeHover,
	} {
		r.ch[ModeCh] = us
		a.OnRCFrame(st)
		require.Equal(t, want, st.Mode, "switch at %d", us)
	}
}

func TestAutopilotRecoversFromFailsafe(t *testing.T) {
	a, r, st := newTestAutopilot(t)
	armed(t, a, r, st)
	st.SetMode(kernel.ModeFailsafe)

	a.OnRCFrame(st)
	require.Equal(t, kernel.ModeRcManual, st.Mode, "a frame means the pilot is back")
	require.True(t, st.MotorsOn)
}

func TestAutopilotExternalKillNeedsSwitchCycle(t *testing.T) {
	a, r, st := newTestAutopilot(t)
	armed(t, a, r, st)

	st.SetMode(kernel.ModeKill)
	st.MotorsOn = false
	a.OnRCFrame(st)
	require.False(t, st.MotorsOn)
	require.Equal(t, kernel.ModeKill, st.Mode)

	r.ch[ArmCh] = rc.MIN_RX_VALUE
	a.OnRCFrame(st)
	r.ch[ArmCh] = rc.MAX_RX_VALUE
	a.OnRCFrame(st)
	require.True(t, st.MotorsOn)
}

func TestAutopilotPeriodic(t *testing.T) {
	a, r, st := newTestAutopilot(t)

	cmd := a.Periodic(st, kernel.Estimate{})
	require.Equal(t, kernel.Commands{}, cmd, "killed")

	armed(t, a, r, st)
	r.ch[ThrottleCh] = 1500
	cmd = a.Periodic(st, kernel.Estimate{})
	require.InDelta(t, 0.5, cmd.Thrust, 0.01)
	require.Zero(t, cmd.Roll)

	r.ch[RollCh] = rc.MAX_RX_VALUE
	cmd = a.Periodic(st, kernel.Estimate{})
	require.Greater(t, cmd.Roll, 0.0)

	st.SetMode(kernel.ModeFailsafe)
	r.ch[ThrottleCh] = rc.MAX_RX_VALUE
	cmd = a.Periodic(st, kernel.Estimate{Attitude: kernel.Attitude{Roll: 0.3}})
	require.Equal(t, DefaultAutopilotConfig().FailsafeThrust, cmd.Thrust)
	require.Less(t, cmd.Roll, 0.0, "failsafe levels out")

	st.SetMode(kernel.ModeKill)
	cmd = a.Periodic(st, kernel.Estimate{})
	require.False(t, st.MotorsOn)
	require.Equal(t, kernel.Commands{}, cmd)
}

func TestAutopilotInFlight(t *testing.T) {
	a, r, st := newTestAutopilot(t)
	armed(t, a, r, st)

	r.ch[ThrottleCh] = 1700
	for i := 0; i < 3; i++ {
		a.Periodic(st, kernel.Estimate{})
	}
	require.False(t, st.InFlight)
	a.Periodic(st, kernel.Estimate{})
	require.True(t, st.InFlight)

	r.ch[ThrottleCh] = rc.MIN_RX_VALUE
	for i := 0; i < 3; i++ {
		a.Periodic(st, kernel.Estimate{})
	}
	require.True(t, st.InFlight)
	a.Periodic(st, kernel.Estimate{})
	require.False(t, st.InFlight)

	r.ch[ThrottleCh] = 1700
	for i := 0; i < 4; i++ {
		a.Periodic(st, kernel.Estimate{})
	}
	require.True(t, st.InFlight)
	st.MotorsOn = false
	a.Periodic(st, kernel.Estimate{})
	require.False(t, st.InFlight, "disarm lands immediately")
}
