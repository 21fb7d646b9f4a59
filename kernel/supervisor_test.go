package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BryanSouza91/RotorFC/rc"
)

func TestLinkLossFailsafe(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		link    rc.Status
		gpsLost bool
		want    Mode
	}{
		{"manual keeps mode with link", ModeRcManual, rc.StatusOk, false, ModeRcManual},
		{"manual lost", ModeRcManual, rc.StatusLost, false, ModeFailsafe},
		{"manual really lost", ModeRcManual, rc.StatusReallyLost, false, ModeFailsafe},
		{"attitude lost", ModeAttitudeDirect, rc.StatusLost, false, ModeFailsafe},
		{"hover lost", ModeHover, rc.StatusLost, false, ModeFailsafe},
		{"failsafe stays", ModeFailsafe, rc.StatusLost, false, ModeFailsafe},
		{"kill is never overridden", ModeKill, rc.StatusLost, true, ModeKill},
		{"nav with position", ModeNav, rc.StatusLost, false, ModeNav},
		{"nav lost position with link", ModeNav, rc.StatusOk, true, ModeNav},
		{"nav lost position and link", ModeNav, rc.StatusLost, true, ModeFailsafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, r := bootedKernel(t, Features{GPS: true})
			k.state.SetMode(tt.mode)
			r.radio.status = tt.link
			r.gps.lost = tt.gpsLost
			k.Periodic()
			require.Equal(t, tt.want, k.State().Mode)
		})
	}
}

func TestLinkCheckRunsOnItsSlot(t *testing.T) {
	k, r := bootedKernel(t, Features{})
	k.Periodic() // slot 0 with a healthy link

	r.radio.status = rc.StatusLost
	k.state.SetMode(ModeRcManual)
	for i := 1; i < PrescaleSlots; i++ {
		k.Periodic()
		require.Equal(t, ModeRcManual, k.State().Mode, "tick %d", i+1)
	}
	k.Periodic()
	require.Equal(t, ModeFailsafe, k.State().Mode)
}

func TestPositionLossRuleEveryTick(t *testing.T) {
	k, r := bootedKernel(t, Features{GPS: true})
	k.Periodic()

	k.state.SetMode(ModeNav)
	r.radio.status = rc.StatusLost
	r.gps.lost = true
	k.Periodic() // slot 1
	require.Equal(t, ModeFailsafe, k.State().Mode)
}

func TestPositionLossNeedsGPSFeature(t *testing.T) {
	k, r := bootedKernel(t, Features{})
	k.state.SetMode(ModeNav)
	r.radio.status = rc.StatusLost
	r.gps.lost = true
	for i := 0; i < PrescaleSlots; i++ {
		k.Periodic()
	}
	require.Equal(t, ModeNav, k.State().Mode)
}

func TestFailsafeFromDatalinkCommand(t *testing.T) {
	k, r := bootedKernel(t, Features{})
	r.datalink.apply = func(st *State) { st.SetMode(ModeRcManual) }
	k.Event()
	require.Equal(t, ModeRcManual, k.State().Mode)

	r.radio.status = rc.StatusLost
	k.Periodic()
	require.Equal(t, ModeFailsafe, k.State().Mode)

	r.datalink.apply = func(st *State) { st.SetMode(ModeKill) }
	k.Event()
	for i := 0; i < PrescaleSlots; i++ {
		k.Periodic()
	}
	require.Equal(t, ModeKill, k.State().Mode)
}
