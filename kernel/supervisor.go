package kernel

import "github.com/BryanSouza91/RotorFC/rc"

// checkRadio is the link-status prescaler slot. It services the radio link
// then forces failsafe on link loss unless the pilot killed the vehicle or
// it is flying a mission.
func (k *Kernel) checkRadio() {
	k.subs.Radio.Periodic()
	if k.subs.Radio.Status() != rc.StatusOk &&
		k.state.Mode != ModeKill &&
		k.state.Mode != ModeNav {
		k.state.SetMode(ModeFailsafe)
	}
}

// checkPositionLoss forces failsafe when a mission has lost both the link
// and its position reference.
func (k *Kernel) checkPositionLoss() {
	if k.subs.Radio.Status() != rc.StatusOk &&
		k.state.Mode == ModeNav &&
		k.subs.GPS.Lost() {
		k.state.SetMode(ModeFailsafe)
	}
}
