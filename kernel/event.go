package kernel

// Event drains every latched notification, in fixed order. Each drain is
// non-blocking; a source with nothing pending invokes no handler. It does
// nothing until Init has succeeded.
func (k *Kernel) Event() {
	if !k.initialized {
		return
	}
	s := &k.subs

	s.Datalink.Event(&k.state)
	if s.Autopilot.UsesRC() {
		s.Radio.Event(k.onRCFrame)
	}
	s.IMU.Event(k.onGyroAccel, k.onMag)
	s.Baro.Event(k.onBaroAbs, k.onBaroDiff)
	if k.cfg.Features.GPS {
		s.GPS.Event(k.onGPSFix)
	}
	if k.cfg.Features.GroundDetect {
		s.GroundDetect.Event(&k.state)
	}
	for _, m := range s.Modules {
		m.Event()
	}
}

func (k *Kernel) handleRCFrame() {
	k.subs.Autopilot.OnRCFrame(&k.state)
}
