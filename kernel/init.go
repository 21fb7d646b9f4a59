package kernel

import (
	"fmt"

	"github.com/google/uuid"
)

type bootStep struct {
	name string
	init Initializer
}

// Init runs the one-time boot sequence. The order is fixed: later steps
// depend on earlier ones and event delivery is enabled last, once every
// handler's state is valid. The first failing step aborts boot with a
// *BootError; nothing is retried.
func (k *Kernel) Init() error {
	if k.initialized {
		return ErrAlreadyInitialized
	}
	if !k.cfg.Features.RadioLink {
		k.logf("init: boot_delay")
		k.subs.Platform.BootDelay()
	}
	for _, st := range k.bootSteps() {
		k.logf("init: %s", st.name)
		if err := st.init.Init(); err != nil {
			k.logf("init: %s failed: %v", st.name, err)
			return &BootError{Step: st.name, Err: err}
		}
	}
	k.logf("init: events")
	k.subs.Platform.EnableEvents()

	k.initialized = true
	k.state.Session = uuid.New()
	k.state.SetMode(k.cfg.StartupMode)
	k.logf("init: done, session %s", k.state.Session)
	return nil
}

func (k *Kernel) bootSteps() []bootStep {
	s := &k.subs
	f := k.cfg.Features

	steps := []bootStep{
		{"hw", s.Platform},
		{"sys_time", s.Clock},
		{"actuators", s.Actuators},
		{"radio_control", s.Radio},
		{"analog", s.Analog},
		{"baro", s.Baro},
	}
	if f.Cam || f.Drop {
		steps = append(steps, bootStep{"pwm", s.PWM})
	}
	steps = append(steps,
		bootStep{"battery", s.Battery},
		bootStep{"imu", s.IMU},
		bootStep{"fms", s.FMS},
		bootStep{"autopilot", s.Autopilot},
		bootStep{"nav", s.Nav},
		bootStep{"guidance_h", s.GuidanceH},
		bootStep{"guidance_v", s.GuidanceV},
		bootStep{"stabilization", s.Stabilization},
		bootStep{"ahrs_aligner", s.Aligner},
		bootStep{"ahrs", s.AHRS},
		bootStep{"ins", s.INS},
	)
	if f.GPS {
		steps = append(steps, bootStep{"gps", s.GPS})
	}
	for i, m := range s.Modules {
		steps = append(steps, bootStep{fmt.Sprintf("module[%d]", i), m})
	}
	return steps
}
