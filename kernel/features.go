package kernel

// Features are the compile-time options of a firmware build. Each field is
// set by the build tag of the same name (see features_*.go) and is copied
// into Config.Features, so the kernel branches on one field per option.
type Features struct {
	// GPS compiles in the positioning subsystem: its init, its periodic
	// service, fix-ready events and the position-loss failsafe rule.
	GPS bool
	// Cam and Drop init the PWM outputs used for camera and payload drop.
	Cam  bool
	Drop bool
	// ExtraADC runs the analog subsystem's periodic service every tick.
	ExtraADC bool
	// GroundDetect evaluates the ground-contact failsafe on the event path.
	GroundDetect bool
	// RadioLink is set when radio control travels over the datalink. The
	// boot delay for receiver binding is skipped.
	RadioLink bool
}

var buildFeatures Features

// BuildFeatures returns the features selected by build tags.
func BuildFeatures() Features { return buildFeatures }
