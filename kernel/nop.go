package kernel

// Nop is a collaborator with nothing to do. It stands in for subsystems a
// target does not have, such as guidance on a manual-only frame.
type Nop struct{}

func (Nop) Init() error   { return nil }
func (Nop) Periodic()     {}
func (Nop) Event()        {}
func (Nop) BootDelay()    {}
func (Nop) EnableEvents() {}
