package kernel

// PrescaleSlots is the number of staggered housekeeping slots.
const PrescaleSlots = 10

// Prescaler runs one of a fixed list of actions per base tick, round robin.
// Over any K consecutive ticks each of the K actions runs exactly once.
// A nil action is a reserved slot and does nothing.
type Prescaler struct {
	actions []func()
	slot    int
}

func NewPrescaler(actions ...func()) *Prescaler {
	return &Prescaler{actions: actions}
}

// Tick runs the action at the current slot, then advances the slot.
func (p *Prescaler) Tick() {
	if len(p.actions) == 0 {
		return
	}
	if a := p.actions[p.slot]; a != nil {
		a()
	}
	p.slot = (p.slot + 1) % len(p.actions)
}

// Slot is the index of the action the next Tick will run.
func (p *Prescaler) Slot() int { return p.slot }

func (p *Prescaler) Len() int { return len(p.actions) }

// Divider is a free-running modulo counter.
type Divider struct {
	every   uint32
	counter uint32
}

func NewDivider(every uint32) *Divider {
	if every == 0 {
		every = 1
	}
	return &Divider{every: every}
}

// Ready counts one call and reports true on every n-th call.
func (d *Divider) Ready() bool {
	d.counter++
	if d.counter >= d.every {
		d.counter = 0
		return true
	}
	return false
}
