package sitl

import "time"

// WallTick is a base-period tick source paced by the host clock. It also
// serves as the kernel's timekeeping subsystem.
type WallTick struct {
	period time.Duration
	next   time.Time
	now    func() time.Time
	sleep  func(time.Duration)

	ticks, skipped uint64
}

func NewWallTick(hz float64) *WallTick {
	if hz <= 0 {
		hz = 512
	}
	return &WallTick{
		period: time.Duration(float64(time.Second) / hz),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

func (w *WallTick) Init() error {
	w.next = w.now().Add(w.period)
	return nil
}

// TickReached reports at most one boundary per call. When the host falls
// more than a period behind, missed boundaries are dropped rather than
// replayed back to back.
func (w *WallTick) TickReached() bool {
	now := w.now()
	if now.Before(w.next) {
		return false
	}
	w.next = w.next.Add(w.period)
	if behind := now.Sub(w.next); behind > w.period {
		w.skipped += uint64(behind / w.period)
		w.next = now.Add(w.period)
	}
	w.ticks++
	return true
}

// Idle sleeps until the next boundary. Pass it as kernel.Config.Idle.
func (w *WallTick) Idle() {
	if d := w.next.Sub(w.now()); d > 0 {
		w.sleep(d)
	}
}

func (w *WallTick) Skipped() uint64 { return w.skipped }

// LockStep reports a boundary on every call, running the simulation as
// fast as the host allows.
type LockStep struct{}

func (LockStep) Init() error       { return nil }
func (LockStep) TickReached() bool { return true }
