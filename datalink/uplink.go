package datalink

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/BryanSouza91/RotorFC/kernel"
)

var (
	// ErrUnknownCommand is reported for an uplink message with an unrecognized type.
	ErrUnknownCommand = errors.New("datalink: unknown command")
	// ErrBadMode is reported for a set_mode command naming a mode that cannot be commanded.
	ErrBadMode = errors.New("datalink: mode cannot be commanded")
)

// Command types accepted on the uplink.
const (
	CmdSetMode = "set_mode"
	CmdKill    = "kill"
	CmdPing    = "ping"
	CmdSession = "session"
)

// Command is one uplink message.
type Command struct {
	Type string `json:"type"`
	Mode string `json:"mode,omitempty"`
	Seq  uint32 `json:"seq,omitempty"`
}

const DefaultUplinkQueue = 32

// Uplink latches ground-station messages from transport goroutines and
// applies them on the kernel's event path. Push never blocks: when the
// latch is full the message is dropped.
type Uplink struct {
	pending chan []byte
	logf    func(format string, args ...any)

	received atomic.Uint32
	dropped  atomic.Uint32
	rejected uint32
	lastSeq  uint32
}

func NewUplink(queue int, logf func(format string, args ...any)) *Uplink {
	if queue <= 0 {
		queue = DefaultUplinkQueue
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Uplink{pending: make(chan []byte, queue), logf: logf}
}

// Push latches a raw message. Safe for concurrent use.
func (u *Uplink) Push(payload []byte) {
	select {
	case u.pending <- payload:
		u.received.Add(1)
	default:
		u.dropped.Add(1)
	}
}

// Event drains every latched message into st.
func (u *Uplink) Event(st *kernel.State) {
	for {
		select {
		case payload := <-u.pending:
			if err := u.apply(st, payload); err != nil {
				u.rejected++
				u.logf("uplink: rejected: %v", err)
			}
		default:
			return
		}
	}
}

func (u *Uplink) apply(st *kernel.State, payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	switch cmd.Type {
	case CmdSetMode:
		m, err := kernel.ParseMode(cmd.Mode)
		if err != nil {
			return err
		}
		if m == kernel.ModeInit {
			return fmt.Errorf("%w: %s", ErrBadMode, m)
		}
		st.SetMode(m)
	case CmdKill:
		st.SetMode(kernel.ModeKill)
		st.MotorsOn = false
	case CmdPing:
	case CmdSession:
		st.BeginSession()
		u.logf("uplink: new session %s", st.Session)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	u.lastSeq = cmd.Seq
	st.ResetDatalinkTime()
	return nil
}

// UplinkStats counts uplink traffic.
type UplinkStats struct {
	Received uint32 `json:"received"`
	Dropped  uint32 `json:"dropped"`
	Rejected uint32 `json:"rejected"`
	LastSeq  uint32 `json:"last_seq"`
}

// Stats must be called from the kernel goroutine.
func (u *Uplink) Stats() UplinkStats {
	return UplinkStats{
		Received: u.received.Load(),
		Dropped:  u.dropped.Load(),
		Rejected: u.rejected,
		LastSeq:  u.lastSeq,
	}
}
