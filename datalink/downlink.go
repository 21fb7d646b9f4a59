package datalink

import (
	"encoding/json"

	"github.com/BryanSouza91/RotorFC/kernel"
)

// Sink accepts encoded downlink messages. Send must not block.
type Sink interface {
	Send(payload []byte)
}

// Downlink encodes telemetry snapshots as JSON and fans them out to every sink.
type Downlink struct {
	sinks []Sink
	logf  func(format string, args ...any)
	sent  uint32
}

func NewDownlink(logf func(format string, args ...any), sinks ...Sink) *Downlink {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Downlink{sinks: sinks, logf: logf}
}

// Periodic sends one telemetry message.
func (d *Downlink) Periodic(s kernel.Snapshot) {
	payload, err := json.Marshal(s)
	if err != nil {
		d.logf("downlink: encode: %v", err)
		return
	}
	for _, sink := range d.sinks {
		sink.Send(payload)
	}
	d.sent++
}

func (d *Downlink) Sent() uint32 { return d.sent }
