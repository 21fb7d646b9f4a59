package sitl

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"

	"github.com/BryanSouza91/RotorFC/rc"
)

// SerialSource copies a receiver attached to a host serial port into a
// queue the RC link drains.
type SerialSource struct {
	port  serial.Port
	queue *rc.Queue
	done  chan struct{}
}

// OpenSerial opens name at baud and starts copying into q.
func OpenSerial(name string, baud int, q *rc.Queue) (*SerialSource, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("configure %s: %w", name, err)
	}
	s := &SerialSource{port: port, queue: q, done: make(chan struct{})}
	go s.copy()
	log.Printf("[SITL] Receiver on %s at %d baud", name, baud)
	return s, nil
}

func (s *SerialSource) copy() {
	defer close(s.done)
	if err := pump(s.port, s.queue); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("[SITL] Receiver read stopped: %v", err)
	}
}

// pump copies r into q until r fails or reports EOF. A zero-length read is
// a timeout and keeps going.
func pump(r io.Reader, q *rc.Queue) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = q.Write(buf[:n])
		}
		if err != nil {
			return err
		}
	}
}

// Close stops the copy and releases the port.
func (s *SerialSource) Close() error {
	err := s.port.Close()
	<-s.done
	return err
}
