package rc

import (
	"errors"
	"sync"
)

// ErrEmpty is returned by ReadByte when no byte is buffered.
var ErrEmpty = errors.New("rc: queue empty")

// Queue is a ByteSource fed by a writer on another goroutine, such as a
// serial port reader on a host. Writers only latch bytes; decoding happens
// when the owner of the Link drains it.
type Queue struct {
	mu   sync.Mutex
	buf  []byte
	max  int
	drop uint32
}

// NewQueue returns a queue holding at most max bytes. Older bytes are
// dropped when a write would overflow it.
func NewQueue(max int) *Queue {
	if max <= 0 {
		max = 256
	}
	return &Queue{max: max}
}

// Write latches p. It never blocks and never fails.
func (q *Queue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, p...)
	if over := len(q.buf) - q.max; over > 0 {
		q.buf = append(q.buf[:0], q.buf[over:]...)
		q.drop += uint32(over)
	}
	return len(p), nil
}

// Buffered returns the number of bytes waiting to be read.
func (q *Queue) Buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// ReadByte pops the oldest byte.
func (q *Queue) ReadByte() (byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, ErrEmpty
	}
	b := q.buf[0]
	q.buf = q.buf[1:]
	return b, nil
}

// Dropped returns the number of bytes discarded on overflow.
func (q *Queue) Dropped() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drop
}
