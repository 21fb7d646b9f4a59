package rc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLink(t *testing.T) (*Link, *Queue) {
	t.Helper()
	q := NewQueue(512)
	l := NewLink(q, NewCRSFParser(), LinkConfig{LostTicks: 3, ReallyLostTicks: 6})
	require.NoError(t, l.Init())
	return l, q
}

func TestLinkStartsReallyLost(t *testing.T) {
	l, _ := newTestLink(t)
	require.Equal(t, StatusReallyLost, l.Status())
	for _, v := range l.Channels() {
		require.Equal(t, uint16(NEUTRAL_RX_VALUE), v)
	}
}

func TestLinkInitWithoutSource(t *testing.T) {
	l := NewLink(nil, NewCRSFParser(), LinkConfig{})
	require.ErrorIs(t, l.Init(), ErrNoSource)
}

func TestLinkEventDeliversEachFrameOnce(t *testing.T) {
	l, q := newTestLink(t)

	calls := 0
	l.Event(func() { calls++ })
	require.Zero(t, calls, "nothing buffered")

	_, _ = q.Write(validCRSFPacket)
	_, _ = q.Write(validCRSFPacket)
	l.Event(func() { calls++ })
	require.Equal(t, 2, calls)
	require.Equal(t, StatusOk, l.Status())
	require.Equal(t, uint32(2), l.Frames())

	l.Event(func() { calls++ })
	require.Equal(t, 2, calls, "drained frames are not redelivered")
}

func TestLinkPartialFrameWaits(t *testing.T) {
	l, q := newTestLink(t)
	calls := 0
	_, _ = q.Write(validCRSFPacket[:10])
	l.Event(func() { calls++ })
	require.Zero(t, calls)
	_, _ = q.Write(validCRSFPacket[10:])
	l.Event(func() { calls++ })
	require.Equal(t, 1, calls)
}

func TestLinkLossThresholds(t *testing.T) {
	l, q := newTestLink(t)
	_, _ = q.Write(validCRSFPacket)
	l.Event(nil)
	require.Equal(t, StatusOk, l.Status())

	for i := 0; i < 3; i++ {
		l.Periodic()
		require.Equal(t, StatusOk, l.Status(), "tick %d", i+1)
	}
	l.Periodic()
	require.Equal(t, StatusLost, l.Status())

	for i := 0; i < 2; i++ {
		l.Periodic()
	}
	require.Equal(t, StatusLost, l.Status())
	l.Periodic()
	require.Equal(t, StatusReallyLost, l.Status())

	_, _ = q.Write(validCRSFPacket)
	l.Event(nil)
	require.Equal(t, StatusOk, l.Status())
}

func TestNewLinkDefaults(t *testing.T) {
	l := NewLink(NewQueue(0), NewIBusParser(), LinkConfig{})
	require.Equal(t, uint32(DefaultLostTicks), l.lostTicks)
	require.Equal(t, uint32(DefaultLostTicks*2), l.reallyLostTicks)
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue(4)
	_, _ = q.Write([]byte{1, 2, 3, 4, 5, 6})
	require.Equal(t, 4, q.Buffered())
	require.Equal(t, uint32(2), q.Dropped())
	b, err := q.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(3), b)

	for q.Buffered() > 0 {
		_, _ = q.ReadByte()
	}
	_, err = q.ReadByte()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "ok", StatusOk.String())
	require.Equal(t, "lost", StatusLost.String())
	require.Equal(t, "really_lost", StatusReallyLost.String())
}
