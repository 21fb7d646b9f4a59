package datalink

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/BryanSouza91/RotorFC/kernel"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	go h.Run(ctx)
	t.Cleanup(cancel)

	conn := dialHub(t, h)

	// The join is asynchronous; resend until the client sees a frame.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	got := make(chan []byte, 1)
	go func() {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			got <- msg
		}
	}()
	deadline := time.After(5 * time.Second)
	for {
		h.Send([]byte(`{"ticks":1}`))
		select {
		case msg := <-got:
			require.JSONEq(t, `{"ticks":1}`, string(msg))
			return
		case <-deadline:
			t.Fatal("no broadcast received")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestHubForwardsUplink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	u := NewUplink(4, nil)
	h := NewHub(u)
	go h.Run(ctx)
	t.Cleanup(cancel)

	conn := dialHub(t, h)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"kill"}`)))

	require.Eventually(t, func() bool { return u.Stats().Received == 1 }, 5*time.Second, 10*time.Millisecond)

	st := kernel.State{Mode: kernel.ModeHover, MotorsOn: true}
	u.Event(&st)
	require.Equal(t, kernel.ModeKill, st.Mode)
	require.False(t, st.MotorsOn)
}

func TestHubSendNeverBlocks(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < 10*messageBufferSize; i++ {
		h.Send([]byte("x"))
	}
}
