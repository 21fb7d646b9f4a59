package datalink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BryanSouza91/RotorFC/kernel"
)

type fakeMessage struct{ payload []byte }

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return "rotorfc/uplink" }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestMQTTMessagesReachUplink(t *testing.T) {
	u := NewUplink(4, nil)
	m := NewMQTT(MQTTConfig{Broker: "localhost", Port: 1883, UplinkTopic: "rotorfc/uplink"}, u)
	require.Equal(t, "tcp://localhost:1883", m.brokerURL())

	m.onMessage(nil, fakeMessage{payload: []byte(`{"type":"set_mode","mode":"rc_manual"}`)})

	st := kernel.State{Mode: kernel.ModeKill}
	u.Event(&st)
	require.Equal(t, kernel.ModeRcManual, st.Mode)
}

func TestMQTTSendBeforeStart(t *testing.T) {
	m := NewMQTT(MQTTConfig{}, NewUplink(1, nil))
	m.Send([]byte("{}"))
	m.Stop()
}
