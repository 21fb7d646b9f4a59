package datalink

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig locates the broker and the two link topics.
type MQTTConfig struct {
	Broker        string
	Port          int
	ClientID      string
	Username      string
	Password      string
	UplinkTopic   string
	DownlinkTopic string
}

// MQTT is the ground-station transport. Messages on the uplink topic are
// latched into an Uplink; telemetry is published to the downlink topic.
type MQTT struct {
	config MQTTConfig
	client mqtt.Client
	uplink *Uplink
}

func NewMQTT(config MQTTConfig, uplink *Uplink) *MQTT {
	return &MQTT{config: config, uplink: uplink}
}

func (m *MQTT) brokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", m.config.Broker, m.config.Port)
}

func (m *MQTT) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.brokerURL())

	clientID := m.config.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("rotorfc-%d", time.Now().Unix())
	}
	opts.SetClientID(clientID)
	if m.config.Username != "" {
		opts.SetUsername(m.config.Username)
		opts.SetPassword(m.config.Password)
	}

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = m.onConnect
	opts.OnConnectionLost = m.onConnectionLost
	opts.OnReconnecting = m.onReconnecting

	m.client = mqtt.NewClient(opts)

	log.Printf("[MQTT] Connecting to %s as %s...", m.brokerURL(), clientID)
	token := m.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT connect timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}
	return nil
}

func (m *MQTT) Stop() {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(1000)
	}
	log.Printf("[MQTT] Disconnected")
}

// Send publishes one telemetry message without waiting for the broker.
func (m *MQTT) Send(payload []byte) {
	if m.client == nil || !m.client.IsConnectionOpen() {
		return
	}
	m.client.Publish(m.config.DownlinkTopic, 0, false, payload)
}

func (m *MQTT) onConnect(client mqtt.Client) {
	log.Printf("[MQTT] Connected successfully")

	token := client.Subscribe(m.config.UplinkTopic, 1, m.onMessage)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("[MQTT] Subscribe timeout for %s", m.config.UplinkTopic)
		return
	}
	if token.Error() != nil {
		log.Printf("[MQTT] Subscribe error: %v", token.Error())
		return
	}
	log.Printf("[MQTT] Subscribed to %s", m.config.UplinkTopic)
}

func (m *MQTT) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] Connection lost: %v (will auto-reconnect)", err)
}

func (m *MQTT) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Printf("[MQTT] Reconnecting...")
}

func (m *MQTT) onMessage(client mqtt.Client, msg mqtt.Message) {
	m.uplink.Push(msg.Payload())
}
