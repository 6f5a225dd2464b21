// Package mqtt feeds broker-published measurements into the ingestor. Topic
// layout is ocean/<sensor_id>/readings with a JSON measurement set payload;
// every message goes through the regular ingest path, so validation and
// anomaly side effects are identical to direct calls.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

type Config struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
}

// Source subscribes to the readings topic and hands each payload to the
// ingestor.
type Source struct {
	cfg      Config
	client   mqtt.Client
	ingestor *ingest.Ingestor
	obs      ports.Observability
}

func NewSource(cfg Config, ing *ingest.Ingestor, obs ports.Observability) *Source {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Source{cfg: cfg, ingestor: ing, obs: obs}
}

// Start connects to the broker and subscribes. The paho client reconnects on
// its own; a dropped connection only surfaces in the logs.
func (s *Source) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	opts.SetUsername(s.cfg.Username)
	opts.SetPassword(s.cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.obs.LogError("mqtt_connection_lost", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		s.obs.LogInfo("mqtt_connected", ports.Field{Key: "broker", Value: s.cfg.Broker})
	})

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker: %w", token.Error())
	}

	if token := s.client.Subscribe(s.cfg.Topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", s.cfg.Topic, token.Error())
	}
	s.obs.LogInfo("mqtt_subscribed", ports.Field{Key: "topic", Value: s.cfg.Topic})
	return nil
}

// Stop disconnects from the broker, allowing in-flight work to drain.
func (s *Source) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

func (s *Source) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	sensorID, err := sensorIDFromTopic(msg.Topic())
	if err != nil {
		s.obs.LogError("mqtt_bad_topic", err, ports.Field{Key: "topic", Value: msg.Topic()})
		return
	}

	var m ingest.Measurements
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		s.obs.LogError("mqtt_bad_payload", err, ports.Field{Key: "sensor", Value: sensorID})
		return
	}

	// Bad data from the field must not take the subscription down.
	if _, err := s.ingestor.Ingest(sensorID, m); err != nil {
		s.obs.LogError("mqtt_ingest_failed", err, ports.Field{Key: "sensor", Value: sensorID})
	}
}

// sensorIDFromTopic extracts the id from ocean/<sensor_id>/readings.
func sensorIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("topic %q does not carry a sensor id", topic)
	}
	return parts[1], nil
}
