package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/angas/entsoe-go/sensor"
)

// Publisher mirrors each sensor entity onto retained MQTT topics:
// <prefix>/<entity>/state, <prefix>/<entity>/available and
// <prefix>/<entity>/attributes (average-price entity only).
type Publisher struct {
	client      mqtt.Client
	logger      *slog.Logger
	topicPrefix string
}

func NewPublisher(broker string, port int16, username string, password string, topicPrefix string) *Publisher {
	logger := slog.Default().With("module", "mqtt")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("entsoe-go")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newMqttLogger(logger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(logger, slog.LevelError)
	mqtt.WARN = newMqttLogger(logger, slog.LevelWarn)

	return &Publisher{
		client:      mqtt.NewClient(opts),
		logger:      logger,
		topicPrefix: topicPrefix,
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// PublishState pushes the entity's current state, availability and,
// when present, its extra attributes.
func (p *Publisher) PublishState(s *sensor.Sensor) {
	base := p.entityTopic(s)

	p.publish(base+"/state", s.StateString())

	available := "offline"
	if s.Available() {
		available = "online"
	}
	p.publish(base+"/available", available)

	if attrs := s.ExtraAttributes(); attrs != nil {
		payload, err := json.Marshal(attrs)
		if err != nil {
			p.logger.Error("failed to encode attributes", slog.Any("error", err))
			return
		}
		p.publish(base+"/attributes", string(payload))
	}
}

func (p *Publisher) publish(topic string, payload string) {
	token := p.client.Publish(topic, 0, true, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			p.logger.Warn("MQTT publish failed",
				slog.String("topic", topic),
				slog.Any("error", token.Error()))
		}
	}()
}

func (p *Publisher) entityTopic(s *sensor.Sensor) string {
	entity := strings.TrimPrefix(s.EntityId, sensor.Domain+".")
	return fmt.Sprintf("%s/%s", p.topicPrefix, entity)
}
