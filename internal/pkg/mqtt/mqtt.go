package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofrs/uuid"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/config"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/sensor"
)

type MqttClient struct {
	client mqtt.Client
}

// MirroredReading is what local subscribers see on the reading topic.
type MirroredReading struct {
	Source  string         `json:"source"`
	Reading sensor.Reading `json:"reading"`
}

func NewMQTTClient(addr string, insecureSkipVerify bool, connectHandler func(client mqtt.Client), connectionLostHandler func(client mqtt.Client, err error), reconnectHandler func(mqtt.Client, *mqtt.ClientOptions)) MqttClient {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(addr)
	opts.CleanSession = false
	var clientID string
	u, _ := uuid.NewV4()
	clientID = u.String()
	opts.SetClientID(clientID)
	opts.TLSConfig = &tls.Config{
		InsecureSkipVerify: insecureSkipVerify,
	}
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectionLostHandler
	opts.AutoReconnect = true
	client := mqtt.NewClient(opts)

	opts.OnReconnecting = reconnectHandler

	return MqttClient{
		client,
	}
}

func (c MqttClient) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (c MqttClient) Cleanup() {
	c.client.Disconnect(250)
}

func (c MqttClient) publish(topic, message string) error {
	token := c.client.Publish(topic, 0, false, message)
	token.Wait()
	return token.Error()
}

func (c MqttClient) PublishReading(source string, reading sensor.Reading) error {
	j, err := json.Marshal(MirroredReading{Source: source, Reading: reading})
	if err != nil {
		return fmt.Errorf("marshalling reading: %s", err)
	}
	return c.publish(config.ReadingTopic, string(j))
}
