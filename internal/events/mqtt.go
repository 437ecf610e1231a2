package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MQTTOptions MQTT 连接配置
type MQTTOptions struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	TopicPrefix string
}

// brokerClient is the subset of the paho client the publisher uses.
type brokerClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher MQTT 事件发布
type MQTTPublisher struct {
	client brokerClient
	qos    byte
	prefix string
	logger *zap.Logger
}

var _ Publisher = (*MQTTPublisher)(nil)

// NewMQTTPublisher 连接 broker
func NewMQTTPublisher(opts MQTTOptions, logger *zap.Logger) (*MQTTPublisher, error) {
	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		co.SetPassword(opts.Password)
	}
	co.SetAutoReconnect(true)
	co.SetCleanSession(true)
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	client := mqtt.NewClient(co)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return newMQTTPublisher(client, opts.QoS, opts.TopicPrefix, logger), nil
}

func newMQTTPublisher(client brokerClient, qos byte, prefix string, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		qos:    qos,
		prefix: strings.TrimRight(prefix, "/"),
		logger: logger,
	}
}

// Topic {prefix}/{entity}/{action}
func (p *MQTTPublisher) Topic(e Event) string {
	if p.prefix == "" {
		return e.Entity + "/" + e.Action
	}
	return p.prefix + "/" + e.Entity + "/" + e.Action
}

func (p *MQTTPublisher) Publish(_ context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("Failed to encode event", zap.String("entity", e.Entity), zap.Error(err))
		return
	}
	topic := p.Topic(e)
	token := p.client.Publish(topic, p.qos, false, payload)
	// 不阻塞请求：在后台等待确认并记录失败
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			p.logger.Warn("Failed to publish event",
				zap.String("topic", topic),
				zap.String("entity_id", e.EntityID),
				zap.Error(err),
			)
		}
	}()
}

// Close 断开连接
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250) // 250ms等待时间
}
