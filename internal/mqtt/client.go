package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"runcoach/internal/config"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Client 样本发布用的 MQTT 客户端（只发布，不订阅）
type Client struct {
	client pahomqtt.Client
	qos    byte
	logger *zap.Logger
}

// NewClient 连接 broker；断线后由 paho 自动重连
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetOrderMatters(false).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			logger.Warn("MQTT connection lost", zap.String("broker", cfg.Broker), zap.Error(err))
		}).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			logger.Info("MQTT connected", zap.String("broker", cfg.Broker), zap.String("client_id", cfg.ClientID))
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	return &Client{client: client, qos: cfg.QoS, logger: logger}, nil
}

// Publish 使用配置的 QoS
func (c *Client) Publish(topic string, retained bool, payload []byte) error {
	token := c.client.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
