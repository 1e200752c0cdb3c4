package rabbitmq_common

import (
	"errors"
	"net/url"
	"time"
)

const defaultReconnectInterval = 10 * time.Second

// Config - общая часть конфигурации подключения
type Config struct {
	URL string
	// ReconnectInterval - как часто проверять упавшее соединение. По умолчанию 10s.
	ReconnectInterval time.Duration
}

func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.New("rabbitmq: URL is malformed")
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return errors.New("rabbitmq: URL scheme must be amqp or amqps")
	}
	return nil
}

func (c Config) reconnectInterval() time.Duration {
	if c.ReconnectInterval <= 0 {
		return defaultReconnectInterval
	}
	return c.ReconnectInterval
}
