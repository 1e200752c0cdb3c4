package rabbitmq_producer

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type failingSource struct{}

func (failingSource) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	return nil, nil, errors.New("broker down")
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{}, nil)
	assert.Error(t, err)

	_, err = NewPublisher(PublisherConfig{DeclareExchangeIfMissing: true, ExchangeName: "x"}, failingSource{})
	assert.Error(t, err)
}

func TestNewPublisher_SourceError(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{ExchangeName: "x", ExchangeType: "topic"}, failingSource{})
	assert.ErrorContains(t, err, "broker down")
}
