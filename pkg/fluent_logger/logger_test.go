package fluentlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_RequiresPrefixAndHost(t *testing.T) {
	_, err := NewClient(Config{Host: "localhost", Port: 24224})
	assert.Error(t, err)

	_, err = NewClient(Config{TagPrefix: "catalog-import", Port: 24224})
	assert.Error(t, err)
}
