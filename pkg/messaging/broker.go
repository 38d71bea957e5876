package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. Board consumers treat it
// as a black-box publish/subscribe channel.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the wire envelope published on the board channel.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
