package service

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Broadcaster delivers a frame to every live connection of a restaurant and
// reports how many received it. Guard locks delivery for one restaurant and
// returns the unlock func.
type Broadcaster interface {
	Guard(restaurantID int) func()
	Broadcast(restaurantID int, frame []byte) int
}

// Buffer keeps frames for restaurants that had no live connection.
type Buffer interface {
	Push(ctx context.Context, restaurantID int, frame []byte) error
	Drain(ctx context.Context, restaurantID int) ([]json.RawMessage, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, value []byte) error
}
