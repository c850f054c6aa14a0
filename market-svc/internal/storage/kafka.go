package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher emits order events keyed by restaurant so one restaurant's
// events stay ordered on a single partition.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

var _ service.OrderNotifier = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishNewOrder(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.RestaurantID)),
		Value: payload,
	})
}
