package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-marketplace/notify-svc/internal/domain"
	"food-marketplace/pkg/logger"
)

var ErrMalformedEvent = errors.New("malformed order event")

const defaultRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Hub    Broadcaster
	Buffer Buffer
	Log    *logger.Logger
	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, hub Broadcaster, buffer Buffer, log *logger.Logger) *Consumer {
	return &Consumer{Reader: reader, Hub: hub, Buffer: buffer, Log: log, RetryDelay: defaultRetryDelay}
}

var _ ConsumerInterface = (*Consumer)(nil)

// Start reads order events until ctx is cancelled. Bad messages are logged
// and skipped so one poison message cannot stall the partition.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("consumer_started", "startup", "Notification consumer started", nil)
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Log.Error("consumer_read_failed", "", "Failed to read message", err, nil)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.RetryDelay):
			}
			continue
		}

		if err := c.Process(ctx, message.Value); err != nil {
			c.Log.Error("event_failed", "", "Failed to process order event", err, map[string]any{
				"partition": message.Partition,
				"offset":    message.Offset,
			})
		}
	}
}

// Process pushes a new_order event to the restaurant's live connections, or
// buffers it when none is connected. Other event types are ignored.
func (c *Consumer) Process(ctx context.Context, value []byte) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.Type != domain.EventNewOrder {
		return nil
	}
	if event.RestaurantID <= 0 {
		return fmt.Errorf("%w: missing restaurant_id", ErrMalformedEvent)
	}

	frame, err := json.Marshal(domain.NewOrderNotification(event))
	if err != nil {
		return err
	}

	fields := map[string]any{
		"event_id":      event.EventID,
		"order_id":      event.OrderID,
		"restaurant_id": event.RestaurantID,
	}
	unlock := c.Hub.Guard(event.RestaurantID)
	defer unlock()

	if delivered := c.Hub.Broadcast(event.RestaurantID, frame); delivered > 0 {
		fields["connections"] = delivered
		c.Log.Info("notification_delivered", event.EventID, "New order pushed to restaurant", fields)
		return nil
	}

	if err := c.Buffer.Push(ctx, event.RestaurantID, frame); err != nil {
		return fmt.Errorf("buffer notification: %w", err)
	}
	c.Log.Info("notification_buffered", event.EventID, "Restaurant offline, notification buffered", fields)
	return nil
}
