package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventNewOrder = "new_order"

// OrderEvent is the payload published to the order events topic.
type OrderEvent struct {
	EventID      string          `json:"event_id"`
	Type         string          `json:"type"`
	OrderID      int             `json:"order_id"`
	RestaurantID int             `json:"restaurant_id"`
	CustomerID   int             `json:"customer_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewOrderEvent(eventID string, order *Order) OrderEvent {
	return OrderEvent{
		EventID:      eventID,
		Type:         EventNewOrder,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerID:   order.CustomerID,
		TotalAmount:  order.TotalAmount,
		Notes:        order.Notes,
		CreatedAt:    order.CreatedAt,
	}
}
