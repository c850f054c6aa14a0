package domain

import (
	"encoding/json"
	"time"
)

const EventNewOrder = "new_order"

// OrderEvent is the message market-svc publishes on the order events topic.
// Amounts stay in their wire form; this service only relays them.
type OrderEvent struct {
	EventID      string      `json:"event_id"`
	Type         string      `json:"type"`
	OrderID      int         `json:"order_id"`
	RestaurantID int         `json:"restaurant_id"`
	CustomerID   int         `json:"customer_id"`
	TotalAmount  json.Number `json:"total_amount"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Notification is the frame pushed to restaurant clients.
type Notification struct {
	Event   string     `json:"event"`
	Payload OrderEvent `json:"payload"`
}

func NewOrderNotification(e OrderEvent) Notification {
	return Notification{Event: e.Type, Payload: e}
}
