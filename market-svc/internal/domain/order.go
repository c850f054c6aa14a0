package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusPreparing  OrderStatus = "preparing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// PlatformFeeRate is the marketplace's share of every accepted order.
var PlatformFeeRate = decimal.RequireFromString("0.15")

// transitions lists every legal forward move; anything absent is rejected.
var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

type Order struct {
	ID               int
	CustomerID       int
	RestaurantID     int
	Status           OrderStatus
	TotalAmount      decimal.Decimal
	PlatformFee      decimal.Decimal
	RestaurantAmount decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []OrderItem
}

// OrderItem snapshots the menu price at placement time. Name is filled in
// by read paths joining menu_items.
type OrderItem struct {
	ID           int
	OrderID      int
	MenuItemID   int
	Name         string
	Quantity     int
	PriceAtOrder decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDetails is an order together with the customer it belongs to.
type OrderDetails struct {
	Order    Order
	Customer Customer
}

// NewOrder builds an order in the initial state. The fee split is left at
// zero until the restaurant accepts.
func NewOrder(customerID, restaurantID int, items []OrderItem, notes string) *Order {
	return &Order{
		CustomerID:       customerID,
		RestaurantID:     restaurantID,
		Status:           StatusProcessing,
		TotalAmount:      SumItems(items),
		PlatformFee:      decimal.Zero,
		RestaurantAmount: decimal.Zero,
		Notes:            notes,
		Items:            items,
	}
}

func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// TransitionTo moves the order to next or reports ErrInvalidTransition.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// Settle records the fee split computed from the order total.
func (o *Order) Settle() {
	o.PlatformFee, o.RestaurantAmount = SplitFee(o.TotalAmount)
}

// SplitFee divides total into the platform fee and the restaurant amount.
// The fee is rounded half-to-even to the cent and the restaurant receives the
// exact remainder, so the two parts always add back up to total.
func SplitFee(total decimal.Decimal) (platformFee, restaurantAmount decimal.Decimal) {
	total = total.Round(2)
	platformFee = total.Mul(PlatformFeeRate).RoundBank(2)
	restaurantAmount = total.Sub(platformFee)
	return platformFee, restaurantAmount
}
