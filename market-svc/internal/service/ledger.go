package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 5 * time.Second

type Ledger struct {
	store    LedgerStore
	notifier OrderNotifier
	qr       QRGenerator
	log      *logger.Logger
}

func NewLedger(store LedgerStore, notifier OrderNotifier, qr QRGenerator, log *logger.Logger) *Ledger {
	return &Ledger{store: store, notifier: notifier, qr: qr, log: log}
}

var _ LedgerServiceInterface = (*Ledger)(nil)

// PlaceOrder prices the basket from the catalog, debits the customer and
// records the order in the processing state, all in one transaction. The
// new-order notification is sent after commit and never fails the call.
func (l *Ledger) PlaceOrder(ctx context.Context, customerID int, req PlaceOrderRequest) (*domain.Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.Total != nil {
		if err := checkMoney("total", *req.Total); err != nil {
			return nil, err
		}
	}

	var order *domain.Order
	err := l.store.WithinTx(ctx, func(tx LedgerTx) error {
		exists, err := tx.RestaurantExists(ctx, req.RestaurantID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("restaurant")
		}

		items, err := l.priceItems(ctx, tx, req)
		if err != nil {
			return err
		}

		order = domain.NewOrder(customerID, req.RestaurantID, items, req.Notes)
		if req.Total != nil && !req.Total.Equal(order.TotalAmount) {
			return invalid("total", fmt.Sprintf("does not match item prices (expected %s)", order.TotalAmount.StringFixed(2)))
		}

		customer, err := tx.LockCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if customer.Balance.LessThan(order.TotalAmount) {
			return ErrInsufficientBalance
		}
		if err := tx.AdjustCustomerBalance(ctx, customerID, order.TotalAmount.Neg()); err != nil {
			return err
		}
		return tx.InsertOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	requestID := logger.RequestID(ctx)
	l.log.Info("order_placed", requestID, "Order placed", map[string]any{
		"order_id":      order.ID,
		"customer_id":   customerID,
		"restaurant_id": order.RestaurantID,
		"total_amount":  order.TotalAmount.StringFixed(2),
	})
	l.notify(ctx, order)

	return order, nil
}

func (l *Ledger) priceItems(ctx context.Context, tx LedgerTx, req PlaceOrderRequest) ([]domain.OrderItem, error) {
	ids := make([]int, 0, len(req.Items))
	seen := make(map[int]bool, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}
	sort.Ints(ids)

	menu, err := tx.MenuItemsByID(ctx, req.RestaurantID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		item, ok := menu[line.MenuItemID]
		if !ok {
			return nil, notFound(fmt.Sprintf("menu item %d", line.MenuItemID))
		}
		if !item.IsAvailable {
			return nil, invalid(fmt.Sprintf("items[%d].id", i), fmt.Sprintf("%s is not available", item.Name))
		}
		items = append(items, domain.OrderItem{
			MenuItemID:   item.ID,
			Name:         item.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: item.Price,
		})
	}
	return items, nil
}

func (l *Ledger) notify(ctx context.Context, order *domain.Order) {
	if l.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := l.notifier.PublishNewOrder(ctx, domain.NewOrderEvent(uuid.NewString(), order)); err != nil {
		l.log.Error("notification_failed", logger.RequestID(ctx), "Failed to publish new order event", err, map[string]any{
			"order_id": order.ID,
		})
	}
}

// AcceptOrder moves the order to preparing and distributes the total between
// the platform and the restaurant.
func (l *Ledger) AcceptOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	order, err := l.transition(ctx, restaurantID, orderID, domain.StatusPreparing, func(tx LedgerTx, o *domain.Order) error {
		o.Settle()
		if err := tx.CreditPlatform(ctx, o.PlatformFee); err != nil {
			return err
		}
		return tx.AdjustRestaurantBalance(ctx, o.RestaurantID, o.RestaurantAmount)
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("order_accepted", logger.RequestID(ctx), "Order accepted", map[string]any{
		"order_id":          order.ID,
		"restaurant_id":     restaurantID,
		"platform_fee":      order.PlatformFee.StringFixed(2),
		"restaurant_amount": order.RestaurantAmount.StringFixed(2),
	})
	return order, nil
}

// RejectOrder cancels an order that has not been accepted and refunds the
// customer in full.
func (l *Ledger) RejectOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	order, err := l.transition(ctx, restaurantID, orderID, domain.StatusCancelled, func(tx LedgerTx, o *domain.Order) error {
		return tx.AdjustCustomerBalance(ctx, o.CustomerID, o.TotalAmount)
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("order_rejected", logger.RequestID(ctx), "Order rejected", map[string]any{
		"order_id":      order.ID,
		"restaurant_id": restaurantID,
		"refund":        order.TotalAmount.StringFixed(2),
	})
	return order, nil
}

func (l *Ledger) CompleteOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	order, err := l.transition(ctx, restaurantID, orderID, domain.StatusCompleted, nil)
	if err != nil {
		return nil, err
	}

	l.log.Info("order_completed", logger.RequestID(ctx), "Order completed", map[string]any{
		"order_id":      order.ID,
		"restaurant_id": restaurantID,
	})
	return order, nil
}

// transition locks the order row, checks ownership and the state machine,
// applies settle and persists the new state inside one transaction.
func (l *Ledger) transition(ctx context.Context, restaurantID, orderID int, next domain.OrderStatus, settle func(LedgerTx, *domain.Order) error) (*domain.Order, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}

	var order *domain.Order
	err := l.store.WithinTx(ctx, func(tx LedgerTx) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.RestaurantID != restaurantID {
			return notFound("order")
		}
		if err := order.TransitionTo(next); err != nil {
			return err
		}
		if settle != nil {
			if err := settle(tx, order); err != nil {
				return err
			}
		}
		return tx.UpdateOrderSettlement(ctx, order)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			l.log.Warn("order_transition_refused", logger.RequestID(ctx), err.Error(), map[string]any{
				"order_id":      orderID,
				"restaurant_id": restaurantID,
			})
		}
		return nil, err
	}
	return order, nil
}

func (l *Ledger) RestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	return l.store.ListOrdersByRestaurant(ctx, restaurantID)
}

func (l *Ledger) CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	return l.store.ListOrdersByCustomer(ctx, customerID)
}

func (l *Ledger) RestaurantOrder(ctx context.Context, restaurantID, orderID int) (*domain.OrderDetails, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	details, err := l.store.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if details.Order.RestaurantID != restaurantID {
		return nil, notFound("order")
	}
	return details, nil
}

func (l *Ledger) CustomerOrder(ctx context.Context, customerID, orderID int) (*domain.OrderDetails, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	details, err := l.store.GetOrderDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if details.Order.CustomerID != customerID {
		return nil, notFound("order")
	}
	return details, nil
}

// ReceiptQRCode returns the PNG receipt code for one of the customer's
// orders, generating and caching it on first request.
func (l *Ledger) ReceiptQRCode(ctx context.Context, customerID, orderID int) ([]byte, error) {
	if _, err := l.CustomerOrder(ctx, customerID, orderID); err != nil {
		return nil, err
	}

	qr, err := l.store.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) > 0 {
		return qr, nil
	}

	qr, err = l.qr.Generate(orderID)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	if err := l.store.SaveQRCode(ctx, orderID, qr); err != nil {
		l.log.Warn("qr_cache_failed", logger.RequestID(ctx), "Failed to store receipt QR code", map[string]any{
			"order_id": orderID,
			"error":    err.Error(),
		})
	}
	return qr, nil
}

func (l *Ledger) PlatformBalance(ctx context.Context) (decimal.Decimal, error) {
	return l.store.PlatformBalance(ctx)
}
