package storage

import (
	"context"
	"database/sql"
	"errors"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// LedgerRepository persists orders and the balances they move. Row locks
// taken inside WithinTx serialize concurrent transitions on one order.
type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

var _ service.LedgerStore = (*LedgerRepository)(nil)

func (r *LedgerRepository) WithinTx(ctx context.Context, fn func(tx service.LedgerTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type ledgerTx struct {
	tx *sql.Tx
}

var _ service.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1)", restaurantID).Scan(&exists)
	return exists, err
}

func (t *ledgerTx) MenuItemsByID(ctx context.Context, restaurantID int, ids []int) (map[int]domain.MenuItem, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE restaurant_id = $1 AND id = ANY($2)",
		restaurantID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int]domain.MenuItem, len(ids))
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = *item
	}
	return items, rows.Err()
}

func (t *ledgerTx) LockCustomer(ctx context.Context, customerID int) (*domain.Customer, error) {
	return scanCustomer(t.tx.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1 FOR UPDATE", customerID))
}

func (t *ledgerTx) AdjustCustomerBalance(ctx context.Context, customerID int, delta decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE customers SET balance = balance + $1 WHERE id = $2", delta, customerID)
	if err != nil {
		if pqCode(err) == checkViolation {
			return service.ErrInsufficientBalance
		}
		return err
	}
	return expectOne(res, "customer")
}

func (t *ledgerTx) AdjustRestaurantBalance(ctx context.Context, restaurantID int, delta decimal.Decimal) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE restaurants SET balance = balance + $1 WHERE id = $2", delta, restaurantID)
	if err != nil {
		return err
	}
	return expectOne(res, "restaurant")
}

// CreditPlatform adds amount to the platform singleton, creating it on first
// use within the same transaction.
func (t *ledgerTx) CreditPlatform(ctx context.Context, amount decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO platform (id, balance) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET balance = platform.balance + EXCLUDED.balance`, amount)
	return err
}

func (t *ledgerTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	if err := t.tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, status, total_amount, platform_fee, restaurant_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		order.CustomerID, order.RestaurantID, order.Status, order.TotalAmount,
		order.PlatformFee, order.RestaurantAmount, order.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := t.tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			order.ID, item.MenuItemID, item.Quantity, item.PriceAtOrder,
		).Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = "id, customer_id, restaurant_id, status, total_amount, platform_fee, restaurant_amount, COALESCE(notes, ''), created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.Status, &o.TotalAmount,
		&o.PlatformFee, &o.RestaurantAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (t *ledgerTx) LockOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return scanOrder(t.tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", orderID))
}

func (t *ledgerTx) UpdateOrderSettlement(ctx context.Context, order *domain.Order) error {
	return notFound(t.tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, platform_fee = $2, restaurant_amount = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		order.Status, order.PlatformFee, order.RestaurantAmount, order.ID,
	).Scan(&order.UpdatedAt), "order")
}

func (r *LedgerRepository) ListOrdersByRestaurant(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	return r.listOrders(ctx, "restaurant_id", restaurantID)
}

func (r *LedgerRepository) ListOrdersByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return r.listOrders(ctx, "customer_id", customerID)
}

func (r *LedgerRepository) listOrders(ctx context.Context, ownerColumn string, ownerID int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE "+ownerColumn+" = $1 ORDER BY created_at DESC, id DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	index := map[int]int{}
	ids := []int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		o := &orders[index[item.OrderID]]
		o.Items = append(o.Items, item)
	}
	return orders, nil
}

func (r *LedgerRepository) orderItems(ctx context.Context, orderIDs []int) ([]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, oi.quantity, oi.price_at_order
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.PriceAtOrder); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *LedgerRepository) GetOrderDetails(ctx context.Context, orderID int) (*domain.OrderDetails, error) {
	var d domain.OrderDetails
	o, c := &d.Order, &d.Customer
	err := r.DB.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.restaurant_id, o.status, o.total_amount, o.platform_fee,
		       o.restaurant_amount, COALESCE(o.notes, ''), o.created_at, o.updated_at,
		       c.id, c.username, c.first_name, c.last_name, c.street, c.postal_code
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.Status, &o.TotalAmount, &o.PlatformFee,
			&o.RestaurantAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Street, &c.PostalCode)
	if err != nil {
		return nil, notFound(err, "order")
	}

	if o.Items, err = r.orderItems(ctx, []int{orderID}); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *LedgerRepository) PlatformBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.DB.QueryRowContext(ctx, "SELECT balance FROM platform WHERE id = 1").Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	return balance, err
}

func (r *LedgerRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return qr, nil
}

func (r *LedgerRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	if err != nil {
		return err
	}
	return expectOne(res, "order")
}
