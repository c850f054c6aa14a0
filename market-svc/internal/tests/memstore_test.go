package tests

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"

	"github.com/shopspring/decimal"
)

// memLedger is an in-memory LedgerStore. A single mutex held for the whole
// transaction stands in for row locks, and a snapshot taken at the start is
// restored when fn fails.
type memLedger struct {
	mu          sync.Mutex
	customers   map[int]domain.Customer
	restaurants map[int]domain.Restaurant
	menu        map[int]domain.MenuItem
	orders      map[int]domain.Order
	qr          map[int][]byte
	platform    decimal.Decimal
	hasPlatform bool
	nextOrderID int
	insertErr   error
}

func newMemLedger() *memLedger {
	return &memLedger{
		customers:   map[int]domain.Customer{},
		restaurants: map[int]domain.Restaurant{},
		menu:        map[int]domain.MenuItem{},
		orders:      map[int]domain.Order{},
		qr:          map[int][]byte{},
	}
}

func (m *memLedger) addCustomer(id int, balance string, postalCode string) {
	m.customers[id] = domain.Customer{
		ID: id, Username: fmt.Sprintf("customer%d", id), FirstName: "Ada", LastName: "Lovelace",
		Street: "Main St 1", PostalCode: postalCode, Balance: decimal.RequireFromString(balance),
	}
}

func (m *memLedger) addRestaurant(id int) {
	m.restaurants[id] = domain.Restaurant{ID: id, Username: fmt.Sprintf("restaurant%d", id), Name: "Pizzeria", Balance: decimal.Zero}
}

func (m *memLedger) addMenuItem(id, restaurantID int, price string, available bool) {
	m.menu[id] = domain.MenuItem{
		ID: id, RestaurantID: restaurantID, Name: fmt.Sprintf("item%d", id),
		Price: decimal.RequireFromString(price), IsAvailable: available,
	}
}

func (m *memLedger) customerBalance(id int) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[id].Balance
}

func (m *memLedger) restaurantBalance(id int) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restaurants[id].Balance
}

func (m *memLedger) order(id int) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

type memSnapshot struct {
	customers   map[int]domain.Customer
	restaurants map[int]domain.Restaurant
	orders      map[int]domain.Order
	platform    decimal.Decimal
	hasPlatform bool
	nextOrderID int
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memLedger) WithinTx(ctx context.Context, fn func(tx service.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := memSnapshot{
		customers:   cloneMap(m.customers),
		restaurants: cloneMap(m.restaurants),
		orders:      cloneMap(m.orders),
		platform:    m.platform,
		hasPlatform: m.hasPlatform,
		nextOrderID: m.nextOrderID,
	}
	if err := fn(&memTx{m: m}); err != nil {
		m.customers, m.restaurants, m.orders = snap.customers, snap.restaurants, snap.orders
		m.platform, m.hasPlatform, m.nextOrderID = snap.platform, snap.hasPlatform, snap.nextOrderID
		return err
	}
	return nil
}

func (m *memLedger) withItemNames(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Name = m.menu[items[i].MenuItemID].Name
	}
	o.Items = items
	return o
}

func (m *memLedger) listOrders(match func(domain.Order) bool) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range m.orders {
		if match(o) {
			orders = append(orders, m.withItemNames(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

func (m *memLedger) ListOrdersByRestaurant(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	return m.listOrders(func(o domain.Order) bool { return o.RestaurantID == restaurantID }), nil
}

func (m *memLedger) ListOrdersByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return m.listOrders(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (m *memLedger) GetOrderDetails(ctx context.Context, orderID int) (*domain.OrderDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %w", service.ErrNotFound)
	}
	return &domain.OrderDetails{Order: m.withItemNames(o), Customer: m.customers[o.CustomerID]}, nil
}

func (m *memLedger) PlatformBalance(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.platform, nil
}

func (m *memLedger) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[orderID]; !ok {
		return nil, fmt.Errorf("order %w", service.ErrNotFound)
	}
	return m.qr[orderID], nil
}

func (m *memLedger) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.qr[orderID] = qr
	return nil
}

type memTx struct {
	m *memLedger
}

func (t *memTx) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	_, ok := t.m.restaurants[restaurantID]
	return ok, nil
}

func (t *memTx) MenuItemsByID(ctx context.Context, restaurantID int, ids []int) (map[int]domain.MenuItem, error) {
	out := map[int]domain.MenuItem{}
	for _, id := range ids {
		if item, ok := t.m.menu[id]; ok && item.RestaurantID == restaurantID {
			out[id] = item
		}
	}
	return out, nil
}

func (t *memTx) LockCustomer(ctx context.Context, customerID int) (*domain.Customer, error) {
	c, ok := t.m.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %w", service.ErrNotFound)
	}
	return &c, nil
}

func (t *memTx) AdjustCustomerBalance(ctx context.Context, customerID int, delta decimal.Decimal) error {
	c, ok := t.m.customers[customerID]
	if !ok {
		return fmt.Errorf("customer %w", service.ErrNotFound)
	}
	c.Balance = c.Balance.Add(delta)
	if c.Balance.IsNegative() {
		return service.ErrInsufficientBalance
	}
	t.m.customers[customerID] = c
	return nil
}

func (t *memTx) AdjustRestaurantBalance(ctx context.Context, restaurantID int, delta decimal.Decimal) error {
	r, ok := t.m.restaurants[restaurantID]
	if !ok {
		return fmt.Errorf("restaurant %w", service.ErrNotFound)
	}
	r.Balance = r.Balance.Add(delta)
	t.m.restaurants[restaurantID] = r
	return nil
}

func (t *memTx) CreditPlatform(ctx context.Context, amount decimal.Decimal) error {
	t.m.platform = t.m.platform.Add(amount)
	t.m.hasPlatform = true
	return nil
}

func (t *memTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	if t.m.insertErr != nil {
		return t.m.insertErr
	}
	t.m.nextOrderID++
	order.ID = t.m.nextOrderID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.ID = i + 1
		item.OrderID = order.ID
		items[i] = item
	}
	order.Items = items
	t.m.orders[order.ID] = *order
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	o, ok := t.m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %w", service.ErrNotFound)
	}
	return &o, nil
}

func (t *memTx) UpdateOrderSettlement(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()
	t.m.orders[order.ID] = *order
	return nil
}
