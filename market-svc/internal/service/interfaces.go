package service

import (
	"context"

	"food-marketplace/market-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	CreateRestaurant(ctx context.Context, r *domain.Restaurant) error
	CustomerByUsername(ctx context.Context, username string) (*domain.Customer, error)
	RestaurantByUsername(ctx context.Context, username string) (*domain.Restaurant, error)
	GetCustomer(ctx context.Context, id int) (*domain.Customer, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, r *domain.Restaurant) error
}

type CatalogRepository interface {
	ListMenuItems(ctx context.Context, restaurantID int, availableOnly bool) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (softDeleted bool, err error)
}

type SettingsRepository interface {
	ListOpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error)
	AddOpeningHour(ctx context.Context, hour *domain.OpeningHour) error
	ReplaceOpeningHours(ctx context.Context, restaurantID int, hours []domain.OpeningHour) error
	ListDeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error)
	AddDeliveryArea(ctx context.Context, area *domain.DeliveryArea) error
	DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error
	RestaurantsServing(ctx context.Context, postalCode string) ([]domain.Restaurant, error)
}

// LedgerStore owns the transactional boundary of the order ledger. Every
// balance mutation happens through a LedgerTx handed out by WithinTx; the
// transaction commits only when fn returns nil.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
	ListOrdersByRestaurant(ctx context.Context, restaurantID int) ([]domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
	GetOrderDetails(ctx context.Context, orderID int) (*domain.OrderDetails, error)
	PlatformBalance(ctx context.Context) (decimal.Decimal, error)
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
}

type LedgerTx interface {
	RestaurantExists(ctx context.Context, restaurantID int) (bool, error)
	MenuItemsByID(ctx context.Context, restaurantID int, ids []int) (map[int]domain.MenuItem, error)
	LockCustomer(ctx context.Context, customerID int) (*domain.Customer, error)
	AdjustCustomerBalance(ctx context.Context, customerID int, delta decimal.Decimal) error
	AdjustRestaurantBalance(ctx context.Context, restaurantID int, delta decimal.Decimal) error
	CreditPlatform(ctx context.Context, amount decimal.Decimal) error
	InsertOrder(ctx context.Context, order *domain.Order) error
	LockOrder(ctx context.Context, orderID int) (*domain.Order, error)
	UpdateOrderSettlement(ctx context.Context, order *domain.Order) error
}

type OrderNotifier interface {
	PublishNewOrder(ctx context.Context, event domain.OrderEvent) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type AccountServiceInterface interface {
	RegisterCustomer(ctx context.Context, req CustomerRegistration) (*domain.Customer, error)
	RegisterRestaurant(ctx context.Context, req RestaurantRegistration) (*domain.Restaurant, error)
	LoginCustomer(ctx context.Context, creds Credentials) (*domain.Customer, error)
	LoginRestaurant(ctx context.Context, creds Credentials) (*domain.Restaurant, error)
	Customer(ctx context.Context, id int) (*domain.Customer, error)
	Restaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id int, req RestaurantUpdate) (*domain.Restaurant, error)
}

type CatalogServiceInterface interface {
	Menu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	AvailableMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	AddItem(ctx context.Context, restaurantID int, req MenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, restaurantID, itemID int, req MenuItemInput) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, restaurantID, itemID int) (softDeleted bool, err error)
	SetItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) (*domain.MenuItem, error)
}

type SettingsServiceInterface interface {
	OpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error)
	AddOpeningHour(ctx context.Context, restaurantID int, req OpeningHourInput) (*domain.OpeningHour, error)
	ReplaceOpeningHours(ctx context.Context, restaurantID int, req OpeningHoursBatch) error
	DeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error)
	AddDeliveryArea(ctx context.Context, restaurantID int, req DeliveryAreaInput) (*domain.DeliveryArea, error)
	DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error
	Nearby(ctx context.Context, customerID int, openNow bool) ([]domain.Restaurant, error)
}

type LedgerServiceInterface interface {
	PlaceOrder(ctx context.Context, customerID int, req PlaceOrderRequest) (*domain.Order, error)
	AcceptOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	RejectOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	CompleteOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	RestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error)
	CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error)
	RestaurantOrder(ctx context.Context, restaurantID, orderID int) (*domain.OrderDetails, error)
	CustomerOrder(ctx context.Context, customerID, orderID int) (*domain.OrderDetails, error)
	ReceiptQRCode(ctx context.Context, customerID, orderID int) ([]byte, error)
	PlatformBalance(ctx context.Context) (decimal.Decimal, error)
}
