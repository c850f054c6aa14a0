package mocks

import (
	"context"
	"net/http"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"
	"food-marketplace/pkg/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type AccountServiceInterface struct {
	mock.Mock
}

func NewAccountServiceInterface(t testingT) *AccountServiceInterface {
	m := &AccountServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *AccountServiceInterface) RegisterCustomer(ctx context.Context, req service.CustomerRegistration) (*domain.Customer, error) {
	ret := m.Called(ctx, req)
	return get[*domain.Customer](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) RegisterRestaurant(ctx context.Context, req service.RestaurantRegistration) (*domain.Restaurant, error) {
	ret := m.Called(ctx, req)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) LoginCustomer(ctx context.Context, creds service.Credentials) (*domain.Customer, error) {
	ret := m.Called(ctx, creds)
	return get[*domain.Customer](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) LoginRestaurant(ctx context.Context, creds service.Credentials) (*domain.Restaurant, error) {
	ret := m.Called(ctx, creds)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) Customer(ctx context.Context, id int) (*domain.Customer, error) {
	ret := m.Called(ctx, id)
	return get[*domain.Customer](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) Restaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := m.Called(ctx, id)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

func (m *AccountServiceInterface) UpdateRestaurant(ctx context.Context, id int, req service.RestaurantUpdate) (*domain.Restaurant, error) {
	ret := m.Called(ctx, id, req)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

type CatalogServiceInterface struct {
	mock.Mock
}

func NewCatalogServiceInterface(t testingT) *CatalogServiceInterface {
	m := &CatalogServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *CatalogServiceInterface) Menu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogServiceInterface) AvailableMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogServiceInterface) AddItem(ctx context.Context, restaurantID int, req service.MenuItemInput) (*domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID, req)
	return get[*domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogServiceInterface) UpdateItem(ctx context.Context, restaurantID, itemID int, req service.MenuItemInput) (*domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID, itemID, req)
	return get[*domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogServiceInterface) DeleteItem(ctx context.Context, restaurantID, itemID int) (bool, error) {
	ret := m.Called(ctx, restaurantID, itemID)
	return ret.Bool(0), ret.Error(1)
}

func (m *CatalogServiceInterface) SetItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) (*domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID, itemID, imageURL)
	return get[*domain.MenuItem](ret, 0), ret.Error(1)
}

type SettingsServiceInterface struct {
	mock.Mock
}

func NewSettingsServiceInterface(t testingT) *SettingsServiceInterface {
	m := &SettingsServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *SettingsServiceInterface) OpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.OpeningHour](ret, 0), ret.Error(1)
}

func (m *SettingsServiceInterface) AddOpeningHour(ctx context.Context, restaurantID int, req service.OpeningHourInput) (*domain.OpeningHour, error) {
	ret := m.Called(ctx, restaurantID, req)
	return get[*domain.OpeningHour](ret, 0), ret.Error(1)
}

func (m *SettingsServiceInterface) ReplaceOpeningHours(ctx context.Context, restaurantID int, req service.OpeningHoursBatch) error {
	return m.Called(ctx, restaurantID, req).Error(0)
}

func (m *SettingsServiceInterface) DeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.DeliveryArea](ret, 0), ret.Error(1)
}

func (m *SettingsServiceInterface) AddDeliveryArea(ctx context.Context, restaurantID int, req service.DeliveryAreaInput) (*domain.DeliveryArea, error) {
	ret := m.Called(ctx, restaurantID, req)
	return get[*domain.DeliveryArea](ret, 0), ret.Error(1)
}

func (m *SettingsServiceInterface) DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error {
	return m.Called(ctx, restaurantID, areaID).Error(0)
}

func (m *SettingsServiceInterface) Nearby(ctx context.Context, customerID int, openNow bool) ([]domain.Restaurant, error) {
	ret := m.Called(ctx, customerID, openNow)
	return get[[]domain.Restaurant](ret, 0), ret.Error(1)
}

type LedgerServiceInterface struct {
	mock.Mock
}

func NewLedgerServiceInterface(t testingT) *LedgerServiceInterface {
	m := &LedgerServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *LedgerServiceInterface) PlaceOrder(ctx context.Context, customerID int, req service.PlaceOrderRequest) (*domain.Order, error) {
	ret := m.Called(ctx, customerID, req)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) AcceptOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	ret := m.Called(ctx, restaurantID, orderID)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) RejectOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	ret := m.Called(ctx, restaurantID, orderID)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) CompleteOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	ret := m.Called(ctx, restaurantID, orderID)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) RestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	ret := m.Called(ctx, customerID)
	return get[[]domain.Order](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) RestaurantOrder(ctx context.Context, restaurantID, orderID int) (*domain.OrderDetails, error) {
	ret := m.Called(ctx, restaurantID, orderID)
	return get[*domain.OrderDetails](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) CustomerOrder(ctx context.Context, customerID, orderID int) (*domain.OrderDetails, error) {
	ret := m.Called(ctx, customerID, orderID)
	return get[*domain.OrderDetails](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) ReceiptQRCode(ctx context.Context, customerID, orderID int) ([]byte, error) {
	ret := m.Called(ctx, customerID, orderID)
	return get[[]byte](ret, 0), ret.Error(1)
}

func (m *LedgerServiceInterface) PlatformBalance(ctx context.Context) (decimal.Decimal, error) {
	ret := m.Called(ctx)
	return get[decimal.Decimal](ret, 0), ret.Error(1)
}

type SessionManager struct {
	mock.Mock
}

func NewSessionManager(t testingT) *SessionManager {
	m := &SessionManager{}
	register(&m.Mock, t)
	return m
}

func (m *SessionManager) Start(ctx context.Context, w http.ResponseWriter, id session.Identity) error {
	return m.Called(ctx, w, id).Error(0)
}

func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) error {
	return m.Called(w, r).Error(0)
}
