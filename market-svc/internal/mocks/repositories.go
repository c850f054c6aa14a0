package mocks

import (
	"context"

	"food-marketplace/market-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AccountRepository struct {
	mock.Mock
}

func NewAccountRepository(t testingT) *AccountRepository {
	m := &AccountRepository{}
	register(&m.Mock, t)
	return m
}

func (m *AccountRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *AccountRepository) CreateRestaurant(ctx context.Context, r *domain.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *AccountRepository) CustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	ret := m.Called(ctx, username)
	return get[*domain.Customer](ret, 0), ret.Error(1)
}

func (m *AccountRepository) RestaurantByUsername(ctx context.Context, username string) (*domain.Restaurant, error) {
	ret := m.Called(ctx, username)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

func (m *AccountRepository) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	ret := m.Called(ctx, id)
	return get[*domain.Customer](ret, 0), ret.Error(1)
}

func (m *AccountRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	ret := m.Called(ctx, id)
	return get[*domain.Restaurant](ret, 0), ret.Error(1)
}

func (m *AccountRepository) UpdateRestaurant(ctx context.Context, r *domain.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t testingT) *CatalogRepository {
	m := &CatalogRepository{}
	register(&m.Mock, t)
	return m
}

func (m *CatalogRepository) ListMenuItems(ctx context.Context, restaurantID int, availableOnly bool) ([]domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID, availableOnly)
	return get[[]domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogRepository) GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error) {
	ret := m.Called(ctx, restaurantID, itemID)
	return get[*domain.MenuItem](ret, 0), ret.Error(1)
}

func (m *CatalogRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *CatalogRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *CatalogRepository) DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (bool, error) {
	ret := m.Called(ctx, restaurantID, itemID)
	return ret.Bool(0), ret.Error(1)
}

type SettingsRepository struct {
	mock.Mock
}

func NewSettingsRepository(t testingT) *SettingsRepository {
	m := &SettingsRepository{}
	register(&m.Mock, t)
	return m
}

func (m *SettingsRepository) ListOpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.OpeningHour](ret, 0), ret.Error(1)
}

func (m *SettingsRepository) AddOpeningHour(ctx context.Context, hour *domain.OpeningHour) error {
	return m.Called(ctx, hour).Error(0)
}

func (m *SettingsRepository) ReplaceOpeningHours(ctx context.Context, restaurantID int, hours []domain.OpeningHour) error {
	return m.Called(ctx, restaurantID, hours).Error(0)
}

func (m *SettingsRepository) ListDeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error) {
	ret := m.Called(ctx, restaurantID)
	return get[[]domain.DeliveryArea](ret, 0), ret.Error(1)
}

func (m *SettingsRepository) AddDeliveryArea(ctx context.Context, area *domain.DeliveryArea) error {
	return m.Called(ctx, area).Error(0)
}

func (m *SettingsRepository) DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error {
	return m.Called(ctx, restaurantID, areaID).Error(0)
}

func (m *SettingsRepository) RestaurantsServing(ctx context.Context, postalCode string) ([]domain.Restaurant, error) {
	ret := m.Called(ctx, postalCode)
	return get[[]domain.Restaurant](ret, 0), ret.Error(1)
}

type OrderNotifier struct {
	mock.Mock
}

func NewOrderNotifier(t testingT) *OrderNotifier {
	m := &OrderNotifier{}
	register(&m.Mock, t)
	return m
}

func (m *OrderNotifier) PublishNewOrder(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	register(&m.Mock, t)
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	return get[[]byte](ret, 0), ret.Error(1)
}
