package service

import (
	"context"
	"strings"
	"time"

	"food-marketplace/market-svc/internal/domain"
)

type SettingsService struct {
	repo     SettingsRepository
	accounts AccountRepository
	now      func() time.Time
}

func NewSettingsService(repo SettingsRepository, accounts AccountRepository) *SettingsService {
	return &SettingsService{repo: repo, accounts: accounts, now: time.Now}
}

// WithClock overrides the time source used by the open-now filter.
func (s *SettingsService) WithClock(now func() time.Time) *SettingsService {
	s.now = now
	return s
}

var _ SettingsServiceInterface = (*SettingsService)(nil)

func (s *SettingsService) OpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.ListOpeningHours(ctx, restaurantID)
}

func (s *SettingsService) AddOpeningHour(ctx context.Context, restaurantID int, req OpeningHourInput) (*domain.OpeningHour, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	hour := openingHourFrom(restaurantID, req)
	if err := s.repo.AddOpeningHour(ctx, &hour); err != nil {
		return nil, err
	}
	return &hour, nil
}

// ReplaceOpeningHours swaps the whole weekly schedule atomically.
func (s *SettingsService) ReplaceOpeningHours(ctx context.Context, restaurantID int, req OpeningHoursBatch) error {
	if restaurantID <= 0 {
		return ErrUnauthorized
	}
	if err := Validate(req); err != nil {
		return err
	}

	hours := make([]domain.OpeningHour, 0, len(req.Hours))
	for _, h := range req.Hours {
		hours = append(hours, openingHourFrom(restaurantID, h))
	}
	return s.repo.ReplaceOpeningHours(ctx, restaurantID, hours)
}

func openingHourFrom(restaurantID int, req OpeningHourInput) domain.OpeningHour {
	return domain.OpeningHour{
		RestaurantID: restaurantID,
		DayOfWeek:    req.DayOfWeek,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
	}
}

func (s *SettingsService) DeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.ListDeliveryAreas(ctx, restaurantID)
}

func (s *SettingsService) AddDeliveryArea(ctx context.Context, restaurantID int, req DeliveryAreaInput) (*domain.DeliveryArea, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if err := Validate(req); err != nil {
		return nil, err
	}

	area := &domain.DeliveryArea{RestaurantID: restaurantID, PostalCode: req.PostalCode}
	if err := s.repo.AddDeliveryArea(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

func (s *SettingsService) DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error {
	if restaurantID <= 0 {
		return ErrUnauthorized
	}
	return s.repo.DeleteDeliveryArea(ctx, restaurantID, areaID)
}

// Nearby lists restaurants located in, or delivering to, the customer's
// postal code. With openNow only those currently inside an opening window
// are kept.
func (s *SettingsService) Nearby(ctx context.Context, customerID int, openNow bool) ([]domain.Restaurant, error) {
	if customerID <= 0 {
		return nil, ErrUnauthorized
	}
	customer, err := s.accounts.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	restaurants, err := s.repo.RestaurantsServing(ctx, customer.PostalCode)
	if err != nil || !openNow {
		return restaurants, err
	}

	now := s.now()
	open := restaurants[:0]
	for _, r := range restaurants {
		hours, err := s.repo.ListOpeningHours(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if domain.IsOpen(hours, now) {
			open = append(open, r)
		}
	}
	return open, nil
}
