package service

import (
	"context"

	"food-marketplace/market-svc/internal/domain"
)

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

var _ CatalogServiceInterface = (*CatalogService)(nil)

func (s *CatalogService) Menu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, restaurantID, false)
}

func (s *CatalogService) AvailableMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, restaurantID, true)
}

func (s *CatalogService) AddItem(ctx context.Context, restaurantID int, req MenuItemInput) (*domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	if err := validateMenuItem(req); err != nil {
		return nil, err
	}

	item := menuItemFrom(req)
	item.RestaurantID = restaurantID
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, restaurantID, itemID int, req MenuItemInput) (*domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	if err := validateMenuItem(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}

	item := menuItemFrom(req)
	item.ID = existing.ID
	item.RestaurantID = restaurantID
	if req.IsAvailable == nil {
		item.IsAvailable = existing.IsAvailable
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a menu item. Items referenced by past orders are only
// marked unavailable so order history keeps its names.
func (s *CatalogService) DeleteItem(ctx context.Context, restaurantID, itemID int) (bool, error) {
	if restaurantID <= 0 {
		return false, ErrUnauthorized
	}
	return s.repo.DeleteMenuItem(ctx, restaurantID, itemID)
}

func (s *CatalogService) SetItemImage(ctx context.Context, restaurantID, itemID int, imageURL string) (*domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, ErrUnauthorized
	}
	item, err := s.repo.GetMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func validateMenuItem(req MenuItemInput) error {
	if err := Validate(req); err != nil {
		return err
	}
	return checkMoney("price", req.Price)
}

func menuItemFrom(req MenuItemInput) *domain.MenuItem {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: available,
	}
}
