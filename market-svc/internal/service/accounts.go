package service

import (
	"context"
	"errors"
	"strings"

	"food-marketplace/market-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type AccountService struct {
	repo   AccountRepository
	hasher PasswordHasher
}

func NewAccountService(repo AccountRepository, hasher PasswordHasher) *AccountService {
	return &AccountService{repo: repo, hasher: hasher}
}

var _ AccountServiceInterface = (*AccountService)(nil)

func (s *AccountService) RegisterCustomer(ctx context.Context, req CustomerRegistration) (*domain.Customer, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Street:       req.Street,
		PostalCode:   strings.TrimSpace(req.PostalCode),
		PasswordHash: hash,
		Balance:      decimal.RequireFromString(domain.CustomerStartingBalance),
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *AccountService) RegisterRestaurant(ctx context.Context, req RestaurantRegistration) (*domain.Restaurant, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	restaurant := &domain.Restaurant{
		Username:     req.Username,
		Name:         req.Name,
		Street:       req.Street,
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Description:  req.Description,
		PasswordHash: hash,
		Balance:      decimal.RequireFromString(domain.RestaurantStartingBalance),
	}
	if err := s.repo.CreateRestaurant(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *AccountService) LoginCustomer(ctx context.Context, creds Credentials) (*domain.Customer, error) {
	if err := Validate(creds); err != nil {
		return nil, err
	}
	customer, err := s.repo.CustomerByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		return nil, credentialsError(err)
	}
	if err := s.hasher.Compare(customer.PasswordHash, creds.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return customer, nil
}

func (s *AccountService) LoginRestaurant(ctx context.Context, creds Credentials) (*domain.Restaurant, error) {
	if err := Validate(creds); err != nil {
		return nil, err
	}
	restaurant, err := s.repo.RestaurantByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		return nil, credentialsError(err)
	}
	if err := s.hasher.Compare(restaurant.PasswordHash, creds.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return restaurant, nil
}

// credentialsError hides whether the username exists.
func credentialsError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}

func (s *AccountService) Customer(ctx context.Context, id int) (*domain.Customer, error) {
	if id <= 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *AccountService) Restaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	if id <= 0 {
		return nil, notFound("restaurant")
	}
	return s.repo.GetRestaurant(ctx, id)
}

func (s *AccountService) UpdateRestaurant(ctx context.Context, id int, req RestaurantUpdate) (*domain.Restaurant, error) {
	if id <= 0 {
		return nil, ErrUnauthorized
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	restaurant, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Street != nil {
		restaurant.Street = *req.Street
	}
	if req.PostalCode != nil {
		restaurant.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.ImageURL != nil {
		restaurant.ImageURL = *req.ImageURL
	}

	if err := s.repo.UpdateRestaurant(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}
