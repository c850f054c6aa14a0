package service

import (
	"errors"
	"fmt"

	"food-marketplace/market-svc/internal/domain"
)

var (
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidTransition   = domain.ErrInvalidTransition
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
