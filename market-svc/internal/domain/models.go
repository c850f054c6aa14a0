package domain

import "github.com/shopspring/decimal"

const (
	CustomerStartingBalance   = "100.00"
	RestaurantStartingBalance = "0.00"
)

type Customer struct {
	ID           int
	Username     string
	FirstName    string
	LastName     string
	Street       string
	PostalCode   string
	PasswordHash string
	Balance      decimal.Decimal
}

func (c Customer) Address() string {
	return c.Street + ", " + c.PostalCode
}

type Restaurant struct {
	ID           int
	Username     string
	Name         string
	Street       string
	PostalCode   string
	Description  string
	ImageURL     string
	PasswordHash string
	Balance      decimal.Decimal
}

type MenuItem struct {
	ID           int
	RestaurantID int
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	ImageURL     string
	IsAvailable  bool
}

type DeliveryArea struct {
	ID           int
	RestaurantID int
	PostalCode   string
}

type ActionLog struct {
	Action      string
	Description string
}
