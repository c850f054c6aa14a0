package service

import "github.com/shopspring/decimal"

type OrderLine struct {
	MenuItemID int              `json:"id" validate:"required,gt=0"`
	Quantity   int              `json:"quantity" validate:"required,gte=1,lte=100"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

// PlaceOrderRequest is the customer's basket. Item prices and the total are
// advisory: the order is priced from the catalog and a disagreeing total is
// rejected.
type PlaceOrderRequest struct {
	RestaurantID int              `json:"restaurant_id" validate:"required,gt=0"`
	Items        []OrderLine      `json:"items" validate:"required,min=1,dive"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	Notes        string           `json:"notes" validate:"max=1000"`
}

type CustomerRegistration struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Street     string `json:"street" validate:"required,max=200"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
}

type RestaurantRegistration struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Name        string `json:"name" validate:"required,max=100"`
	Street      string `json:"street" validate:"required,max=200"`
	PostalCode  string `json:"postalCode" validate:"required,max=20"`
	Description string `json:"description" validate:"max=2000"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RestaurantUpdate is a partial profile update; nil fields are left alone.
type RestaurantUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Street      *string `json:"street" validate:"omitempty,min=1,max=200"`
	PostalCode  *string `json:"postalCode" validate:"omitempty,min=1,max=20"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=500"`
}

type MenuItemInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"required,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=50"`
	ImageURL    string          `json:"image_url" validate:"max=500"`
	IsAvailable *bool           `json:"is_available"`
}

type OpeningHourInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	OpenTime  string `json:"open_time" validate:"required,clock"`
	CloseTime string `json:"close_time" validate:"required,clock"`
}

type OpeningHoursBatch struct {
	Hours []OpeningHourInput `json:"opening_hours" validate:"dive"`
}

type DeliveryAreaInput struct {
	PostalCode string `json:"postal_code" validate:"required,max=20"`
}
