package httpapi

import (
	"encoding/json"
	"time"

	"food-marketplace/market-svc/internal/domain"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type orderItemView struct {
	MenuItemID   int         `json:"menu_item_id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	PriceAtOrder json.Number `json:"price_at_order"`
}

type orderView struct {
	ID               int             `json:"id"`
	CustomerID       int             `json:"customer_id"`
	RestaurantID     int             `json:"restaurant_id"`
	Status           string          `json:"status"`
	TotalAmount      json.Number     `json:"total_amount"`
	PlatformFee      json.Number     `json:"platform_fee"`
	RestaurantAmount json.Number     `json:"restaurant_amount"`
	Notes            string          `json:"notes"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
	Items            []orderItemView `json:"items"`
}

type customerSummaryView struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

type orderDetailsView struct {
	orderView
	Customer customerSummaryView `json:"customer"`
}

func presentOrder(o domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemView{
			MenuItemID:   item.MenuItemID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			PriceAtOrder: money(item.PriceAtOrder),
		})
	}
	return orderView{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		RestaurantID:     o.RestaurantID,
		Status:           string(o.Status),
		TotalAmount:      money(o.TotalAmount),
		PlatformFee:      money(o.PlatformFee),
		RestaurantAmount: money(o.RestaurantAmount),
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.UTC().Format(time.RFC3339),
		Items:            items,
	}
}

func presentOrders(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, presentOrder(o))
	}
	return views
}

func presentOrderDetails(d *domain.OrderDetails) orderDetailsView {
	return orderDetailsView{
		orderView: presentOrder(d.Order),
		Customer: customerSummaryView{
			FirstName: d.Customer.FirstName,
			LastName:  d.Customer.LastName,
			Address:   d.Customer.Address(),
		},
	}
}

type restaurantView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	PostalCode  string `json:"postal_code"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func presentRestaurant(r domain.Restaurant) restaurantView {
	return restaurantView{
		ID:          r.ID,
		Name:        r.Name,
		Street:      r.Street,
		PostalCode:  r.PostalCode,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

func presentRestaurants(restaurants []domain.Restaurant) []restaurantView {
	views := make([]restaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		views = append(views, presentRestaurant(r))
	}
	return views
}

type menuItemView struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url"`
	IsAvailable bool        `json:"is_available"`
}

func presentMenuItem(item domain.MenuItem) menuItemView {
	return menuItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       money(item.Price),
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		IsAvailable: item.IsAvailable,
	}
}

func presentMenu(items []domain.MenuItem) []menuItemView {
	views := make([]menuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, presentMenuItem(item))
	}
	return views
}

type openingHourView struct {
	ID        int    `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func presentOpeningHours(hours []domain.OpeningHour) []openingHourView {
	views := make([]openingHourView, 0, len(hours))
	for _, h := range hours {
		views = append(views, openingHourView{ID: h.ID, DayOfWeek: h.DayOfWeek, OpenTime: h.OpenTime, CloseTime: h.CloseTime})
	}
	return views
}

type deliveryAreaView struct {
	ID         int    `json:"id"`
	PostalCode string `json:"postal_code"`
}

func presentDeliveryAreas(areas []domain.DeliveryArea) []deliveryAreaView {
	views := make([]deliveryAreaView, 0, len(areas))
	for _, a := range areas {
		views = append(views, deliveryAreaView{ID: a.ID, PostalCode: a.PostalCode})
	}
	return views
}
