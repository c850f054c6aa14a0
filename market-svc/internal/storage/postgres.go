package storage

import (
	"context"
	"database/sql"
	"fmt"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var (
	_ service.AccountRepository  = (*PostgresRepository)(nil)
	_ service.CatalogRepository  = (*PostgresRepository)(nil)
	_ service.SettingsRepository = (*PostgresRepository)(nil)
)

func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func logAction(ctx context.Context, tx *sql.Tx, action, description string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO action_logs (action, description) VALUES ($1, $2)", action, description)
	return err
}

func (r *PostgresRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO customers (username, first_name, last_name, street, postal_code, password_hash, balance)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			c.Username, c.FirstName, c.LastName, c.Street, c.PostalCode, c.PasswordHash, c.Balance,
		).Scan(&c.ID)
		if err != nil {
			if pqCode(err) == uniqueViolation {
				return service.ErrDuplicateUsername
			}
			return err
		}
		return logAction(ctx, tx, "customer_registered", fmt.Sprintf("Customer %s registered", c.Username))
	})
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO restaurants (username, name, street, postal_code, description, password_hash, balance)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			rest.Username, rest.Name, rest.Street, rest.PostalCode, rest.Description, rest.PasswordHash, rest.Balance,
		).Scan(&rest.ID)
		if err != nil {
			if pqCode(err) == uniqueViolation {
				return service.ErrDuplicateUsername
			}
			return err
		}
		return logAction(ctx, tx, "restaurant_registered", fmt.Sprintf("Restaurant %s registered", rest.Username))
	})
}

const customerColumns = "id, username, first_name, last_name, street, postal_code, password_hash, balance"

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Street, &c.PostalCode, &c.PasswordHash, &c.Balance)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

const restaurantColumns = "id, username, name, street, postal_code, COALESCE(description, ''), COALESCE(image_url, ''), password_hash, balance"

func scanRestaurant(row interface{ Scan(...any) error }) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(&rest.ID, &rest.Username, &rest.Name, &rest.Street, &rest.PostalCode,
		&rest.Description, &rest.ImageURL, &rest.PasswordHash, &rest.Balance)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}
	return &rest, nil
}

func (r *PostgresRepository) CustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE username = $1", username))
}

func (r *PostgresRepository) RestaurantByUsername(ctx context.Context, username string) (*domain.Restaurant, error) {
	return scanRestaurant(r.DB.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE username = $1", username))
}

func (r *PostgresRepository) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	return scanRestaurant(r.DB.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id))
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE restaurants
		SET name = $1, street = $2, postal_code = $3, description = $4, image_url = $5
		WHERE id = $6`,
		rest.Name, rest.Street, rest.PostalCode, rest.Description, rest.ImageURL, rest.ID)
	if err != nil {
		return err
	}
	return expectOne(res, "restaurant")
}

const menuItemColumns = "id, restaurant_id, name, description, price, category, COALESCE(image_url, ''), is_available"

func scanMenuItem(row interface{ Scan(...any) error }) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.ImageURL, &item.IsAvailable)
	if err != nil {
		return nil, notFound(err, "menu item")
	}
	return &item, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, restaurantID int, availableOnly bool) ([]domain.MenuItem, error) {
	query := "SELECT " + menuItemColumns + " FROM menu_items WHERE restaurant_id = $1"
	if availableOnly {
		query += " AND is_available"
	}
	query += " ORDER BY category, name"

	rows, err := r.DB.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error) {
	return scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id = $1 AND restaurant_id = $2", itemID, restaurantID))
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Category, item.ImageURL, item.IsAvailable,
	).Scan(&item.ID)
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, image_url = $5, is_available = $6
		WHERE id = $7 AND restaurant_id = $8`,
		item.Name, item.Description, item.Price, item.Category, item.ImageURL, item.IsAvailable, item.ID, item.RestaurantID)
	if err != nil {
		return err
	}
	return expectOne(res, "menu item")
}

// DeleteMenuItem hard-deletes an unreferenced item and otherwise marks it
// unavailable, reporting which of the two happened.
func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, restaurantID, itemID int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM menu_items
		WHERE id = $1 AND restaurant_id = $2
		  AND NOT EXISTS (SELECT 1 FROM order_items WHERE menu_item_id = $1)`,
		itemID, restaurantID)
	if err != nil && pqCode(err) != foreignKeyViolation {
		return false, err
	}
	if err == nil {
		if n, err := res.RowsAffected(); err != nil {
			return false, err
		} else if n == 1 {
			return false, nil
		}
	}

	res, err = r.DB.ExecContext(ctx,
		"UPDATE menu_items SET is_available = FALSE WHERE id = $1 AND restaurant_id = $2", itemID, restaurantID)
	if err != nil {
		return false, err
	}
	if err := expectOne(res, "menu item"); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) ListOpeningHours(ctx context.Context, restaurantID int) ([]domain.OpeningHour, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, day_of_week, open_time, close_time
		FROM opening_hours
		WHERE restaurant_id = $1
		ORDER BY day_of_week, open_time`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := []domain.OpeningHour{}
	for rows.Next() {
		var h domain.OpeningHour
		if err := rows.Scan(&h.ID, &h.RestaurantID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

func (r *PostgresRepository) AddOpeningHour(ctx context.Context, hour *domain.OpeningHour) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO opening_hours (restaurant_id, day_of_week, open_time, close_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		hour.RestaurantID, hour.DayOfWeek, hour.OpenTime, hour.CloseTime,
	).Scan(&hour.ID)
}

func (r *PostgresRepository) ReplaceOpeningHours(ctx context.Context, restaurantID int, hours []domain.OpeningHour) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM opening_hours WHERE restaurant_id = $1", restaurantID); err != nil {
			return err
		}
		for i := range hours {
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO opening_hours (restaurant_id, day_of_week, open_time, close_time)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				restaurantID, hours[i].DayOfWeek, hours[i].OpenTime, hours[i].CloseTime,
			).Scan(&hours[i].ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListDeliveryAreas(ctx context.Context, restaurantID int) ([]domain.DeliveryArea, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, postal_code
		FROM delivery_areas
		WHERE restaurant_id = $1
		ORDER BY postal_code`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []domain.DeliveryArea{}
	for rows.Next() {
		var a domain.DeliveryArea
		if err := rows.Scan(&a.ID, &a.RestaurantID, &a.PostalCode); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *PostgresRepository) AddDeliveryArea(ctx context.Context, area *domain.DeliveryArea) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO delivery_areas (restaurant_id, postal_code)
		VALUES ($1, $2)
		RETURNING id`,
		area.RestaurantID, area.PostalCode,
	).Scan(&area.ID)
	if pqCode(err) == uniqueViolation {
		return &service.ValidationError{Field: "postal_code", Message: "Postal code already exists"}
	}
	return err
}

func (r *PostgresRepository) DeleteDeliveryArea(ctx context.Context, restaurantID, areaID int) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM delivery_areas WHERE id = $1 AND restaurant_id = $2", areaID, restaurantID)
	if err != nil {
		return err
	}
	return expectOne(res, "delivery area")
}

func (r *PostgresRepository) RestaurantsServing(ctx context.Context, postalCode string) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.name, r.street, r.postal_code, COALESCE(r.description, ''), COALESCE(r.image_url, '')
		FROM restaurants r
		LEFT JOIN delivery_areas da ON da.restaurant_id = r.id
		WHERE r.postal_code = $1 OR da.postal_code = $1
		ORDER BY r.name, r.id`, postalCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Street, &rest.PostalCode, &rest.Description, &rest.ImageURL); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}
