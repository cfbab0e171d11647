package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rabelani-cakes/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNumberCollision = errors.New("order number already exists")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order and its line items in one transaction.
// CreatedAt is server-assigned by the database default.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, order_number, total, status, full_name, phone,
			address_line1, address_line2, city, postal_code, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		order.ID,
		order.UserID,
		order.OrderNumber,
		order.Total,
		order.Status,
		order.Customer.FullName,
		order.Customer.Phone,
		order.Customer.AddressLine1,
		order.Customer.AddressLine2,
		order.Customer.City,
		order.Customer.PostalCode,
		order.Customer.Notes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		// Unique constraint violation on order_number (SQLSTATE 23505)
		if strings.Contains(err.Error(), "orders_order_number_key") {
			return ErrOrderNumberCollision
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, image_url, price, quantity, category, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for position, item := range order.Items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			id,
			order.ID,
			item.ProductID,
			item.Name,
			item.ImageURL,
			item.Price,
			item.Quantity,
			item.Category,
			position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a single order with its items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, order_number, total, status, full_name, phone,
			address_line1, address_line2, city, postal_code, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Total,
		&order.Status,
		&order.Customer.FullName,
		&order.Customer.Phone,
		&order.Customer.AddressLine1,
		&order.Customer.AddressLine2,
		&order.Customer.City,
		&order.Customer.PostalCode,
		&order.Customer.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.listItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []*domain.OrderItem{}
	}

	return order, nil
}

// ListByUser retrieves a user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, order_number, total, status, full_name, phone,
			address_line1, address_line2, city, postal_code, notes, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.queryOrders(ctx, query, userID)
}

// ListAll retrieves every order, newest first
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, order_number, total, status, full_name, phone,
			address_line1, address_line2, city, postal_code, notes, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`

	return r.queryOrders(ctx, query)
}

// UpdateStatus sets an order's status; items and customer details are untouched
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Total,
			&order.Status,
			&order.Customer.FullName,
			&order.Customer.Phone,
			&order.Customer.AddressLine1,
			&order.Customer.AddressLine2,
			&order.Customer.City,
			&order.Customer.PostalCode,
			&order.Customer.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		order.Items = itemsByOrder[order.ID]
		if order.Items == nil {
			order.Items = []*domain.OrderItem{}
		}
	}

	return orders, nil
}

func (r *orderRepository) listItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*domain.OrderItem, error) {
	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, product_id, name, image_url, price, quantity, category, position
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY order_id, position ASC
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := map[uuid.UUID][]*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.ImageURL,
			&item.Price,
			&item.Quantity,
			&item.Category,
			&item.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}
