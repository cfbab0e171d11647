package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rabelani-cakes/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	ReplaceForCategory(ctx context.Context, categoryID uuid.UUID, products []*domain.Product) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product at the front of its category list.
// Existing positions are shifted so the newest product displays first.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET position = position + 1 WHERE category_id = $1`,
		product.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to shift product positions: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, category_id, image_url, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.category_id, c.name, p.image_url, p.position, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.Category,
		&product.ImageURL,
		&product.Position,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListByCategory retrieves the ordered product list for a category
func (r *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.category_id, c.name, p.image_url, p.position, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1
		ORDER BY p.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.CategoryID,
			&product.Category,
			&product.ImageURL,
			&product.Position,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ReplaceForCategory overwrites the entire product list of a category in
// one transaction. The admin editor persists whole lists, not patches, so
// creation times of surviving rows are carried over from the old list.
func (r *productRepository) ReplaceForCategory(ctx context.Context, categoryID uuid.UUID, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt, err := creationTimes(ctx, tx, categoryID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to clear category products: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, category_id, image_url, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	for position, product := range products {
		id := product.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		created := product.CreatedAt
		if created.IsZero() {
			if prev, ok := createdAt[id]; ok {
				created = prev
			} else {
				created = now
			}
		}
		_, err = tx.ExecContext(
			ctx,
			query,
			id,
			product.Name,
			product.Description,
			product.Price,
			categoryID,
			product.ImageURL,
			position,
			created,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %q: %w", product.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func creationTimes(ctx context.Context, tx *sql.Tx, categoryID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, created_at FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product creation times: %w", err)
	}
	defer rows.Close()

	times := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var id uuid.UUID
		var created time.Time
		if err := rows.Scan(&id, &created); err != nil {
			return nil, fmt.Errorf("failed to scan product creation time: %w", err)
		}
		times[id] = created
	}
	return times, rows.Err()
}
