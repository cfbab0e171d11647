package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rabelani-cakes/internal/domain"
)

var (
	ErrSpecialNotFound = errors.New("featured special not found")
)

// SpecialRepository defines the interface for the featured special singleton
type SpecialRepository interface {
	Find(ctx context.Context, key string) (*domain.FeaturedSpecial, error)
	Upsert(ctx context.Context, special *domain.FeaturedSpecial) error
}

type specialRepository struct {
	db *sql.DB
}

// NewSpecialRepository creates a new instance of SpecialRepository
func NewSpecialRepository(db *sql.DB) SpecialRepository {
	return &specialRepository{db: db}
}

// Find retrieves the special stored under the given key
func (r *specialRepository) Find(ctx context.Context, key string) (*domain.FeaturedSpecial, error) {
	query := `
		SELECT key, title_line1, title_line2, description, original_price, sale_price, image_url, updated_at
		FROM specials
		WHERE key = $1
	`

	special := &domain.FeaturedSpecial{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&special.Key,
		&special.TitleLine1,
		&special.TitleLine2,
		&special.Description,
		&special.OriginalPrice,
		&special.SalePrice,
		&special.ImageURL,
		&special.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSpecialNotFound
		}
		return nil, fmt.Errorf("failed to find special: %w", err)
	}

	return special, nil
}

// Upsert writes the whole special record, creating it if absent
func (r *specialRepository) Upsert(ctx context.Context, special *domain.FeaturedSpecial) error {
	query := `
		INSERT INTO specials (key, title_line1, title_line2, description, original_price, sale_price, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (key) DO UPDATE SET
			title_line1 = EXCLUDED.title_line1,
			title_line2 = EXCLUDED.title_line2,
			description = EXCLUDED.description,
			original_price = EXCLUDED.original_price,
			sale_price = EXCLUDED.sale_price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		special.Key,
		special.TitleLine1,
		special.TitleLine2,
		special.Description,
		special.OriginalPrice,
		special.SalePrice,
		special.ImageURL,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert special: %w", err)
	}

	return nil
}
