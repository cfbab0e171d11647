package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product represents a cake or cupcake in the catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	Category    string    `json:"category" db:"category"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Category represents a product category with its cover image
type Category struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	CoverImageURL string    `json:"cover_image_url" db:"cover_image_url"`
	Position      int       `json:"position" db:"position"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slugify derives the store path segment for a category display name:
// lower-cased, whitespace runs collapsed to single hyphens.
// "Wedding Cakes" -> "wedding-cakes".
func Slugify(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
