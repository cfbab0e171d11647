package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Orders only move between the two; they are never deleted.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCompleted = "completed"
)

// Customer holds the shipping details captured at checkout
type Customer struct {
	FullName     string `json:"full_name" db:"full_name"`
	Phone        string `json:"phone" db:"phone"`
	AddressLine1 string `json:"address_line1" db:"address_line1"`
	AddressLine2 string `json:"address_line2" db:"address_line2"`
	City         string `json:"city" db:"city"`
	PostalCode   string `json:"postal_code" db:"postal_code"`
	Notes        string `json:"notes" db:"notes"`
}

// OrderItem is a snapshot of a cart line frozen at checkout time
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Category  string    `json:"category" db:"category"`
	Position  int       `json:"position" db:"position"`
}

// Order represents a placed order with its line items and customer details
type Order struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	OrderNumber string       `json:"order_number" db:"order_number"`
	Items       []*OrderItem `json:"items"`
	Total       float64      `json:"total" db:"total"`
	Status      string       `json:"status" db:"status"`
	Customer    Customer     `json:"customer"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}
