package domain

import "time"

// FeaturedSpecialKey is the key of the singleton featured record
const FeaturedSpecialKey = "featured"

// FeaturedSpecial is the singleton record behind the homepage feature banner
type FeaturedSpecial struct {
	Key           string    `json:"-" db:"key"`
	TitleLine1    string    `json:"title_line1" db:"title_line1"`
	TitleLine2    string    `json:"title_line2" db:"title_line2"`
	Description   string    `json:"description" db:"description"`
	OriginalPrice float64   `json:"original_price" db:"original_price"`
	SalePrice     float64   `json:"sale_price" db:"sale_price"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultFeaturedSpecial returns the house special shown when nothing has
// been configured yet. Missing fields on a stored record fall back to these
// values as well.
func DefaultFeaturedSpecial() *FeaturedSpecial {
	return &FeaturedSpecial{
		Key:        FeaturedSpecialKey,
		TitleLine1: "The Rabelani",
		TitleLine2: "Signature Truffle",
		Description: "Three layers of decadent dark Belgian chocolate sponge, filled with ganache " +
			"and topped with hand-crafted truffles. The ultimate indulgence for serious chocolate lovers.",
		OriginalPrice: 45.0,
		SalePrice:     38.5,
		ImageURL:      "https://images.unsplash.com/photo-1578985545062-69928b1d9587?auto=format&fit=crop&q=80&w=1000",
	}
}
