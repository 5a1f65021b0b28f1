package types

import (
	"errors"
	"time"
)

// ErrNegativeQuantity is returned when a quantity update would drop a
// product's stock below zero.
var ErrNegativeQuantity = errors.New("Quantity cannot be negative")

// Stock status labels derived from a product's quantity. The boundaries
// (0, 1-10, >10) are a fixed contract shared with API consumers.
const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

const lowStockThreshold = 10

// Product represents a catalog item tracked by the inventory system.
type Product struct {
	// ID is the unique identifier of the product.
	ID int `json:"id" db:"id"`

	// Name is the human-readable product name, at most 100 characters.
	Name string `json:"name" db:"name"`

	// Type is the product category, at most 50 characters.
	Type string `json:"type" db:"type"`

	// SKU is the stock keeping unit, unique across all products,
	// between 3 and 50 characters.
	SKU string `json:"sku" db:"sku"`

	// ImageURL optionally points at a product image. The URL is supplied
	// by the client and stored verbatim.
	ImageURL string `json:"imageUrl,omitempty" db:"image_url"`

	// Description optionally carries free-form product details.
	Description string `json:"description,omitempty" db:"description"`

	// Quantity is the units currently in stock. Never negative.
	Quantity int `json:"quantity" db:"quantity"`

	// Price is the unit price. Never negative, stored with two decimal
	// places of precision.
	Price float64 `json:"price" db:"price"`

	// CreatedAt is the timestamp at which the product was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the product.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UpdateQuantity sets the stock level and refreshes UpdatedAt. Quantity is
// the only product field that changes after creation.
func (p *Product) UpdateQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// StockStatus classifies the product's quantity into the fixed stock bands.
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity == 0:
		return StockStatusOut
	case p.Quantity <= lowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	// Products holds the page's items, newest first.
	Products []Product `json:"products"`

	// Total is the number of products across all pages.
	Total int `json:"total"`

	// Page is the 1-based page number this page corresponds to.
	Page int `json:"page"`

	// Limit is the page size used for the query.
	Limit int `json:"limit"`

	// TotalPages is ceil(Total / Limit).
	TotalPages int `json:"totalPages"`
}
