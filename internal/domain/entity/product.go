package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product a catalog item. Identity for feed reconciliation is SKU or (Name, BrandID).
// IsActive=false is a soft delete; such rows are hidden from the public catalog.
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal // never negative
	CategoryID     *string
	BrandID        *string
	SKU            string // empty when the feed carries no article
	StockQuantity  int
	Specifications json.RawMessage // JSON object
	ImageURL       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductView a product joined with its category and brand for read endpoints.
type ProductView struct {
	Product
	CategoryName        *string
	CategoryDescription *string
	BrandName           *string
	BrandDescription    *string
	BrandLogo           *string
}
