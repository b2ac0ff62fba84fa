package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest admin product creation.
type CreateProductRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	CategoryID     *string         `json:"category_id"`
	BrandID        *string         `json:"brand_id"`
	SKU            string          `json:"sku"`
	StockQuantity  int             `json:"stock_quantity"`
	Specifications json.RawMessage `json:"specifications"`
	ImageURL       string          `json:"image_url"`
	IsActive       *bool           `json:"is_active"`
}

// UpdateProductRequest partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	CategoryID     *string          `json:"category_id"`
	BrandID        *string          `json:"brand_id"`
	SKU            *string          `json:"sku"`
	StockQuantity  *int             `json:"stock_quantity"`
	Specifications json.RawMessage  `json:"specifications"`
	ImageURL       *string          `json:"image_url"`
	IsActive       *bool            `json:"is_active"`
}

// ProductResponse a product with its category and brand.
type ProductResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               float64         `json:"price"`
	SKU                 string          `json:"sku"`
	StockQuantity       int             `json:"stock_quantity"`
	Specifications      json.RawMessage `json:"specifications"`
	ImageURL            string          `json:"image_url"`
	CategoryID          *string         `json:"category_id"`
	CategoryName        *string         `json:"category_name"`
	CategoryDescription *string         `json:"category_description"`
	BrandID             *string         `json:"brand_id"`
	BrandName           *string         `json:"brand_name"`
	BrandDescription    *string         `json:"brand_description"`
	BrandLogo           *string         `json:"brand_logo"`
	IsActive            *bool           `json:"is_active,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ProductListResponse public catalog page.
type ProductListResponse struct {
	Products   []ProductResponse  `json:"products"`
	Pagination PaginationResponse `json:"pagination"`
}

// SearchResponse ranked search results.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []ProductResponse `json:"results"`
	Count   int               `json:"count"`
}
