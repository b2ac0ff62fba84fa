package dto

import "time"

// CreateCategoryRequest admin category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateCategoryRequest partial update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategoryResponse ProductsCount is only set on listings.
type CategoryResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	ProductsCount *int      `json:"products_count,omitempty"`
}

// CreateBrandRequest admin brand creation.
type CreateBrandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// UpdateBrandRequest partial update.
type UpdateBrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

// BrandResponse ProductsCount is only set on listings.
type BrandResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	LogoURL       string    `json:"logo_url"`
	CreatedAt     time.Time `json:"created_at"`
	ProductsCount *int      `json:"products_count,omitempty"`
}
