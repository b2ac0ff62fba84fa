package entity

import "time"

// Brand a product brand.
type Brand struct {
	ID          string
	Name        string
	Description string
	LogoURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BrandWithCount brand plus the number of active products.
type BrandWithCount struct {
	Brand
	ProductsCount int
}
