package entity

import "time"

// Category a product category. Names act as a fuzzy key during feed ingestion.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryWithCount category plus the number of active products in it.
type CategoryWithCount struct {
	Category
	ProductsCount int
}
