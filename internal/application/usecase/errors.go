package usecase

import (
	"fmt"

	"github.com/cozyren/catalog-api/internal/domain"
)

// InUseError a category or brand still referenced by Count products.
type InUseError struct {
	Kind  string // "category" or "brand"
	Count int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("Cannot delete %s: %d products are using this %s", e.Kind, e.Count, e.Kind)
}

func (e *InUseError) Unwrap() error { return domain.ErrInUse }

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
