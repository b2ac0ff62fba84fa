package repository

import (
	"context"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// CategoryRepository persistence port for Category.
type CategoryRepository interface {
	// Create inserts; ErrDuplicate when the name already exists (case-insensitive).
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName exact, case-insensitive lookup.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	// SearchByName every category whose name contains fragment (case-insensitive, no wildcards).
	SearchByName(ctx context.Context, fragment string) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	ListWithCounts(ctx context.Context) ([]*entity.CategoryWithCount, error)
}
