package repository

import (
	"context"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// BrandRepository persistence port for Brand. Same contract as CategoryRepository.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	SearchByName(ctx context.Context, fragment string) ([]*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	Delete(ctx context.Context, id string) error
	ListWithCounts(ctx context.Context) ([]*entity.BrandWithCount, error)
}
