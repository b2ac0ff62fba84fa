package ingest

import (
	"context"
	"time"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// CategoryStore the category operations ingestion needs.
type CategoryStore interface {
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	SearchByName(ctx context.Context, fragment string) ([]*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}

// BrandStore the brand operations ingestion needs.
type BrandStore interface {
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	SearchByName(ctx context.Context, fragment string) ([]*entity.Brand, error)
	Create(ctx context.Context, brand *entity.Brand) error
}

// ProductStore the product operations ingestion needs.
type ProductStore interface {
	FindForReconcile(ctx context.Context, sku, name, brandID string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
}

// Repos stores bound to the current batch transaction.
type Repos struct {
	Categories CategoryStore
	Brands     BrandStore
	Products   ProductStore
}

// Batch one open batch transaction.
type Batch interface {
	// Record runs fn inside a savepoint. An error from fn rolls back to the savepoint and is
	// returned unchanged; a savepoint failure is returned as *InfraError.
	Record(ctx context.Context, fn func(r Repos) error) error
}

// BatchRunner opens a transaction, runs fn and commits when fn returns nil. Begin and
// commit failures are returned as *InfraError.
type BatchRunner interface {
	RunBatch(ctx context.Context, fn func(b Batch) error) error
}

// SyncLogWriter appends audit rows outside the batch transaction.
type SyncLogWriter interface {
	Append(ctx context.Context, entry *entity.SyncLogEntry) error
}

// Invalidator drops cached listings after catalog writes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Recorder receives batch metrics.
type Recorder interface {
	BatchFinished(syncType, status string, elapsed time.Duration)
	RecordsProcessed(syncType string, created, updated, failed int)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) error { return nil }

type nopRecorder struct{}

func (nopRecorder) BatchFinished(string, string, time.Duration) {}
func (nopRecorder) RecordsProcessed(string, int, int, int)      {}
