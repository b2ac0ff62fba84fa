package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cozyren/catalog-api/internal/application/ingest"
)

var _ ingest.BatchRunner = (*BatchRunner)(nil)

// BatchRunner runs an ingestion batch in one transaction with a savepoint per record.
type BatchRunner struct {
	pool *pgxpool.Pool
}

// NewBatchRunner builds the runner with the pool.
func NewBatchRunner(pool *pgxpool.Pool) *BatchRunner {
	return &BatchRunner{pool: pool}
}

// RunBatch begins a transaction, runs fn and commits when fn succeeds. Anything else rolls back.
func (r *BatchRunner) RunBatch(ctx context.Context, fn func(b ingest.Batch) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &ingest.InfraError{Op: "begin transaction", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txBatch{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &ingest.InfraError{Op: "commit transaction", Err: err}
	}
	return nil
}

type txBatch struct {
	tx pgx.Tx
}

// Record wraps fn in a SAVEPOINT (pgx nested transaction) with repositories bound to it.
func (b *txBatch) Record(ctx context.Context, fn func(r ingest.Repos) error) error {
	sp, err := b.tx.Begin(ctx)
	if err != nil {
		return &ingest.InfraError{Op: "savepoint", Err: err}
	}

	repos := ingest.Repos{
		Categories: NewCategoryRepository(sp),
		Brands:     NewBrandRepository(sp),
		Products:   NewProductRepository(sp),
	}
	if err := fn(repos); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return &ingest.InfraError{Op: "rollback to savepoint", Err: errors.Join(rbErr, err)}
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return &ingest.InfraError{Op: "release savepoint", Err: err}
	}
	return nil
}
