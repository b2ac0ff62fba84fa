package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

var _ repository.SyncLogRepository = (*SyncLogRepo)(nil)

// SyncLogRepo SyncLogRepository over PostgreSQL.
type SyncLogRepo struct {
	q Querier
}

// NewSyncLogRepository builds the adapter.
func NewSyncLogRepository(q Querier) *SyncLogRepo {
	return &SyncLogRepo{q: q}
}

const syncLogColumns = `id, sync_type, status, sync_time, details, created_at`

func scanSyncLog(row scanner) (*entity.SyncLogEntry, error) {
	var e entity.SyncLogEntry
	if err := row.Scan(&e.ID, &e.SyncType, &e.Status, &e.SyncTime, &e.Details, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// createdAtOrNow stamps entries that arrive without a creation time.
func createdAtOrNow(e *entity.SyncLogEntry) time.Time {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e.CreatedAt
}

func (r *SyncLogRepo) Append(ctx context.Context, e *entity.SyncLogEntry) error {
	query := `
		INSERT INTO sync_log (sync_type, status, sync_time, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, e.SyncType, e.Status, e.SyncTime, detailsOrEmpty(e.Details), createdAtOrNow(e)).Scan(&e.ID); err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// Upsert keeps a single row for the admin-triggered sync type (partial unique index on sync_type).
func (r *SyncLogRepo) Upsert(ctx context.Context, e *entity.SyncLogEntry) error {
	query := `
		INSERT INTO sync_log (sync_type, status, sync_time, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sync_type) WHERE sync_type = '1c_sync'
		DO UPDATE SET status = EXCLUDED.status, sync_time = EXCLUDED.sync_time, details = EXCLUDED.details
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, e.SyncType, e.Status, e.SyncTime, detailsOrEmpty(e.Details), createdAtOrNow(e)).Scan(&e.ID); err != nil {
		return fmt.Errorf("upsert sync log: %w", err)
	}
	return nil
}

// Latest newest row of syncType; nil when there is none.
func (r *SyncLogRepo) Latest(ctx context.Context, syncType string) (*entity.SyncLogEntry, error) {
	e, err := scanSyncLog(r.q.QueryRow(ctx, `
		SELECT `+syncLogColumns+` FROM sync_log
		WHERE sync_type = $1
		ORDER BY sync_time DESC, id DESC
		LIMIT 1`, syncType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest sync log: %w", err)
	}
	return e, nil
}

func (r *SyncLogRepo) List(ctx context.Context, syncType string, limit int) ([]*entity.SyncLogEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+syncLogColumns+` FROM sync_log
		WHERE $1::text = '' OR sync_type = $1::text
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, syncType, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync log: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.SyncLogEntry, 0)
	for rows.Next() {
		e, err := scanSyncLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func detailsOrEmpty(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return raw
}
