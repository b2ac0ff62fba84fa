package repository

import (
	"context"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// SyncLogRepository persistence port for the sync audit log.
type SyncLogRepository interface {
	// Append adds a row (batch paths are append-only).
	Append(ctx context.Context, entry *entity.SyncLogEntry) error
	// Upsert replaces the single row kept for entry.SyncType (admin-triggered sync).
	Upsert(ctx context.Context, entry *entity.SyncLogEntry) error
	Latest(ctx context.Context, syncType string) (*entity.SyncLogEntry, error)
	// List newest first; empty syncType lists every type.
	List(ctx context.Context, syncType string, limit int) ([]*entity.SyncLogEntry, error)
}
