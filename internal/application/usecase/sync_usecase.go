package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

const (
	DefaultSyncLogLimit = 20
	MaxSyncLogLimit     = 100

	syncStartedMessage = "Синхронизация с 1С запущена"
	syncNeverMessage   = "Синхронизация еще не выполнялась"
)

// SyncUseCase admin-triggered 1C sync bookkeeping and the audit log.
type SyncUseCase struct {
	logs repository.SyncLogRepository
	now  func() time.Time
}

// NewSyncUseCase builds the use case.
func NewSyncUseCase(logs repository.SyncLogRepository) *SyncUseCase {
	return &SyncUseCase{logs: logs, now: func() time.Time { return time.Now().UTC() }}
}

// Trigger1C records a completed 1C sync in the single upserted row.
func (uc *SyncUseCase) Trigger1C(ctx context.Context, in dto.Sync1CRequest) (*dto.Sync1CResponse, error) {
	scheduled := strings.TrimSpace(in.SyncTime)
	if scheduled == "" {
		scheduled = "now"
	}
	details, err := json.Marshal(map[string]string{"message": "Sync scheduled for: " + scheduled})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	entry := &entity.SyncLogEntry{
		SyncType:  entity.SyncType1C,
		Status:    entity.SyncStatusCompleted,
		SyncTime:  now,
		Details:   details,
		CreatedAt: now,
	}
	if err := uc.logs.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return &dto.Sync1CResponse{
		Message:  syncStartedMessage,
		SyncTime: now,
		Status:   entity.SyncStatusCompleted,
	}, nil
}

// Status of the last admin-triggered sync, or status "never".
func (uc *SyncUseCase) Status(ctx context.Context) (*dto.SyncStatusResponse, error) {
	entry, err := uc.logs.Latest(ctx, entity.SyncType1C)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &dto.SyncStatusResponse{
			SyncType: entity.SyncType1C,
			Status:   entity.SyncStatusNever,
			Details:  syncNeverMessage,
		}, nil
	}
	syncTime := entry.SyncTime
	return &dto.SyncStatusResponse{
		SyncType: entry.SyncType,
		Status:   entry.Status,
		SyncTime: &syncTime,
		Details:  detailsOf(entry.Details),
	}, nil
}

// Log newest audit rows, optionally for one sync type.
func (uc *SyncUseCase) Log(ctx context.Context, syncType string, limit int) (*dto.SyncLogResponse, error) {
	if limit < 1 || limit > MaxSyncLogLimit {
		return nil, invalid("limit must be between 1 and 100")
	}
	entries, err := uc.logs.List(ctx, strings.TrimSpace(syncType), limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SyncLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SyncLogEntryResponse{
			ID:        e.ID,
			SyncType:  e.SyncType,
			Status:    e.Status,
			SyncTime:  e.SyncTime,
			Details:   detailsOf(e.Details),
			CreatedAt: e.CreatedAt,
		})
	}
	return &dto.SyncLogResponse{Entries: out, Count: len(out)}, nil
}

func detailsOf(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
