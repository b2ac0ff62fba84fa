package entity

import (
	"encoding/json"
	"time"
)

// Sync types written to sync_log.
const (
	SyncType1C              = "1c_sync" // admin-triggered, one upserted row
	SyncTypePriceList1C     = "price_list_1c"
	SyncType1CWebhook       = "1c_webhook"
	SyncTypePriceListManual = "price_list_manual"
	SyncTypeCLIImport       = "cli_import"
)

// Sync statuses.
const (
	SyncStatusCompleted           = "completed"
	SyncStatusCompletedWithErrors = "completed_with_errors"
	SyncStatusFailed              = "failed"
	SyncStatusNever               = "never"
)

// SyncLogEntry audit row for one synchronisation or ingestion batch.
type SyncLogEntry struct {
	ID        int64
	SyncType  string
	Status    string
	SyncTime  time.Time
	Details   json.RawMessage
	CreatedAt time.Time
}
