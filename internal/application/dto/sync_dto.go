package dto

import (
	"encoding/json"
	"time"
)

// Sync1CRequest admin-triggered 1C sync. SyncTime defaults to "now".
type Sync1CRequest struct {
	SyncTime string `json:"sync_time"`
}

// Sync1CResponse acknowledgement of a triggered sync.
type Sync1CResponse struct {
	Message  string    `json:"message"`
	SyncTime time.Time `json:"sync_time"`
	Status   string    `json:"status"`
}

// SyncStatusResponse latest admin-triggered sync. Details is an object, or a string when no sync ran yet.
type SyncStatusResponse struct {
	SyncType string     `json:"sync_type"`
	Status   string     `json:"status"`
	SyncTime *time.Time `json:"sync_time"`
	Details  any        `json:"details"`
}

// SyncLogEntryResponse one audit row.
type SyncLogEntryResponse struct {
	ID        int64           `json:"id"`
	SyncType  string          `json:"sync_type"`
	Status    string          `json:"status"`
	SyncTime  time.Time       `json:"sync_time"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}

// SyncLogResponse newest audit rows.
type SyncLogResponse struct {
	Entries []SyncLogEntryResponse `json:"entries"`
	Count   int                    `json:"count"`
}

// IngestResponse result of a price-list batch.
type IngestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Errors  int    `json:"errors"`
}
