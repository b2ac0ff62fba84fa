package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/infrastructure/cache"
	"github.com/cozyren/catalog-api/pkg/config"
)

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/xml", contentTypeFor("export.XML"))
	assert.Equal(t, "text/csv", contentTypeFor("/tmp/prices.csv"))
	assert.Equal(t, "text/plain", contentTypeFor("notes.txt"))
	assert.Equal(t, "application/json", contentTypeFor("payload.json"))
	assert.Equal(t, "application/json", contentTypeFor("no-extension"))
}

func TestDryRun_ReportsInvalidRecords(t *testing.T) {
	payload, err := ingest.DetectBody("text/csv", []byte("name;price\nМолоток;12,50\nДрель;abc\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, dryRun(&out, payload))

	var report struct {
		Format   string                 `json:"format"`
		Records  int                    `json:"records"`
		Valid    int                    `json:"valid"`
		Failures []ingest.RecordFailure `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "raw_text", report.Format)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.Valid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Index)
	assert.Equal(t, "Дрель", report.Failures[0].Name)
}

func TestListingInvalidator_FallsBackToNoop(t *testing.T) {
	ctx := context.Background()

	inv, closeFn := listingInvalidator(ctx, config.RedisConfig{}, zerolog.Nop())
	assert.IsType(t, cache.Noop{}, inv)
	closeFn()

	inv, closeFn = listingInvalidator(ctx, config.RedisConfig{URL: "http://localhost:6379", TTLSeconds: 60}, zerolog.Nop())
	assert.IsType(t, cache.Noop{}, inv, "unusable redis url")
	assert.NoError(t, inv.Invalidate(ctx))
	closeFn()
}
