package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/infrastructure/cache"
	"github.com/cozyren/catalog-api/internal/infrastructure/postgres"
	"github.com/cozyren/catalog-api/pkg/config"
)

var (
	// Flags for the ingest command
	ingestSyncType    string
	ingestContentType string
	ingestDryRun      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Import a price-list file (XML, CSV, text or JSON)",
	Long: `Import a price-list file through the reconciliation engine.

The format is taken from --content-type or guessed from the file extension.

Examples:
  # Validate a file without touching the database
  catalogctl ingest prices.csv --dry-run

  # Import a 1C XML export
  catalogctl ingest export.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSyncType, "sync-type", entity.SyncTypeCLIImport, "Sync type written to the audit log")
	ingestCmd.Flags().StringVar(&ingestContentType, "content-type", "", "Override the detected content type")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Extract and validate records without writing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	contentType := ingestContentType
	if contentType == "" {
		contentType = contentTypeFor(path)
	}
	payload, err := ingest.DetectBody(contentType, body)
	if err != nil {
		return err
	}

	if ingestDryRun {
		return dryRun(cmd.OutOrStdout(), payload)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	invalidator, closeCache := listingInvalidator(ctx, cfg.Redis, log.Named("cache"))
	defer closeCache()

	orchestrator := ingest.NewOrchestrator(
		postgres.NewBatchRunner(pool),
		postgres.NewSyncLogRepository(pool),
		ingest.WithInvalidator(invalidator),
		ingest.WithLogger(log.Named("ingest")),
	)
	res, err := orchestrator.Ingest(ctx, ingest.Request{Payload: payload, SyncType: ingestSyncType})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"processed": res.Processed,
		"created":   res.Created,
		"updated":   res.Updated,
		"errors":    res.Errors,
		"failures":  res.Failures,
	})
}

// listingInvalidator connects to the API's listing cache so an import does not leave stale
// category and brand listings behind. Without Redis the import proceeds with a no-op.
func listingInvalidator(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (ingest.Invalidator, func()) {
	if cfg.URL == "" {
		return cache.Noop{}, func() {}
	}
	rc, err := cache.NewRedisCache(ctx, cfg.URL, time.Duration(cfg.TTLSeconds)*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, listings will refresh after their TTL")
		return cache.Noop{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

// dryRun reports how many records would be reconciled and which ones would fail normalisation.
func dryRun(w io.Writer, payload ingest.Payload) error {
	records, err := ingest.Extract(payload)
	if err != nil {
		return err
	}
	var failures []ingest.RecordFailure
	for i, raw := range records {
		if _, err := ingest.Normalize(raw); err != nil {
			failures = append(failures, ingest.RecordFailure{Index: i, Name: raw.DisplayName(), Reason: err.Error()})
		}
	}
	return writeJSON(w, map[string]any{
		"format":   payload.Format(),
		"records":  len(records),
		"valid":    len(records) - len(failures),
		"failures": failures,
	})
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "application/xml"
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	default:
		return "application/json"
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
