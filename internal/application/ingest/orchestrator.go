package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

const syncLogTimeout = 5 * time.Second

// Request one ingestion batch.
type Request struct {
	Payload  Payload
	SyncType string
	// ArchiveKey where the raw body was archived, empty when archiving is off.
	ArchiveKey string
}

// RecordFailure a record that was rolled back.
type RecordFailure struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Result counters of a committed batch. Processed = Created + Updated.
type Result struct {
	Processed     int
	Created       int
	Updated       int
	Errors        int
	ExtractionErr error
	Failures      []RecordFailure
}

// Orchestrator runs extraction and reconciliation for one batch.
type Orchestrator struct {
	runner      BatchRunner
	syncLog     SyncLogWriter
	reconciler  *Reconciler
	invalidator Invalidator
	metrics     Recorder
	log         zerolog.Logger
	now         func() time.Time
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithInvalidator sets the cache invalidated after a committed batch.
func WithInvalidator(inv Invalidator) Option {
	return func(o *Orchestrator) { o.invalidator = inv }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithReconciler replaces the default reconciler.
func WithReconciler(rc *Reconciler) Option {
	return func(o *Orchestrator) { o.reconciler = rc }
}

// NewOrchestrator wires the batch runner and the sync log.
func NewOrchestrator(runner BatchRunner, syncLog SyncLogWriter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:      runner,
		syncLog:     syncLog,
		reconciler:  NewReconciler(NewResolver()),
		invalidator: nopInvalidator{},
		metrics:     nopRecorder{},
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Ingest processes req. Record and extraction problems are reported in the Result; only an
// infrastructure failure returns an error, in which case nothing was committed.
func (o *Orchestrator) Ingest(ctx context.Context, req Request) (*Result, error) {
	start := o.now()
	log := o.log.With().Str("sync_type", req.SyncType).Logger()
	res := &Result{}

	records, err := Extract(req.Payload)
	if err != nil {
		res.ExtractionErr = err
		log.Warn().Err(err).Msg("payload could not be extracted, batch is empty")
		records = nil
	}
	log.Debug().Int("records", len(records)).Msg("records extracted")

	var batchErr error
	if len(records) > 0 {
		batchErr = o.runner.RunBatch(ctx, func(b Batch) error {
			for i, raw := range records {
				var outcome Outcome
				err := b.Record(ctx, func(r Repos) error {
					var err error
					outcome, err = o.reconciler.Reconcile(ctx, r, raw)
					return err
				})
				if err != nil {
					if IsInfra(err) {
						return err
					}
					res.Errors++
					res.Failures = append(res.Failures, RecordFailure{Index: i, Name: raw.DisplayName(), Reason: err.Error()})
					log.Warn().Err(err).Int("index", i).Str("name", raw.DisplayName()).Msg("record rolled back")
					continue
				}
				switch outcome {
				case OutcomeCreated:
					res.Created++
				case OutcomeUpdated:
					res.Updated++
				}
			}
			return nil
		})
	}
	res.Processed = res.Created + res.Updated

	status := entity.SyncStatusCompleted
	switch {
	case batchErr != nil:
		status = entity.SyncStatusFailed
	case res.Errors > 0:
		status = entity.SyncStatusCompletedWithErrors
	}
	o.appendSyncLog(ctx, log, req, res, status, batchErr)
	o.metrics.BatchFinished(req.SyncType, status, o.now().Sub(start))

	if batchErr != nil {
		log.Error().Err(batchErr).Msg("batch aborted, transaction rolled back")
		return nil, batchErr
	}

	o.metrics.RecordsProcessed(req.SyncType, res.Created, res.Updated, res.Errors)
	if res.Processed > 0 {
		if err := o.invalidator.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}

	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("errors", res.Errors).
		Dur("elapsed", o.now().Sub(start)).
		Msg("batch committed")
	return res, nil
}

// appendSyncLog is best-effort: it runs on the pool after the batch and survives request cancellation.
func (o *Orchestrator) appendSyncLog(ctx context.Context, log zerolog.Logger, req Request, res *Result, status string, batchErr error) {
	details := map[string]any{
		"created":         res.Created,
		"updated":         res.Updated,
		"errors":          res.Errors,
		"total_processed": res.Created + res.Updated,
	}
	if res.ExtractionErr != nil {
		details["extraction_error"] = res.ExtractionErr.Error()
	}
	if req.ArchiveKey != "" {
		details["archive_key"] = req.ArchiveKey
	}
	if batchErr != nil {
		details["error"] = batchErr.Error()
	}
	raw, err := json.Marshal(details)
	if err != nil {
		log.Error().Err(err).Msg("marshal sync log details")
		return
	}

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncLogTimeout)
	defer cancel()
	now := o.now()
	entry := &entity.SyncLogEntry{SyncType: req.SyncType, Status: status, SyncTime: now, Details: raw, CreatedAt: now}
	if err := o.syncLog.Append(logCtx, entry); err != nil {
		log.Error().Err(err).Msg("write sync log")
	}
}
