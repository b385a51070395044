package worker

import (
	"context"
	"errors"
	"fmt"

	"trimestre/internal/amqp"
	applog "trimestre/internal/log"
	"trimestre/internal/sheets"
)

// SyncRecorder keeps an audit trail of delivered sync messages.
type SyncRecorder interface {
	RecordSync(ctx context.Context, runID, key string) error
}

// SyncWorker applies quarter sync messages consumed from AMQP to a sync target.
type SyncWorker struct {
	target   sheets.QuarterUpserter
	recorder SyncRecorder
	logger   *applog.Logger
}

// NewSyncWorker creates a worker. recorder may be nil.
func NewSyncWorker(target sheets.QuarterUpserter, recorder SyncRecorder, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncWorker{
		target:   target,
		recorder: recorder,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleSyncMessage upserts the message's summary. A returned error requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.QuarterSyncMessage) error {
	if msg == nil || msg.Summary.Key == "" {
		return errors.New("sync message without quarter key")
	}

	w.logger.InfoContext(ctx, "Processing sync message",
		applog.FieldRunID, msg.RunID,
		applog.FieldQuarter, msg.Summary.Key)

	results, err := w.target.UpsertQuarter(ctx, msg.Summary)
	if err != nil {
		return fmt.Errorf("upsert quarter %s: %w", msg.Summary.Key, err)
	}
	for _, r := range results {
		w.logger.InfoContext(ctx, "Quarter row written",
			applog.FieldRunID, msg.RunID,
			applog.FieldTab, r.Tab,
			applog.FieldRow, r.Row,
			"appended", r.Appended)
	}

	if w.recorder != nil {
		if err := w.recorder.RecordSync(ctx, msg.RunID, msg.Summary.Key); err != nil {
			// the upsert already happened; requeueing would only repeat it
			w.logger.WarnContext(ctx, "Failed to record sync", applog.FieldError, err)
		}
	}
	return nil
}
