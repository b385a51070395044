package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"trimestre/internal/amqp"
	"trimestre/internal/core"
	applog "trimestre/internal/log"
	"trimestre/internal/sheets"
)

// maxConcurrentTargets bounds the direct-mode fan-out.
const maxConcurrentTargets = 4

// Publisher hands a summary to the queue for asynchronous delivery.
type Publisher interface {
	PublishQuarterSync(ctx context.Context, msg *amqp.QuarterSyncMessage) error
}

// Target is a named sync destination.
type Target struct {
	Name     string
	Upserter sheets.QuarterUpserter
}

// SyncOutcome reports what one target did.
type SyncOutcome struct {
	Target  string
	Results []core.UpsertResult
	Err     error
}

// SyncService pushes a quarter summary to every configured target, or to the
// queue when a publisher is set.
type SyncService struct {
	targets   []Target
	publisher Publisher
	timeout   time.Duration
	logger    *applog.Logger
}

func NewSyncService(targets []Target, publisher Publisher, timeout time.Duration, logger *applog.Logger) *SyncService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncService{
		targets:   targets,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger.WithComponent(applog.ComponentSync),
	}
}

// Sync delivers the summary. Outcomes are returned even when some targets
// failed; the error joins every target failure.
func (s *SyncService) Sync(ctx context.Context, runID string, summary core.QuarterSummary) ([]SyncOutcome, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.publisher != nil {
		if err := s.publisher.PublishQuarterSync(ctx, amqp.NewQuarterSyncMessage(runID, summary)); err != nil {
			return nil, fmt.Errorf("publish quarter %s: %w", summary.Key, err)
		}
		s.logger.InfoContext(ctx, "Quarter sync queued",
			applog.FieldRunID, runID,
			applog.FieldQuarter, summary.Key)
		return []SyncOutcome{{Target: "queue"}}, nil
	}

	outcomes := make([]SyncOutcome, len(s.targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTargets)
	for i, t := range s.targets {
		i, t := i, t
		g.Go(func() error {
			results, err := t.Upserter.UpsertQuarter(gctx, summary)
			if err != nil {
				err = fmt.Errorf("sync %s: %w", t.Name, err)
			}
			outcomes[i] = SyncOutcome{Target: t.Name, Results: results, Err: err}
			// failures are collected per target, never cancel the siblings
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			s.logger.WarnContext(ctx, "Sync target failed",
				applog.FieldTarget, o.Target,
				applog.FieldError, o.Err)
			errs = append(errs, o.Err)
			continue
		}
		s.logger.InfoContext(ctx, "Sync target updated",
			applog.FieldRunID, runID,
			applog.FieldTarget, o.Target,
			applog.FieldQuarter, summary.Key)
	}
	return outcomes, errors.Join(errs...)
}

// UpsertQuarter lets the fan-out stand in for a single sync target, as the
// queue worker does.
func (s *SyncService) UpsertQuarter(ctx context.Context, summary core.QuarterSummary) ([]core.UpsertResult, error) {
	outcomes, err := s.Sync(ctx, "", summary)
	var results []core.UpsertResult
	for _, o := range outcomes {
		results = append(results, o.Results...)
	}
	return results, err
}
