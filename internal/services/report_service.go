package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trimestre/internal/aggregate"
	"trimestre/internal/conversion"
	"trimestre/internal/core"
	"trimestre/internal/ingest"
	applog "trimestre/internal/log"
	"trimestre/internal/period"
	"trimestre/internal/report"
)

// RunRequest is one report run over a quarter's movement files.
type RunRequest struct {
	Files   []*ingest.File
	Centers []int
	Measure core.Measure
	// Conversion enables base-unit normalisation for the quantity measure.
	Conversion *conversion.Table
}

// RunResult holds everything a run produced.
type RunResult struct {
	RunID        string
	Quarter      period.Quarter
	Periods      []core.PeriodResult // aligned with Quarter.Periods
	Consolidated core.PeriodResult
	Report       report.Report
	Summary      core.QuarterSummary
}

// ReportService ties reconciliation, aggregation and report assembly together.
type ReportService struct {
	aggregator *aggregate.Aggregator
	reconciler *period.Reconciler
	logger     *applog.Logger
}

func NewReportService(cfg core.EngineConfig, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportService{
		aggregator: aggregate.NewFromConfig(cfg),
		reconciler: period.New(cfg.Quarters),
		logger:     logger.WithComponent(applog.ComponentReport),
	}
}

// Run reconciles the files into a quarter, aggregates each period and the
// union of all periods, then assembles the report. Any conversion failure
// aborts the run with the union of unresolved materials.
func (s *ReportService) Run(req RunRequest) (*RunResult, error) {
	if len(req.Files) == 0 {
		return nil, errors.New("no input files")
	}
	if len(req.Centers) == 0 {
		return nil, core.ErrNoCenters
	}
	measure := req.Measure
	if measure == "" {
		measure = core.MeasureValue
	}

	runID := uuid.NewString()
	logger := s.logger.WithRun(runID)
	start := time.Now()

	sources := make([]period.Source, len(req.Files))
	for i, f := range req.Files {
		sources[i] = f.Source()
	}
	q, err := s.reconciler.Reconcile(sources)
	if err != nil {
		return nil, err
	}
	logger.Info("Quarter reconciled",
		applog.FieldQuarter, q.Label(),
		applog.FieldYear, q.Year,
		applog.FieldMeasure, string(measure),
		applog.FieldCenters, req.Centers)

	res := &RunResult{RunID: runID, Quarter: q}

	var all []core.TransactionRecord
	unitColumn := true
	for _, f := range req.Files {
		all = append(all, f.Records...)
		unitColumn = unitColumn && f.HasUnitColumn
	}

	var failed []core.MissingMaterial
	for _, p := range q.Periods {
		f := req.Files[p.Index]
		pr := s.aggregator.Aggregate(aggregate.Input{
			Records:           f.Records,
			Centers:           req.Centers,
			Measure:           measure,
			Conversion:        req.Conversion,
			UnitColumnPresent: f.HasUnitColumn,
		})
		logger.Debug("Period aggregated",
			applog.FieldPeriod, p.Label,
			applog.FieldFile, f.Name,
			applog.FieldStatus, string(pr.Status))
		failed = append(failed, pr.Missing...)
		res.Periods = append(res.Periods, pr)
	}

	res.Consolidated = s.aggregator.Aggregate(aggregate.Input{
		Records:           all,
		Centers:           req.Centers,
		Measure:           measure,
		Conversion:        req.Conversion,
		UnitColumnPresent: unitColumn,
	})
	failed = append(failed, res.Consolidated.Missing...)

	if len(failed) > 0 {
		missing := dedupMissing(failed)
		logger.Warn("Unit conversion incomplete", applog.FieldMissing, len(missing))
		return nil, &core.ConversionError{Missing: missing}
	}

	rep, err := report.Assemble(q, measure, res.Periods, res.Consolidated)
	if err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}
	res.Report = rep
	res.Summary = core.NewQuarterSummary(q.Label(), q.Year, measure, res.Consolidated)

	logger.Info("Report assembled",
		applog.FieldQuarter, q.Key(),
		"sections", len(rep.Sections),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return res, nil
}

func dedupMissing(in []core.MissingMaterial) []core.MissingMaterial {
	seen := make(map[core.MissingMaterial]struct{}, len(in))
	out := make([]core.MissingMaterial, 0, len(in))
	for _, m := range in {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	conversion.SortMissing(out)
	return out
}
