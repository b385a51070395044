package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
	ports "trimestre/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ ports.QuarterUpserter = (*SQLiteRepository)(nil)
	_ ports.QuarterReader   = (*SQLiteRepository)(nil)
)

// SQLiteRepository mirrors the Totais and Detalhes tabs in a local database.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertQuarter implements sheets.QuarterUpserter. Both rows are written in one transaction.
func (r *SQLiteRepository) UpsertQuarter(ctx context.Context, s core.QuarterSummary) ([]core.UpsertResult, error) {
	if s.Key == "" {
		return nil, errors.New("quarter key is empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	_, errTot := q.GetTotais(ctx, s.Key)
	_, errDet := q.GetDetalhes(ctx, s.Key)

	if err := q.UpsertTotais(ctx, quarterRow(s, s.TotaisValues())); err != nil {
		return nil, fmt.Errorf("upsert totais: %w", err)
	}
	if err := q.UpsertDetalhes(ctx, quarterRow(s, s.DetalhesValues())); err != nil {
		return nil, fmt.Errorf("upsert detalhes: %w", err)
	}

	tot, err := q.GetTotais(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("read totais: %w", err)
	}
	det, err := q.GetDetalhes(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("read detalhes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Quarter saved to SQLite", "quarter", s.Key, "measure", s.Measure)

	return []core.UpsertResult{
		{Tab: ports.TabTotais, Row: int(tot.ID), Appended: errors.Is(errTot, sql.ErrNoRows)},
		{Tab: ports.TabDetalhes, Row: int(det.ID), Appended: errors.Is(errDet, sql.ErrNoRows)},
	}, nil
}

// GetQuarter implements sheets.QuarterReader.
func (r *SQLiteRepository) GetQuarter(ctx context.Context, key string) (core.QuarterSummary, bool, error) {
	tot, err := r.queries.GetTotais(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return core.QuarterSummary{}, false, nil
	}
	if err != nil {
		return core.QuarterSummary{}, false, fmt.Errorf("get totais: %w", err)
	}
	det, err := r.queries.GetDetalhes(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return core.QuarterSummary{}, false, nil
	}
	if err != nil {
		return core.QuarterSummary{}, false, fmt.Errorf("get detalhes: %w", err)
	}

	values := make([]decimal.Decimal, 0, 6)
	for _, v := range append(tot.Values[:], det.Values[:]...) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return core.QuarterSummary{}, false, fmt.Errorf("quarter %s: %w", key, err)
		}
		values = append(values, d)
	}
	return core.QuarterSummary{
		Key:                 key,
		Measure:             core.Measure(tot.Measure),
		TotalLocal:          values[0],
		TotalFora:           values[1],
		TotalImportado:      values[2],
		TotalSucata:         values[3],
		TotalBeneficiamento: values[4],
		TotalGeral:          values[5],
	}, true, nil
}

// RecordSync appends an audit entry for a delivered sync message.
func (r *SQLiteRepository) RecordSync(ctx context.Context, runID, key string) error {
	if err := r.queries.InsertSyncLog(ctx, runID, key); err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// SyncCount returns how many syncs were recorded for a quarter.
func (r *SQLiteRepository) SyncCount(ctx context.Context, key string) (int64, error) {
	return r.queries.CountSyncLog(ctx, key)
}

func quarterRow(s core.QuarterSummary, values []decimal.Decimal) QuarterRow {
	return QuarterRow{
		QuarterKey: s.Key,
		Measure:    string(s.Measure),
		Values:     [3]string{values[0].String(), values[1].String(), values[2].String()},
	}
}
