package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimestre/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "trimestre.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func quarter(key string, local string) core.QuarterSummary {
	return core.QuarterSummary{
		Key:                 key,
		Measure:             core.MeasureQuantity,
		TotalLocal:          decimal.RequireFromString(local),
		TotalFora:           decimal.RequireFromString("2.5"),
		TotalImportado:      decimal.NewFromInt(3),
		TotalSucata:         decimal.NewFromInt(4),
		TotalBeneficiamento: decimal.NewFromInt(5),
		TotalGeral:          decimal.RequireFromString("0.3333333333333333"),
	}
}

func TestUpsertQuarterInsertThenUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	res, err := repo.UpsertQuarter(ctx, quarter("Q1 2024", "10"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].Appended)
	assert.True(t, res[1].Appended)

	_, err = repo.UpsertQuarter(ctx, quarter("Q2 2024", "1"))
	require.NoError(t, err)

	again, err := repo.UpsertQuarter(ctx, quarter("Q1 2024", "12.75"))
	require.NoError(t, err)
	assert.False(t, again[0].Appended)
	assert.Equal(t, res[0].Row, again[0].Row)

	got, ok, err := repo.GetQuarter(ctx, "Q1 2024")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.TotalLocal.Equal(decimal.RequireFromString("12.75")))
	assert.True(t, got.TotalFora.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, got.TotalGeral.Equal(decimal.RequireFromString("0.3333333333333333")))
	assert.Equal(t, core.MeasureQuantity, got.Measure)
}

func TestGetQuarterMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, ok, err := repo.GetQuarter(context.Background(), "Q3 2001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertQuarterEmptyKey(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.UpsertQuarter(context.Background(), core.QuarterSummary{})
	assert.Error(t, err)
}

func TestRecordSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordSync(ctx, "run-1", "Q1 2024"))
	require.NoError(t, repo.RecordSync(ctx, "run-2", "Q1 2024"))

	n, err := repo.SyncCount(ctx, "Q1 2024")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRunMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), v)
}
