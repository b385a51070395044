package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimestre/internal/amqp"
	"trimestre/internal/core"
	"trimestre/internal/sheets"
	"trimestre/internal/sheets/memory"
	mock_sheets "trimestre/internal/sheets/mocks"
)

type publisherFunc func(ctx context.Context, msg *amqp.QuarterSyncMessage) error

func (f publisherFunc) PublishQuarterSync(ctx context.Context, msg *amqp.QuarterSyncMessage) error {
	return f(ctx, msg)
}

func summaryQ1() core.QuarterSummary {
	return core.QuarterSummary{
		Key:        "Q1 2024",
		Quarter:    "Q1",
		Year:       2024,
		Measure:    core.MeasureValue,
		TotalLocal: decimal.NewFromInt(300),
		TotalFora:  decimal.NewFromInt(900),
		TotalGeral: decimal.NewFromInt(1200),
	}
}

func TestSyncServiceFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := mock_sheets.NewMockQuarterUpserter(ctrl)
	failing.EXPECT().
		UpsertQuarter(gomock.Any(), summaryQ1()).
		Return(nil, errors.New("permission denied"))

	store := memory.New()
	svc := NewSyncService([]Target{
		{Name: "memory", Upserter: store},
		{Name: "sheets", Upserter: failing},
	}, nil, 0, nil)

	outcomes, err := svc.Sync(context.Background(), "run-1", summaryQ1())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync sheets: permission denied")
	require.Len(t, outcomes, 2)

	assert.Equal(t, "memory", outcomes[0].Target)
	assert.NoError(t, outcomes[0].Err)
	assert.Len(t, outcomes[0].Results, 2)
	assert.Error(t, outcomes[1].Err)

	rows := store.Rows(sheets.TabTotais)
	require.Len(t, rows, 1)
	assert.Equal(t, "Q1 2024", rows[0].Key)
}

func TestSyncServiceUpsertTwiceOverwrites(t *testing.T) {
	store := memory.New()
	svc := NewSyncService([]Target{{Name: "memory", Upserter: store}}, nil, 0, nil)

	_, err := svc.Sync(context.Background(), "run-1", summaryQ1())
	require.NoError(t, err)
	outcomes, err := svc.Sync(context.Background(), "run-2", summaryQ1())
	require.NoError(t, err)

	for _, r := range outcomes[0].Results {
		assert.False(t, r.Appended)
		assert.Equal(t, 2, r.Row)
	}
	assert.Len(t, store.Rows(sheets.TabDetalhes), 1)
}

func TestSyncServiceQueueMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	// direct targets are bypassed when a publisher is configured
	target := mock_sheets.NewMockQuarterUpserter(ctrl)

	var got *amqp.QuarterSyncMessage
	svc := NewSyncService([]Target{{Name: "sheets", Upserter: target}}, publisherFunc(func(_ context.Context, msg *amqp.QuarterSyncMessage) error {
		got = msg
		return nil
	}), 0, nil)

	outcomes, err := svc.Sync(context.Background(), "run-9", summaryQ1())
	require.NoError(t, err)
	assert.Equal(t, []SyncOutcome{{Target: "queue"}}, outcomes)
	require.NotNil(t, got)
	assert.Equal(t, "run-9", got.RunID)
	assert.Equal(t, "Q1 2024", got.Summary.Key)
}

func TestSyncServiceQueueError(t *testing.T) {
	svc := NewSyncService(nil, publisherFunc(func(context.Context, *amqp.QuarterSyncMessage) error {
		return amqp.ErrCircuitOpen
	}), 0, nil)

	_, err := svc.Sync(context.Background(), "run-3", summaryQ1())
	assert.ErrorIs(t, err, amqp.ErrCircuitOpen)
}

func TestSyncServiceAsUpserter(t *testing.T) {
	var upserter sheets.QuarterUpserter = NewSyncService([]Target{
		{Name: "a", Upserter: memory.New()},
		{Name: "b", Upserter: memory.New()},
	}, nil, 0, nil)

	results, err := upserter.UpsertQuarter(context.Background(), summaryQ1())
	require.NoError(t, err)
	assert.Len(t, results, 4)
}
