package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
	ports "trimestre/internal/sheets"
)

func summary(key string, local int64) core.QuarterSummary {
	return core.QuarterSummary{
		Key:                 key,
		Measure:             core.MeasureValue,
		TotalLocal:          decimal.NewFromInt(local),
		TotalFora:           decimal.NewFromInt(2),
		TotalImportado:      decimal.NewFromInt(3),
		TotalSucata:         decimal.NewFromInt(4),
		TotalBeneficiamento: decimal.NewFromInt(5),
		TotalGeral:          decimal.NewFromInt(local + 14),
	}
}

func TestStoreUpsertAppendsThenReplaces(t *testing.T) {
	s := New()
	ctx := context.Background()

	res, err := s.UpsertQuarter(ctx, summary("Q1 2024", 1))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(res) != 2 || !res[0].Appended || res[0].Row != 2 || res[1].Tab != ports.TabDetalhes {
		t.Fatalf("unexpected first result: %+v", res)
	}

	if _, err := s.UpsertQuarter(ctx, summary("Q2 2024", 1)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	res, err = s.UpsertQuarter(ctx, summary("Q1 2024", 10))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res[0].Appended || res[0].Row != 2 {
		t.Fatalf("expected in-place update of row 2, got %+v", res[0])
	}

	rows := s.Rows(ports.TabTotais)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Values[0].Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected updated Total Local 10, got %s", rows[0].Values[0])
	}

	got, ok, err := s.GetQuarter(ctx, "Q1 2024")
	if err != nil || !ok {
		t.Fatalf("get quarter: ok=%v err=%v", ok, err)
	}
	if !got.TotalGeral.Equal(decimal.NewFromInt(24)) {
		t.Errorf("unexpected Total Geral %s", got.TotalGeral)
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	if _, err := New().UpsertQuarter(context.Background(), core.QuarterSummary{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestStoreGetMissing(t *testing.T) {
	_, ok, err := New().GetQuarter(context.Background(), "Q4 1999")
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
