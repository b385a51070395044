package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
	ports "trimestre/internal/sheets"
)

var (
	_ ports.QuarterUpserter = (*Store)(nil)
	_ ports.QuarterReader   = (*Store)(nil)
)

// Row is one data row of a tab; row 1 is the header, so the first data row is 2.
type Row struct {
	Key    string
	Values []decimal.Decimal
}

// Store keeps both tabs in memory with the same upsert semantics as the spreadsheet.
type Store struct {
	mu       sync.Mutex
	tabs     map[string][]Row
	measures map[string]core.Measure
}

func New() *Store {
	return &Store{tabs: map[string][]Row{}, measures: map[string]core.Measure{}}
}

func (s *Store) UpsertQuarter(_ context.Context, q core.QuarterSummary) ([]core.UpsertResult, error) {
	if q.Key == "" {
		return nil, errors.New("quarter key is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.measures[q.Key] = q.Measure
	return []core.UpsertResult{
		s.upsert(ports.TabTotais, q.Key, q.TotaisValues()),
		s.upsert(ports.TabDetalhes, q.Key, q.DetalhesValues()),
	}, nil
}

func (s *Store) upsert(tab, key string, values []decimal.Decimal) core.UpsertResult {
	rows := s.tabs[tab]
	for i, r := range rows {
		if r.Key == key {
			rows[i].Values = values
			return core.UpsertResult{Tab: tab, Row: i + 2}
		}
	}
	s.tabs[tab] = append(rows, Row{Key: key, Values: values})
	return core.UpsertResult{Tab: tab, Row: len(rows) + 2, Appended: true}
}

func (s *Store) GetQuarter(_ context.Context, key string) (core.QuarterSummary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totais, ok1 := s.find(ports.TabTotais, key)
	detalhes, ok2 := s.find(ports.TabDetalhes, key)
	if !ok1 || !ok2 {
		return core.QuarterSummary{}, false, nil
	}
	q := core.QuarterSummary{
		Key:                 key,
		Measure:             s.measures[key],
		TotalLocal:          totais[0],
		TotalFora:           totais[1],
		TotalImportado:      totais[2],
		TotalSucata:         detalhes[0],
		TotalBeneficiamento: detalhes[1],
		TotalGeral:          detalhes[2],
	}
	return q, true, nil
}

func (s *Store) find(tab, key string) ([]decimal.Decimal, bool) {
	for _, r := range s.tabs[tab] {
		if r.Key == key && len(r.Values) == 3 {
			return r.Values, true
		}
	}
	return nil, false
}

// Rows returns a copy of a tab's data rows.
func (s *Store) Rows(tab string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.tabs[tab]...)
}
