package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimestre/internal/core"
)

func day(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func source(name string, dates ...time.Time) Source {
	return Source{Name: name, HasDateColumn: true, Dates: dates}
}

func TestReconcileQuarter(t *testing.T) {
	r := New(core.DefaultQuarters())
	sources := []Source{
		source("mar.csv", day(2024, 3, 1), day(2024, 3, 20)),
		source("jan.csv", day(2024, 1, 5), day(2024, 2, 1), day(2024, 1, 30)),
		source("feb.csv", day(2024, 2, 10), time.Time{}),
	}

	q, err := r.Reconcile(sources)
	require.NoError(t, err)
	assert.Equal(t, "Q1", q.Label())
	assert.Equal(t, 2024, q.Year)
	assert.Equal(t, "Q1 2024", q.Key())
	assert.Equal(t, "Consolidado Q1 2024", q.ConsolidatedLabel())

	require.Len(t, q.Periods, 3)
	assert.Equal(t, []string{"jan.csv", "feb.csv", "mar.csv"}, []string{q.Periods[0].Name, q.Periods[1].Name, q.Periods[2].Name})
	assert.Equal(t, []string{"01/2024", "02/2024", "03/2024"}, []string{q.Periods[0].Label, q.Periods[1].Label, q.Periods[2].Label})
	assert.Equal(t, 1, q.Periods[0].Index)
	assert.Equal(t, 0, q.Periods[2].Index)
}

func TestReconcileOrderIndependent(t *testing.T) {
	r := New(core.DefaultQuarters())
	a := source("a", day(2023, 10, 1))
	b := source("b", day(2023, 11, 1))
	c := source("c", day(2023, 12, 1))

	q1, err := r.Reconcile([]Source{a, b, c})
	require.NoError(t, err)
	q2, err := r.Reconcile([]Source{c, a, b})
	require.NoError(t, err)

	assert.Equal(t, "Q4", q1.Label())
	for i := range q1.Periods {
		assert.Equal(t, q1.Periods[i].Name, q2.Periods[i].Name)
		assert.Equal(t, q1.Periods[i].Label, q2.Periods[i].Label)
	}
}

func TestReconcileNotAQuarter(t *testing.T) {
	r := New(core.DefaultQuarters())
	_, err := r.Reconcile([]Source{
		source("a", day(2024, 4, 1)),
		source("b", day(2024, 1, 1)),
		source("c", day(2024, 2, 1)),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotAQuarter))

	var pm *core.PeriodMismatchError
	require.True(t, errors.As(err, &pm))
	assert.Equal(t, []int{1, 2, 4}, pm.Months)
	assert.True(t, IsMismatch(err))
}

func TestReconcileIncompleteQuarterHint(t *testing.T) {
	r := New(core.DefaultQuarters())
	_, err := r.Reconcile([]Source{
		source("a", day(2024, 7, 1)),
		source("b", day(2024, 9, 1)),
	})
	var pm *core.PeriodMismatchError
	require.True(t, errors.As(err, &pm))
	assert.Equal(t, "Q3 incompleto, faltando: Agosto", pm.Hint)
	assert.Contains(t, err.Error(), "Agosto")
}

func TestReconcileMixedYears(t *testing.T) {
	r := New(core.DefaultQuarters())
	_, err := r.Reconcile([]Source{
		source("a", day(2024, 1, 1)),
		source("b", day(2023, 2, 1)),
		source("c", day(2024, 3, 1)),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMixedYears))

	var pm *core.PeriodMismatchError
	require.True(t, errors.As(err, &pm))
	assert.Equal(t, []int{2023, 2024}, pm.Years)
}

func TestReconcileIngestionErrors(t *testing.T) {
	r := New(core.DefaultQuarters())

	_, err := r.Reconcile([]Source{{Name: "nodate.csv"}})
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	var ie *core.IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "nodate.csv", ie.File)

	_, err = r.Reconcile([]Source{source("blank.csv", time.Time{}, time.Time{})})
	assert.True(t, errors.Is(err, core.ErrNoValidDates))
}

func TestMode(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"single", []int{5}, 5},
		{"majority", []int{2, 1, 2, 3}, 2},
		{"tie picks smallest", []int{3, 1, 3, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.values))
		})
	}
}
