// Package period derives the reporting month of each file and checks that the
// files together form exactly one calendar quarter.
package period

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"trimestre/internal/core"
)

// DateColumn is the posting date column used to identify a file's month.
const DateColumn = "Dt Lanct"

// Source is the date information of one input file. Zero dates are rows whose
// date did not parse.
type Source struct {
	Name          string
	HasDateColumn bool
	Dates         []time.Time
}

// Period is one file placed in the quarter.
type Period struct {
	Index int // position in the Reconcile input
	Name  string
	Month int
	Label string // MM/YYYY
}

type Quarter struct {
	Definition core.QuarterDefinition
	Year       int
	Periods    []Period // ascending by month
}

func (q Quarter) Label() string { return q.Definition.Label }

// Key is the "<Q> <YYYY>" key shared by the consolidated section and the sync tabs.
func (q Quarter) Key() string { return core.QuarterKey(q.Definition.Label, q.Year) }

func (q Quarter) ConsolidatedLabel() string { return "Consolidado " + q.Key() }

type Reconciler struct {
	quarters []core.QuarterDefinition
}

func New(quarters []core.QuarterDefinition) *Reconciler {
	return &Reconciler{quarters: append([]core.QuarterDefinition(nil), quarters...)}
}

// Reconcile validates the sources and returns the quarter with the files in
// canonical month order. The result does not depend on the input order.
func (r *Reconciler) Reconcile(sources []Source) (Quarter, error) {
	type modal struct {
		index int
		month int
		year  int
	}
	modals := make([]modal, 0, len(sources))
	for i, src := range sources {
		if !src.HasDateColumn {
			return Quarter{}, &core.IngestionError{File: src.Name, Err: fmt.Errorf("%w: %q", core.ErrMissingColumn, DateColumn)}
		}
		var months, years []int
		for _, d := range src.Dates {
			if d.IsZero() {
				continue
			}
			months = append(months, int(d.Month()))
			years = append(years, d.Year())
		}
		if len(months) == 0 {
			return Quarter{}, &core.IngestionError{File: src.Name, Err: core.ErrNoValidDates}
		}
		modals = append(modals, modal{index: i, month: Mode(months), year: Mode(years)})
	}

	years := map[int]struct{}{}
	for _, m := range modals {
		years[m.year] = struct{}{}
	}
	if len(years) != 1 {
		seen := make([]int, 0, len(years))
		for y := range years {
			seen = append(seen, y)
		}
		sort.Ints(seen)
		return Quarter{}, &core.PeriodMismatchError{Err: core.ErrMixedYears, Years: seen}
	}
	year := modals[0].year

	months := make([]int, len(modals))
	for i, m := range modals {
		months[i] = m.month
	}
	sort.Ints(months)

	def, ok := r.match(months)
	if !ok {
		return Quarter{}, &core.PeriodMismatchError{Err: core.ErrNotAQuarter, Months: months, Hint: r.hint(months)}
	}

	sort.SliceStable(modals, func(i, j int) bool { return modals[i].month < modals[j].month })
	periods := make([]Period, len(modals))
	for i, m := range modals {
		periods[i] = Period{
			Index: m.index,
			Name:  sources[m.index].Name,
			Month: m.month,
			Label: fmt.Sprintf("%02d/%d", m.month, year),
		}
	}
	return Quarter{Definition: def, Year: year, Periods: periods}, nil
}

func (r *Reconciler) match(sorted []int) (core.QuarterDefinition, bool) {
	for _, q := range r.quarters {
		if q.Matches(sorted) {
			return q, true
		}
	}
	return core.QuarterDefinition{}, false
}

// hint names the missing months when every month belongs to the same quarter.
func (r *Reconciler) hint(sorted []int) string {
	if len(sorted) == 0 {
		return ""
	}
	for _, q := range r.quarters {
		all := true
		for _, m := range sorted {
			if _, ok := q.MonthName(m); !ok {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		var missing []string
		for i, m := range q.Months {
			found := false
			for _, s := range sorted {
				if s == m {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, q.MonthNames[i])
			}
		}
		if len(missing) == 0 {
			return fmt.Sprintf("%s com meses repetidos", q.Label)
		}
		return fmt.Sprintf("%s incompleto, faltando: %s", q.Label, strings.Join(missing, ", "))
	}
	return ""
}

// Mode returns the most frequent value; ties resolve to the smallest value.
func Mode(values []int) int {
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := 0, -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

// IsMismatch reports whether err is a quarter/year reconciliation failure.
func IsMismatch(err error) bool {
	var pm *core.PeriodMismatchError
	return errors.As(err, &pm)
}
