// Package conversion normalises quantities to a common base unit.
//
// Simple units use a fixed multiplier. Complex units (boxes, sets, rolls, ...)
// need a per-material factor from a conversion Table, optionally falling back
// to the most common factor seen for the unit.
package conversion

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
)

// Row is one line of the conversion source.
type Row struct {
	Material string // "Description (000123)" or a plain code
	Unit     string
	Factor   decimal.Decimal
}

// Table maps normalised material codes to conversion factors. Read-only once built.
type Table struct {
	factors   map[string]decimal.Decimal
	unitModal map[string]decimal.Decimal
}

var embeddedCode = regexp.MustCompile(`\((\d+)\)`)

// ExtractCode returns the left-zero-stripped material code of a conversion row.
// The code is taken from the first parenthesised digit group, or from the whole
// text when it is only digits.
func ExtractCode(material string) (string, bool) {
	material = strings.TrimSpace(material)
	var code string
	if m := embeddedCode.FindStringSubmatch(material); m != nil {
		code = m[1]
	} else if material != "" && strings.Trim(material, "0123456789") == "" {
		code = material
	}
	code = core.NormalizeMaterial(code)
	return code, code != ""
}

// NewTable builds a table from an explicit code → factor mapping.
func NewTable(factors map[string]decimal.Decimal) *Table {
	t := &Table{factors: make(map[string]decimal.Decimal, len(factors)), unitModal: map[string]decimal.Decimal{}}
	for code, f := range factors {
		t.factors[core.NormalizeMaterial(code)] = f
	}
	return t
}

// BuildTable builds a table from conversion rows. Rows whose code cannot be
// extracted are skipped; later rows override earlier ones for the same code.
// Rows carrying a unit also feed the per-unit modal factor.
func BuildTable(rows []Row) (*Table, int) {
	t := &Table{factors: map[string]decimal.Decimal{}, unitModal: map[string]decimal.Decimal{}}
	counts := map[string]map[string]int{}
	values := map[string]decimal.Decimal{}
	skipped := 0
	for _, r := range rows {
		code, ok := ExtractCode(r.Material)
		if !ok {
			skipped++
			continue
		}
		t.factors[code] = r.Factor

		unit := core.NormalizeUnit(r.Unit)
		if unit == "" {
			continue
		}
		key := r.Factor.String()
		if counts[unit] == nil {
			counts[unit] = map[string]int{}
		}
		counts[unit][key]++
		values[key] = r.Factor
	}

	for unit, byFactor := range counts {
		keys := make([]string, 0, len(byFactor))
		for k := range byFactor {
			keys = append(keys, k)
		}
		// highest count wins, ties go to the smallest factor
		sort.Slice(keys, func(i, j int) bool {
			if byFactor[keys[i]] != byFactor[keys[j]] {
				return byFactor[keys[i]] > byFactor[keys[j]]
			}
			return values[keys[i]].LessThan(values[keys[j]])
		})
		t.unitModal[unit] = values[keys[0]]
	}
	return t, skipped
}

// Factor returns the material's own factor.
func (t *Table) Factor(code string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	f, ok := t.factors[code]
	return f, ok
}

// UnitFactor returns the most common factor recorded for a unit.
func (t *Table) UnitFactor(unit string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	f, ok := t.unitModal[unit]
	return f, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.factors)
}
