package conversion

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
)

// MissingDescription is used when a record carries no item description.
const MissingDescription = "N/A"

type UnitKind int

const (
	UnitUnknown UnitKind = iota
	UnitSimple
	UnitComplex
)

// Resolver converts record quantities into the base unit.
type Resolver struct {
	simple       map[string]decimal.Decimal
	complex      map[string]struct{}
	unitFallback bool
}

// NewResolver copies the unit configuration so later changes to cfg have no effect.
func NewResolver(cfg core.UnitConfig) *Resolver {
	r := &Resolver{
		simple:       make(map[string]decimal.Decimal, len(cfg.SimpleMultipliers)),
		complex:      make(map[string]struct{}, len(cfg.ComplexUnits)),
		unitFallback: cfg.UseUnitFallback,
	}
	for unit, mult := range cfg.SimpleMultipliers {
		r.simple[core.NormalizeUnit(unit)] = decimal.NewFromInt(mult)
	}
	for _, unit := range cfg.ComplexUnits {
		r.complex[core.NormalizeUnit(unit)] = struct{}{}
	}
	return r
}

func (r *Resolver) Kind(unit string) UnitKind {
	unit = core.NormalizeUnit(unit)
	if _, ok := r.simple[unit]; ok {
		return UnitSimple
	}
	if _, ok := r.complex[unit]; ok {
		return UnitComplex
	}
	return UnitUnknown
}

// Factor resolves the multiplier for one record: simple multiplier, then the
// material factor, then (when enabled) the unit's modal factor. Unknown units
// resolve to 1. ok is false only for a complex unit with no factor.
func (r *Resolver) Factor(rec core.TransactionRecord, table *Table) (decimal.Decimal, bool) {
	unit := core.NormalizeUnit(rec.Unit)
	switch r.Kind(unit) {
	case UnitSimple:
		return r.simple[unit], true
	case UnitUnknown:
		return decimal.NewFromInt(1), true
	}
	if f, ok := table.Factor(rec.MaterialCode); ok {
		return f, true
	}
	if r.unitFallback {
		if f, ok := table.UnitFactor(unit); ok {
			return f, true
		}
	}
	return decimal.Zero, false
}

// Convert rewrites the quantity of every record in place and returns the sorted,
// de-duplicated list of materials that could not be converted. Unconverted
// records keep their original quantity; callers must treat a non-empty result
// as a failure of the whole aggregation.
func (r *Resolver) Convert(records []core.TransactionRecord, table *Table) []core.MissingMaterial {
	seen := map[core.MissingMaterial]struct{}{}
	var missing []core.MissingMaterial
	for i := range records {
		rec := &records[i]
		f, ok := r.Factor(*rec, table)
		if !ok {
			desc := strings.TrimSpace(rec.Description)
			if desc == "" {
				desc = MissingDescription
			}
			m := core.MissingMaterial{
				Material:    rec.MaterialCode,
				Description: desc,
				Unit:        strings.ToUpper(core.NormalizeUnit(rec.Unit)),
			}
			if _, dup := seen[m]; !dup {
				seen[m] = struct{}{}
				missing = append(missing, m)
			}
			continue
		}
		rec.Quantity = rec.Quantity.Mul(f)
	}
	SortMissing(missing)
	return missing
}

// SortMissing orders missing triples by material, description, then unit.
func SortMissing(missing []core.MissingMaterial) {
	sort.Slice(missing, func(i, j int) bool {
		a, b := missing[i], missing[j]
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.Unit < b.Unit
	})
}
