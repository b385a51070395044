// Package aggregate sums the chosen measure per category over a record set.
package aggregate

import (
	"github.com/shopspring/decimal"

	"trimestre/internal/classify"
	"trimestre/internal/conversion"
	"trimestre/internal/core"
)

// sharePrecision is the number of decimal places kept for category shares.
const sharePrecision = 16

// MissingUnitColumn is reported when quantity conversion is requested but the
// files carry no unit of measure column.
var MissingUnitColumn = core.MissingMaterial{
	Material:    "N/A",
	Description: "coluna 'Unidade de medida' não encontrada nos relatórios",
	Unit:        "N/A",
}

// Input is one aggregation call. Records are not modified.
type Input struct {
	Records []core.TransactionRecord
	Centers []int
	Measure core.Measure
	// Conversion enables quantity normalisation when Measure is quantity.
	Conversion        *conversion.Table
	UnitColumnPresent bool
}

type Aggregator struct {
	classifier *classify.Classifier
	resolver   *conversion.Resolver
}

func New(classifier *classify.Classifier, resolver *conversion.Resolver) *Aggregator {
	return &Aggregator{classifier: classifier, resolver: resolver}
}

// NewFromConfig wires a classifier and resolver from the engine configuration.
func NewFromConfig(cfg core.EngineConfig) *Aggregator {
	return New(classify.New(cfg.Classification), conversion.NewResolver(cfg.Units))
}

// Aggregate filters the records to the selected centers, converts quantities
// when requested, classifies and sums. Any unresolved conversion turns the
// whole result into StatusErroConversao with no category sums.
func (a *Aggregator) Aggregate(in Input) core.PeriodResult {
	work := Filter(in.Records, in.Centers)

	if in.Measure == core.MeasureQuantity && in.Conversion != nil {
		if !in.UnitColumnPresent {
			return conversionFailure([]core.MissingMaterial{MissingUnitColumn})
		}
		if missing := a.resolver.Convert(work, in.Conversion); len(missing) > 0 {
			return conversionFailure(missing)
		}
	}

	a.classifier.ClassifyAll(work)
	return Summarize(work, in.Measure)
}

// Filter returns a private copy of the records whose center is selected and
// whose posting date parsed.
func Filter(records []core.TransactionRecord, centers []int) []core.TransactionRecord {
	selected := make(map[int]struct{}, len(centers))
	for _, c := range centers {
		selected[c] = struct{}{}
	}
	out := make([]core.TransactionRecord, 0, len(records))
	for _, r := range records {
		if _, ok := selected[r.CenterID]; !ok || !r.HasPostingDate() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize sums already-classified records. Shares are zero when the grand
// total is zero.
func Summarize(records []core.TransactionRecord, m core.Measure) core.PeriodResult {
	sums := make(map[core.Category]decimal.Decimal, len(core.PartitionCategories))
	for _, c := range core.PartitionCategories {
		sums[c] = decimal.Zero
	}
	total := decimal.Zero
	for _, r := range records {
		v := r.Value(m)
		sums[r.Category] = sums[r.Category].Add(v)
		total = total.Add(v)
	}
	// NacionalFora mirrors Fora; no distance rule exists yet.
	sums[core.CategoryNacionalFora] = sums[core.CategoryFora]
	sums[core.CategoryTotalGeral] = total

	results := make(map[core.Category]core.CategoryResult, len(sums))
	for c, sum := range sums {
		results[c] = core.CategoryResult{Total: sum, Share: Share(sum, total)}
	}
	return core.PeriodResult{Status: core.StatusSucesso, Results: results}
}

// Share is part/total, or zero when total is zero.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.DivRound(total, sharePrecision)
}

func conversionFailure(missing []core.MissingMaterial) core.PeriodResult {
	return core.PeriodResult{Status: core.StatusErroConversao, Missing: missing}
}
