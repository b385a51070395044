// Package report turns aggregation results into the per-period and consolidated
// indicator sections of a quarterly report.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"trimestre/internal/core"
	"trimestre/internal/period"
)

// Indicator maps an exported key to a category figure.
type Indicator struct {
	Key      string
	Category core.Category
	Percent  bool
}

// Indicators are the exported keys, in output order.
var Indicators = []Indicator{
	{Key: "Total Local", Category: core.CategoryLocal},
	{Key: "Total Fora", Category: core.CategoryFora},
	{Key: "Total Importado", Category: core.CategoryImportado},
	{Key: "Total Beneficiamento", Category: core.CategoryBeneficiamento},
	{Key: "Total Sucata", Category: core.CategorySucata},
	{Key: "Total Nacional Fora", Category: core.CategoryNacionalFora},
	{Key: "Total Geral", Category: core.CategoryTotalGeral},
	{Key: "% - Sucata", Category: core.CategorySucata, Percent: true},
	{Key: "% - Beneficiamento", Category: core.CategoryBeneficiamento, Percent: true},
	{Key: "% - Local", Category: core.CategoryLocal, Percent: true},
	{Key: "% - Fora", Category: core.CategoryFora, Percent: true},
	{Key: "% - Importação", Category: core.CategoryImportado, Percent: true},
	{Key: "% - Nacional Fora", Category: core.CategoryNacionalFora, Percent: true},
}

type Row struct {
	Indicator string
	Value     decimal.Decimal
	Percent   bool
}

type Section struct {
	Label        string // MM/YYYY, or "Consolidado <Q> <YYYY>"
	Consolidated bool
	Rows         []Row
}

// Report is the ordered set of sections for one quarter and measure.
type Report struct {
	Quarter  string
	Year     int
	Measure  core.Measure
	Sections []Section
}

// FileName is the exported workbook name.
func (r Report) FileName() string {
	return fmt.Sprintf("Relatorio_%s_%s_%d.xlsx", r.Measure.FileTag(), r.Quarter, r.Year)
}

// Consolidated returns the consolidated section, if present.
func (r Report) Consolidated() (Section, bool) {
	for _, s := range r.Sections {
		if s.Consolidated {
			return s, true
		}
	}
	return Section{}, false
}

// Value looks up an indicator in a section.
func (s Section) Value(key string) (decimal.Decimal, bool) {
	for _, row := range s.Rows {
		if row.Indicator == key {
			return row.Value, true
		}
	}
	return decimal.Zero, false
}

// Rows projects a successful result onto the exported indicators.
func Rows(res core.PeriodResult) []Row {
	rows := make([]Row, 0, len(Indicators))
	for _, ind := range Indicators {
		v := res.Total(ind.Category)
		if ind.Percent {
			v = res.Share(ind.Category)
		}
		rows = append(rows, Row{Indicator: ind.Key, Value: v, Percent: ind.Percent})
	}
	return rows
}

// IsPercentKey reports whether an indicator key holds a share.
func IsPercentKey(key string) bool {
	return strings.HasPrefix(key, "%")
}

// Assemble builds the report. periods must be aligned with q.Periods. A result
// that failed conversion aborts assembly with its missing materials.
func Assemble(q period.Quarter, m core.Measure, periods []core.PeriodResult, consolidated core.PeriodResult) (Report, error) {
	if len(periods) != len(q.Periods) {
		return Report{}, fmt.Errorf("assemble report: %d results for %d periods", len(periods), len(q.Periods))
	}
	rep := Report{Quarter: q.Label(), Year: q.Year, Measure: m}
	for i, p := range q.Periods {
		res := periods[i]
		if !res.OK() {
			return Report{}, &core.ConversionError{Missing: res.Missing}
		}
		rep.Sections = append(rep.Sections, Section{Label: p.Label, Rows: Rows(res)})
	}
	if !consolidated.OK() {
		return Report{}, &core.ConversionError{Missing: consolidated.Missing}
	}
	rep.Sections = append(rep.Sections, Section{
		Label:        q.ConsolidatedLabel(),
		Consolidated: true,
		Rows:         Rows(consolidated),
	})
	return rep, nil
}
