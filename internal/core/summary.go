package core

import "github.com/shopspring/decimal"

// QuarterSummary is the consolidated figure set pushed to the sync targets.
type QuarterSummary struct {
	Key                 string          `json:"key"`
	Quarter             string          `json:"quarter"`
	Year                int             `json:"year"`
	Measure             Measure         `json:"measure"`
	TotalLocal          decimal.Decimal `json:"total_local"`
	TotalFora           decimal.Decimal `json:"total_fora"`
	TotalImportado      decimal.Decimal `json:"total_importado"`
	TotalSucata         decimal.Decimal `json:"total_sucata"`
	TotalBeneficiamento decimal.Decimal `json:"total_beneficiamento"`
	TotalGeral          decimal.Decimal `json:"total_geral"`
}

// UpsertResult describes what a sync target did with one tab.
type UpsertResult struct {
	Tab      string
	Row      int
	Appended bool
}

// NewQuarterSummary extracts the synced totals from the consolidated result.
func NewQuarterSummary(quarter string, year int, m Measure, consolidated PeriodResult) QuarterSummary {
	return QuarterSummary{
		Key:                 QuarterKey(quarter, year),
		Quarter:             quarter,
		Year:                year,
		Measure:             m,
		TotalLocal:          consolidated.Total(CategoryLocal),
		TotalFora:           consolidated.Total(CategoryFora),
		TotalImportado:      consolidated.Total(CategoryImportado),
		TotalSucata:         consolidated.Total(CategorySucata),
		TotalBeneficiamento: consolidated.Total(CategoryBeneficiamento),
		TotalGeral:          consolidated.Total(CategoryTotalGeral),
	}
}

// TotaisValues are the figures of the Totais tab, after the key column.
func (s QuarterSummary) TotaisValues() []decimal.Decimal {
	return []decimal.Decimal{s.TotalLocal, s.TotalFora, s.TotalImportado}
}

// DetalhesValues are the figures of the Detalhes tab, after the key column.
func (s QuarterSummary) DetalhesValues() []decimal.Decimal {
	return []decimal.Decimal{s.TotalSucata, s.TotalBeneficiamento, s.TotalGeral}
}
