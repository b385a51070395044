package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MeasureValue    Measure = "valor"
	MeasureQuantity Measure = "quantidade"
)

const (
	CategorySucata         Category = "Sucata"
	CategoryBeneficiamento Category = "Beneficiamento"
	CategoryImportado      Category = "Importado"
	CategoryUFNula         Category = "UF Nula"
	CategoryLocal          Category = "Local"
	CategoryFora           Category = "Fora"
	CategoryNacionalFora   Category = "NacionalFora"
	CategoryTotalGeral     Category = "TotalGeral"
)

const (
	StatusSucesso       Status = "sucesso"
	StatusErroConversao Status = "erro_conversao"
)

type (
	// Measure selects the column being aggregated.
	Measure string

	Category string

	Status string

	TransactionRecord struct {
		MaterialCode string // left-zero-stripped
		CenterID     int
		VendorID     *int64 // nil when Cliente/Fornec is empty or not numeric
		TaxCode      string
		State        string // "" when the source cell is null
		PostingDate  time.Time
		Quantity     decimal.Decimal
		NetValue     decimal.Decimal
		Unit         string // lower-cased, trimmed
		Description  string
		Category     Category
	}

	CategoryResult struct {
		Total decimal.Decimal
		Share decimal.Decimal
	}

	// MissingMaterial identifies a complex-unit material with no conversion factor.
	MissingMaterial struct {
		Material    string
		Description string
		Unit        string
	}

	PeriodResult struct {
		Status  Status
		Results map[Category]CategoryResult
		Missing []MissingMaterial
	}
)

// PartitionCategories lists the mutually exclusive buckets, in rule priority order.
var PartitionCategories = []Category{
	CategorySucata,
	CategoryBeneficiamento,
	CategoryImportado,
	CategoryUFNula,
	CategoryLocal,
	CategoryFora,
}

// ParseMeasure accepts the canonical names plus the column names used in the source files.
func ParseMeasure(s string) (Measure, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valor", "valor líquido", "financeiro", "value":
		return MeasureValue, true
	case "quantidade", "qtd", "quantity":
		return MeasureQuantity, true
	}
	return "", false
}

// ColumnName is the value column header used in exported sheets.
func (m Measure) ColumnName() string {
	if m == MeasureQuantity {
		return "Quantidade"
	}
	return "Valor"
}

// FileTag is the measure fragment used in the exported file name.
func (m Measure) FileTag() string {
	if m == MeasureQuantity {
		return "Quantidade"
	}
	return "Financeiro"
}

// Value returns the record's figure for the given measure.
func (r TransactionRecord) Value(m Measure) decimal.Decimal {
	if m == MeasureQuantity {
		return r.Quantity
	}
	return r.NetValue
}

// HasPostingDate reports whether the posting date parsed.
func (r TransactionRecord) HasPostingDate() bool {
	return !r.PostingDate.IsZero()
}

// Total returns the total for a category, zero when absent.
func (p PeriodResult) Total(c Category) decimal.Decimal {
	return p.Results[c].Total
}

// Share returns the share for a category, zero when absent.
func (p PeriodResult) Share(c Category) decimal.Decimal {
	return p.Results[c].Share
}

func (p PeriodResult) OK() bool {
	return p.Status == StatusSucesso
}

// NormalizeMaterial trims the code and strips its leading zeros.
func NormalizeMaterial(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "0")
}

// NormalizeUnit lower-cases and trims a unit of measure.
func NormalizeUnit(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeState upper-cases and trims a UF code. Spreadsheet nulls map to "".
func NormalizeState(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "NAN" || s == "NONE" || s == "NULL" {
		return ""
	}
	return s
}
