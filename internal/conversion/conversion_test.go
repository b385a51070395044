package conversion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimestre/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(material, unit, qty, desc string) core.TransactionRecord {
	return core.TransactionRecord{MaterialCode: material, Unit: unit, Quantity: dec(qty), Description: desc}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		in   string
		code string
		ok   bool
	}{
		{"CAIXA PAPELAO (000123456)", "123456", true},
		{"Torneira (10) extra (20)", "10", true},
		{"000987", "987", true},
		{"sem codigo", "", false},
		{"(000)", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			code, ok := ExtractCode(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestBuildTable(t *testing.T) {
	table, skipped := BuildTable([]Row{
		{Material: "Item A (0001)", Unit: "CX", Factor: dec("12")},
		{Material: "Item B (0002)", Unit: "cx", Factor: dec("12")},
		{Material: "Item C (0003)", Unit: "cx", Factor: dec("6")},
		{Material: "Item A again (1)", Unit: "", Factor: dec("24")},
		{Material: "no code", Unit: "cx", Factor: dec("99")},
		{Material: "Rolo (0004)", Unit: "RL", Factor: dec("50")},
		{Material: "Rolo (0005)", Unit: "RL", Factor: dec("30")},
	})

	assert.Equal(t, 1, skipped)
	assert.Equal(t, 5, table.Len())

	f, ok := table.Factor("1")
	require.True(t, ok)
	assert.True(t, f.Equal(dec("24")), "later rows override earlier ones")

	f, ok = table.UnitFactor("cx")
	require.True(t, ok)
	assert.True(t, f.Equal(dec("12")), "modal factor for cx")

	f, ok = table.UnitFactor("rl")
	require.True(t, ok)
	assert.True(t, f.Equal(dec("30")), "ties resolve to the smallest factor")

	_, ok = table.UnitFactor("pct")
	assert.False(t, ok)
}

func TestResolverKind(t *testing.T) {
	r := NewResolver(core.DefaultUnitConfig())
	assert.Equal(t, UnitSimple, r.Kind(" Tonelada "))
	assert.Equal(t, UnitComplex, r.Kind("CX"))
	assert.Equal(t, UnitUnknown, r.Kind("kg"))
}

func TestConvert(t *testing.T) {
	r := NewResolver(core.DefaultUnitConfig())
	table := NewTable(map[string]decimal.Decimal{"42": dec("10")})

	records := []core.TransactionRecord{
		rec("1", "t", "2", ""),
		rec("2", "cento", "3", ""),
		rec("42", "cx", "4", ""),
		rec("3", "kg", "5", ""),
	}
	missing := r.Convert(records, table)

	assert.Empty(t, missing)
	assert.True(t, records[0].Quantity.Equal(dec("2000")))
	assert.True(t, records[1].Quantity.Equal(dec("300")))
	assert.True(t, records[2].Quantity.Equal(dec("40")))
	assert.True(t, records[3].Quantity.Equal(dec("5")), "unknown units stay unchanged")
}

func TestConvertReportsMissingSortedAndDeduplicated(t *testing.T) {
	r := NewResolver(core.DefaultUnitConfig())
	table := NewTable(nil)

	records := []core.TransactionRecord{
		rec("900", "Pct", "1", "Pacote parafusos"),
		rec("100", "cx", "1", ""),
		rec("900", "pct", "2", "Pacote parafusos"),
		rec("100", "kg", "1", ""),
	}
	missing := r.Convert(records, table)

	assert.Equal(t, []core.MissingMaterial{
		{Material: "100", Description: "N/A", Unit: "CX"},
		{Material: "900", Description: "Pacote parafusos", Unit: "PCT"},
	}, missing)
	assert.True(t, records[0].Quantity.Equal(dec("1")), "missing records keep the raw quantity")
}

func TestConvertUnitFallbackToggle(t *testing.T) {
	table, _ := BuildTable([]Row{{Material: "(7)", Unit: "cx", Factor: dec("5")}})
	records := func() []core.TransactionRecord {
		return []core.TransactionRecord{rec("8", "cx", "2", "Caixa")}
	}

	strict := NewResolver(core.DefaultUnitConfig())
	recs := records()
	assert.Len(t, strict.Convert(recs, table), 1)

	cfg := core.DefaultUnitConfig()
	cfg.UseUnitFallback = true
	lenient := NewResolver(cfg)
	recs = records()
	assert.Empty(t, lenient.Convert(recs, table))
	assert.True(t, recs[0].Quantity.Equal(dec("10")))
}

func TestNilTable(t *testing.T) {
	r := NewResolver(core.DefaultUnitConfig())
	records := []core.TransactionRecord{rec("1", "cx", "1", "")}
	assert.Len(t, r.Convert(records, nil), 1)
}
