package report

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimestre/internal/core"
	"trimestre/internal/period"
)

func result(local, fora int64) core.PeriodResult {
	total := decimal.NewFromInt(local + fora)
	share := func(v int64) decimal.Decimal {
		return decimal.NewFromInt(v).Div(total)
	}
	return core.PeriodResult{
		Status: core.StatusSucesso,
		Results: map[core.Category]core.CategoryResult{
			core.CategoryLocal:        {Total: decimal.NewFromInt(local), Share: share(local)},
			core.CategoryFora:         {Total: decimal.NewFromInt(fora), Share: share(fora)},
			core.CategoryNacionalFora: {Total: decimal.NewFromInt(fora), Share: share(fora)},
			core.CategoryTotalGeral:   {Total: total, Share: decimal.NewFromInt(1)},
		},
	}
}

func quarter() period.Quarter {
	return period.Quarter{
		Definition: core.DefaultQuarters()[0],
		Year:       2024,
		Periods: []period.Period{
			{Name: "a", Month: 1, Label: "01/2024"},
			{Name: "b", Month: 2, Label: "02/2024"},
			{Name: "c", Month: 3, Label: "03/2024"},
		},
	}
}

func TestAssemble(t *testing.T) {
	periods := []core.PeriodResult{result(30, 70), result(50, 50), result(10, 10)}
	rep, err := Assemble(quarter(), core.MeasureValue, periods, result(90, 130))
	require.NoError(t, err)

	require.Len(t, rep.Sections, 4)
	assert.Equal(t, "01/2024", rep.Sections[0].Label)
	assert.Equal(t, "03/2024", rep.Sections[2].Label)
	assert.Equal(t, "Consolidado Q1 2024", rep.Sections[3].Label)
	assert.True(t, rep.Sections[3].Consolidated)
	assert.Equal(t, "Relatorio_Financeiro_Q1_2024.xlsx", rep.FileName())

	for _, s := range rep.Sections {
		require.Len(t, s.Rows, 13)
		for i, row := range s.Rows {
			assert.Equal(t, Indicators[i].Key, row.Indicator)
			assert.Equal(t, IsPercentKey(row.Indicator), row.Percent)
		}
	}

	cons, ok := rep.Consolidated()
	require.True(t, ok)
	v, ok := cons.Value("Total Geral")
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(220)))
	v, _ = cons.Value("Total Nacional Fora")
	assert.True(t, v.Equal(decimal.NewFromInt(130)))
	v, _ = rep.Sections[0].Value("% - Local")
	assert.True(t, v.Equal(decimal.RequireFromString("0.3")))
	v, _ = rep.Sections[0].Value("% - Sucata")
	assert.True(t, v.IsZero())
}

func TestAssembleConversionFailure(t *testing.T) {
	failed := core.PeriodResult{
		Status:  core.StatusErroConversao,
		Missing: []core.MissingMaterial{{Material: "42", Description: "Caixa", Unit: "CX"}},
	}
	periods := []core.PeriodResult{result(1, 1), failed, result(1, 1)}
	_, err := Assemble(quarter(), core.MeasureQuantity, periods, result(2, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConversion))

	var ce *core.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, failed.Missing, ce.Missing)
}

func TestAssembleMisaligned(t *testing.T) {
	_, err := Assemble(quarter(), core.MeasureValue, []core.PeriodResult{result(1, 1)}, result(1, 1))
	assert.Error(t, err)
}

func TestFileNameQuantity(t *testing.T) {
	rep := Report{Quarter: "Q3", Year: 2023, Measure: core.MeasureQuantity}
	assert.Equal(t, "Relatorio_Quantidade_Q3_2023.xlsx", rep.FileName())
}
