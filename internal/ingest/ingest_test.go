package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"trimestre/internal/core"
	"trimestre/internal/period"
)

const movementHeader = "Material;Centro;Dt Lanct;Quantidade;Valor líquido;UF;Cliente/Fornec;Código do IVA;Unidade de medida;Descrição do item"

func movementCSV(lines ...string) []byte {
	return []byte(movementHeader + "\n" + strings.Join(lines, "\n") + "\n")
}

func TestParseCSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, movementCSV(
		"00010028330000123;1001;15.01.2024;2;R$ 1.234,56;sc;1048374;i2;CX;Caixa papelão",
		"555;1002;20.01.2024 10:30:00;1,5;100.25;;;;un;",
		"556;;21.01.2024;1;1;SP;;;un;",
		"557;1001;invalid;1;1;PR;abc;;un;",
	)...)

	f, err := Parse("jan.csv", data)
	require.NoError(t, err)
	assert.True(t, f.HasDateColumn)
	assert.True(t, f.HasUnitColumn)
	assert.Equal(t, 1, f.Dropped)
	require.Len(t, f.Records, 3)

	r := f.Records[0]
	assert.Equal(t, "10028330000123", r.MaterialCode)
	assert.Equal(t, 1001, r.CenterID)
	assert.Equal(t, "SC", r.State)
	assert.Equal(t, "I2", r.TaxCode)
	require.NotNil(t, r.VendorID)
	assert.Equal(t, int64(1048374), *r.VendorID)
	assert.Equal(t, "cx", r.Unit)
	assert.Equal(t, "Caixa papelão", r.Description)
	assert.True(t, r.NetValue.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), r.PostingDate)

	r = f.Records[1]
	assert.Equal(t, "", r.State)
	assert.Nil(t, r.VendorID)
	assert.True(t, r.Quantity.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 20, r.PostingDate.Day())

	r = f.Records[2]
	assert.False(t, r.HasPostingDate())
	assert.Nil(t, r.VendorID)

	src := f.Source()
	assert.Equal(t, "jan.csv", src.Name)
	// the row without a center still counts for reconciliation
	assert.Len(t, src.Dates, 4)
	assert.Equal(t, []int{1001, 1002}, f.Centers())
}

func TestParseKeepsDatesOfRowsWithoutCenter(t *testing.T) {
	f, err := Parse("jan.csv", movementCSV(
		"500;;15.01.2024;1;1;SC;;;un;",
		"501;;16.01.2024;1;1;SC;;;un;",
	))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Dropped)
	assert.Empty(t, f.Records)

	q, err := period.New(core.DefaultQuarters()).Reconcile([]period.Source{
		f.Source(),
		mustParse(t, "feb.csv", movementCSV("1;1001;10.02.2024;1;1;SC;;;un;")).Source(),
		mustParse(t, "mar.csv", movementCSV("1;1001;10.03.2024;1;1;SC;;;un;")).Source(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Q1", q.Label())
	assert.Equal(t, "jan.csv", q.Periods[0].Name)
}

func TestParseKeepsTextMaterialCodes(t *testing.T) {
	f, err := Parse("jan.csv", movementCSV(
		"12E3;1001;15.01.2024;1;1;SC;;;un;",
		"1001.0;1001;15.01.2024;1;1;SC;;;un;",
		"AB.5;1001;15.01.2024;1;1;SC;;;un;",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 3)
	assert.Equal(t, "12E3", f.Records[0].MaterialCode)
	assert.Equal(t, "1001.0", f.Records[1].MaterialCode)
	assert.Equal(t, "AB.5", f.Records[2].MaterialCode)
}

func TestSpreadsheetMaterialCode(t *testing.T) {
	sheet := &Table{Spreadsheet: true}
	text := &Table{}
	tests := []struct {
		in   string
		want string
	}{
		{"10028330000.0", "10028330000"},
		{"1.0028330000E+10", "10028330000"},
		{"12E3", "12E3"},
		{"1.5E+1", "15"},
		{"1.25E+1", "1.25E+1"},
		{"ABC", "ABC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sheet.materialCode(tt.in), tt.in)
		assert.Equal(t, tt.in, text.materialCode(tt.in), tt.in)
	}
}

func mustParse(t *testing.T, name string, data []byte) *File {
	t.Helper()
	f, err := Parse(name, data)
	require.NoError(t, err)
	return f
}

func TestParseWindows1252(t *testing.T) {
	text := "Material,Centro,Dt Lanct,Quantidade,Valor líquido,UF,Cliente/Fornec,Código do IVA,Descrição do item\n" +
		"42,1001,01.02.2024,3,10,PR,,,Açúcar\n"
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	f, err := Parse("feb.txt", encoded)
	require.NoError(t, err)
	assert.False(t, f.HasUnitColumn)
	require.Len(t, f.Records, 1)
	assert.Equal(t, "Açúcar", f.Records[0].Description)
	assert.Equal(t, "PR", f.Records[0].State)
}

func TestParseMissingColumn(t *testing.T) {
	data := []byte("Materia;Centro;Dt Lanct;Quantidade;Valor líquido;UF;Cliente/Fornec;Código do IVA\n1;1;01.01.2024;1;1;SC;;\n")
	_, err := Parse("bad.csv", data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	assert.Contains(t, err.Error(), `"Material"`)

	var ie *core.IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "bad.csv", ie.File)
}

func TestParseWithoutDateColumn(t *testing.T) {
	data := []byte("Material;Centro;Quantidade;Valor líquido;UF;Cliente/Fornec;Código do IVA\n1;1;1;1;SC;;\n")
	f, err := Parse("nodate.csv", data)
	require.NoError(t, err)
	assert.False(t, f.HasDateColumn)
	assert.False(t, f.Source().HasDateColumn)
}

func TestParseUnsupportedAndEmpty(t *testing.T) {
	_, err := Parse("report.pdf", []byte("x"))
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))

	_, err = Parse("empty.csv", []byte("  \n"))
	assert.True(t, errors.Is(err, core.ErrEmptyFile))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// a leading sheet without the movement headers is skipped
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Resumo"}))
	_, err := f.NewSheet("Dados")
	require.NoError(t, err)
	header := []interface{}{"MATERIAL", "centro", "Dt. Lanct", "Quantidade", "Valor Liquido", "UF", "Cliente/Fornec", "Codigo do IVA", "Unidade de medida"}
	require.NoError(t, f.SetSheetRow("Dados", "A1", &header))
	require.NoError(t, f.SetSheetRow("Dados", "A2", &[]interface{}{10028330000, 1001, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 4, 99.5, "SC", 1048374, "I2", "T"}))
	require.NoError(t, f.SetSheetRow("Dados", "A3", &[]interface{}{"777", "1002", "06.03.2024", "1", "1", "EX", "", "", "un"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	file, err := Parse("mar.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Records, 2)

	r := file.Records[0]
	assert.Equal(t, "10028330000", r.MaterialCode)
	assert.Equal(t, 1001, r.CenterID)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), r.PostingDate)
	assert.True(t, r.NetValue.Equal(decimal.RequireFromString("99.5")))
	assert.Equal(t, "t", r.Unit)
	require.NotNil(t, r.VendorID)

	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), file.Records[1].PostingDate)
	assert.Equal(t, "EX", file.Records[1].State)
}

func TestParseConversion(t *testing.T) {
	data := []byte("Material;Unidade de medida;Conversão na unidade de medida básica\n" +
		"Caixa papelão (000123);CX;12\n" +
		"Fita (456);CX;12\n" +
		"sem código;CX;10\n" +
		"789;rl;abc\n")

	src, err := ParseConversion("conv.csv", data)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Invalid)
	require.Len(t, src.Rows, 3)

	table, skipped := src.Table()
	assert.Equal(t, 2, skipped)
	factor, ok := table.Factor("123")
	require.True(t, ok)
	assert.True(t, factor.Equal(decimal.NewFromInt(12)))
	unit, ok := table.UnitFactor("cx")
	require.True(t, ok)
	assert.True(t, unit.Equal(decimal.NewFromInt(12)))
}

func TestParseConversionMissingFactor(t *testing.T) {
	_, err := ParseConversion("conv.csv", []byte("Material;Fator\n1;2\n"))
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apr.csv")
	require.NoError(t, os.WriteFile(path, movementCSV("1;1001;01.04.2024;1;1;SC;;;un;"), 0o600))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "apr.csv", f.Name)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	var ie *core.IngestionError
	assert.True(t, errors.As(err, &ie))
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"semicolon", "a;b;c\n1,5;2;3", ';'},
		{"comma", "a,b,c\n1;2", ','},
		{"tab", "a\tb\tc", '\t'},
		{"default", "single", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.text))
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, NormalizeHeader("Código do IVA"), NormalizeHeader("codigo  do iva"))
	assert.Equal(t, "DT LANCT", NormalizeHeader("Dt. Lanct"))
	assert.Equal(t, "CLIENTE FORNEC", NormalizeHeader("Cliente/Fornec"))
}

func TestParseCenters(t *testing.T) {
	got, err := ParseCenters("1001, 1002,,1003")
	require.NoError(t, err)
	assert.Equal(t, []int{1001, 1002, 1003}, got)

	_, err = ParseCenters("10a")
	assert.Error(t, err)
}

func TestDiscoverCenters(t *testing.T) {
	a := &File{Records: []core.TransactionRecord{{CenterID: 3}, {CenterID: 1}}}
	b := &File{Records: []core.TransactionRecord{{CenterID: 1}, {CenterID: 2}}}
	assert.Equal(t, []int{1, 2, 3}, DiscoverCenters([]*File{a, b}))
}
