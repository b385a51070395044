package ingest

import (
	"os"
	"path/filepath"

	"trimestre/internal/conversion"
	"trimestre/internal/core"
)

// ConversionSource is a parsed conversion file.
type ConversionSource struct {
	Name string
	Rows []conversion.Row
	// Invalid counts rows whose factor is not a number.
	Invalid int
}

// Table builds the lookup table. Rows without an extractable code are counted
// as invalid too.
func (c *ConversionSource) Table() (*conversion.Table, int) {
	t, skipped := conversion.BuildTable(c.Rows)
	return t, skipped + c.Invalid
}

func ReadConversionFile(path string) (*ConversionSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.IngestionError{File: path, Err: err}
	}
	return ParseConversion(filepath.Base(path), data)
}

// ParseConversion reads the Material and conversion factor columns. The unit
// column is optional and feeds the per-unit fallback factor.
func ParseConversion(name string, data []byte) (*ConversionSource, error) {
	want := []string{ColMaterial, ColConversionFactor, ColUnit}
	t, err := ReadTable(name, data, want)
	if err != nil {
		return nil, &core.IngestionError{File: name, Err: err}
	}
	if err := t.Header.Require(ColMaterial, ColConversionFactor); err != nil {
		return nil, &core.IngestionError{File: name, Err: err}
	}

	src := &ConversionSource{Name: name}
	for _, row := range t.Rows {
		factor, err := core.ParseAmount(t.Cell(row, ColConversionFactor))
		if err != nil {
			src.Invalid++
			continue
		}
		src.Rows = append(src.Rows, conversion.Row{
			Material: t.Cell(row, ColMaterial),
			Unit:     t.Cell(row, ColUnit),
			Factor:   factor,
		})
	}
	return src, nil
}
