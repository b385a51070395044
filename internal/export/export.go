// Package export writes a report to an xlsx workbook, one sheet per section.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"trimestre/internal/report"
)

const (
	indicatorHeader = "Indicador"

	numFmtNumber  = 4  // #,##0.00
	numFmtPercent = 10 // 0.00%
)

// SheetName is the workbook sheet used for a section.
func SheetName(rep report.Report, s report.Section) string {
	if s.Consolidated {
		return fmt.Sprintf("Consolidado %s-%d", rep.Quarter, rep.Year)
	}
	return strings.ReplaceAll(s.Label, "/", "-")
}

// Write renders the report as an xlsx workbook.
func Write(w io.Writer, rep report.Report) error {
	f, err := build(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the report into dir under its canonical file name and
// returns the resulting path.
func WriteFile(dir string, rep report.Report) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, rep.FileName())
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, rep); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func build(rep report.Report) (*excelize.File, error) {
	if len(rep.Sections) == 0 {
		return nil, fmt.Errorf("report %s has no sections", rep.FileName())
	}

	f := excelize.NewFile()
	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, s := range rep.Sections {
		name := SheetName(rep, s)
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSection(f, name, rep, s, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

type styleSet struct {
	header  int
	number  int
	percent int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.number, err = f.NewStyle(&excelize.Style{NumFmt: numFmtNumber}); err != nil {
		return s, fmt.Errorf("number style: %w", err)
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent}); err != nil {
		return s, fmt.Errorf("percent style: %w", err)
	}
	return s, nil
}

func writeSection(f *excelize.File, sheet string, rep report.Report, s report.Section, styles styleSet) error {
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{indicatorHeader, rep.Measure.ColumnName()}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", styles.header); err != nil {
		return err
	}
	for i, row := range s.Rows {
		r := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Indicator); err != nil {
			return err
		}
		cell := fmt.Sprintf("B%d", r)
		if err := f.SetCellValue(sheet, cell, row.Value.InexactFloat64()); err != nil {
			return err
		}
		style := styles.number
		if row.Percent {
			style = styles.percent
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 20)
}
