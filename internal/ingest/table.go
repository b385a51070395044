package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"trimestre/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is the raw content of one input file: a header and its data rows.
type Table struct {
	Name   string
	Header Header
	Rows   [][]string
	// Spreadsheet marks tables read from xlsx, whose dates may be serial numbers.
	Spreadsheet bool
}

// Cell returns the trimmed value of a column in a row, "" when absent.
func (t *Table) Cell(row []string, column string) string {
	i := t.Header.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadTable reads a csv/txt or xlsx file. For workbooks the first sheet
// carrying the most of want is used.
func ReadTable(name string, data []byte, want []string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return readCSV(name, data)
	case ".xlsx", ".xlsm":
		return readXLSX(name, data, want)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// DecodeText returns the file content as UTF-8. A BOM is dropped; content that
// is not valid UTF-8 is decoded as Windows-1252.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), nil
}

// DetectDelimiter picks the most frequent of ';', ',' and tab in the first line.
func DetectDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ';', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readCSV(name string, data []byte) (*Table, error) {
	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyFile
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = DetectDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return newTable(name, rows, false)
}

func readXLSX(name string, data []byte, want []string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var best *Table
	bestScore := -1
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		t, err := newTable(name, rows, true)
		if errors.Is(err, core.ErrEmptyFile) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if score := t.Header.matches(want); score > bestScore {
			best, bestScore = t, score
		}
		if bestScore == len(want) {
			break
		}
	}
	if best == nil {
		return nil, core.ErrEmptyFile
	}
	return best, nil
}

// newTable takes the first non-blank row as the header.
func newTable(name string, rows [][]string, spreadsheet bool) (*Table, error) {
	for i, row := range rows {
		if blank(row) {
			continue
		}
		return &Table{
			Name:        name,
			Header:      NewHeader(row),
			Rows:        dropBlank(rows[i+1:]),
			Spreadsheet: spreadsheet,
		}, nil
	}
	return nil, core.ErrEmptyFile
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func dropBlank(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, r := range rows {
		if !blank(r) {
			out = append(out, r)
		}
	}
	return out
}
