// Package ingest reads movement reports and conversion sources from csv and
// xlsx files into typed records.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"trimestre/internal/core"
	"trimestre/internal/period"
)

// File is one parsed movement report.
type File struct {
	Name          string
	Records       []core.TransactionRecord
	HasDateColumn bool
	HasUnitColumn bool
	// Dropped counts rows without a usable center.
	Dropped int
	// Dates holds the posting date of every data row, centers or not; zero
	// when the cell does not parse.
	Dates []time.Time
}

// Source returns the date information used for period reconciliation.
func (f *File) Source() period.Source {
	return period.Source{
		Name:          f.Name,
		HasDateColumn: f.HasDateColumn,
		Dates:         append([]time.Time(nil), f.Dates...),
	}
}

// Centers returns the distinct center ids in the file, ascending.
func (f *File) Centers() []int {
	return DiscoverCenters([]*File{f})
}

// ReadFile loads and parses a movement report from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.IngestionError{File: path, Err: err}
	}
	return Parse(filepath.Base(path), data)
}

// Parse parses a movement report. Errors are wrapped in core.IngestionError.
func Parse(name string, data []byte) (*File, error) {
	want := append(append([]string(nil), RequiredColumns...), ColPostingDate, ColUnit, ColDescription)
	t, err := ReadTable(name, data, want)
	if err != nil {
		return nil, &core.IngestionError{File: name, Err: err}
	}
	if err := t.Header.Require(RequiredColumns...); err != nil {
		return nil, &core.IngestionError{File: name, Err: err}
	}

	f := &File{
		Name:          name,
		HasDateColumn: t.Header.Has(ColPostingDate),
		HasUnitColumn: t.Header.Has(ColUnit),
		Records:       make([]core.TransactionRecord, 0, len(t.Rows)),
		Dates:         make([]time.Time, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		f.Dates = append(f.Dates, t.postingDate(t.Cell(row, ColPostingDate)))
		rec, ok := t.record(row)
		if !ok {
			f.Dropped++
			continue
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}

func (t *Table) record(row []string) (core.TransactionRecord, bool) {
	center, ok := parseInt(t.Cell(row, ColCenter))
	if !ok {
		return core.TransactionRecord{}, false
	}
	rec := core.TransactionRecord{
		MaterialCode: core.NormalizeMaterial(t.materialCode(t.Cell(row, ColMaterial))),
		CenterID:     int(center),
		TaxCode:      strings.ToUpper(t.Cell(row, ColTaxCode)),
		State:        core.NormalizeState(t.Cell(row, ColState)),
		Quantity:     core.ParseAmountOrZero(t.Cell(row, ColQuantity)),
		NetValue:     core.ParseAmountOrZero(t.Cell(row, ColNetValue)),
		Unit:         core.NormalizeUnit(t.Cell(row, ColUnit)),
		Description:  t.Cell(row, ColDescription),
	}
	if v, ok := parseInt(t.Cell(row, ColVendor)); ok {
		rec.VendorID = &v
	}
	rec.PostingDate = t.postingDate(t.Cell(row, ColPostingDate))
	return rec, true
}

func (t *Table) postingDate(s string) time.Time {
	if d, ok := core.ParsePostingDate(s); ok {
		return d
	}
	if !t.Spreadsheet || s == "" {
		return time.Time{}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}
	}
	d, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// parseInt accepts integral numbers, including spreadsheet renderings such as "1001.0".
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	return d.IntPart(), true
}

var (
	trailingZeros = regexp.MustCompile(`^(\d+)\.0+$`)
	// numeric cells stored by Excel in scientific form, e.g. 1.0028330000E+10
	excelScientific = regexp.MustCompile(`^\d\.\d+E[+]\d+$`)
)

// materialCode undoes float renderings of numeric material codes read from
// workbooks. Text files keep the cell as written.
func (t *Table) materialCode(s string) string {
	if !t.Spreadsheet {
		return s
	}
	if m := trailingZeros.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if !excelScientific.MatchString(s) {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return s
	}
	return d.Truncate(0).String()
}

// DiscoverCenters returns the distinct center ids across files, ascending.
func DiscoverCenters(files []*File) []int {
	seen := map[int]struct{}{}
	for _, f := range files {
		for _, r := range f.Records {
			seen[r.CenterID] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// ParseCenters parses a comma separated list of center ids.
func ParseCenters(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid center %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}
