package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoValidDates      = errors.New("no valid dates")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("empty file")
	ErrMixedYears        = errors.New("files belong to different years")
	ErrNotAQuarter       = errors.New("months do not form a quarter")
	ErrConversion        = errors.New("unit conversion failed")
	ErrNoCenters         = errors.New("no centers selected")
)

// IngestionError is fatal for the run and names the offending file.
type IngestionError struct {
	File string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// PeriodMismatchError reports the years or months that failed reconciliation.
type PeriodMismatchError struct {
	Err    error
	Years  []int
	Months []int
	Hint   string
}

func (e *PeriodMismatchError) Error() string {
	if errors.Is(e.Err, ErrMixedYears) {
		return fmt.Sprintf("%v: %v", e.Err, e.Years)
	}
	if e.Hint != "" {
		return fmt.Sprintf("%v: %v (%s)", e.Err, e.Months, e.Hint)
	}
	return fmt.Sprintf("%v: %v", e.Err, e.Months)
}

func (e *PeriodMismatchError) Unwrap() error { return e.Err }

// ConversionError carries the materials that need a conversion rule.
type ConversionError struct {
	Missing []MissingMaterial
}

func (e *ConversionError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("(%s, %s, %s)", m.Material, m.Description, m.Unit))
	}
	return fmt.Sprintf("%v: %d material(s) without factor: %s", ErrConversion, len(e.Missing), strings.Join(parts, ", "))
}

func (e *ConversionError) Unwrap() error { return ErrConversion }
