// Package core provides amount parsing and display helpers.
//
// This file contains functions for parsing the numeric columns of the accounting
// exports, which mix US and Brazilian notation, and for formatting the results.
package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PostingDateLayout is the day.month.year format of the Dt Lanct column;
// day and month may be zero padded or not.
const PostingDateLayout = "2.1.2006"

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a numeric cell to a decimal.
//
// It accepts an optional "R$" marker, US (1,234.56) and Brazilian (1.234,56)
// notation, and a leading or trailing minus sign. When both separators are
// present the right-most one is the decimal separator; a lone comma is a
// decimal comma; repeated dots are thousands separators.
//
// Examples:
//   ParseAmount("R$ 1.234,56") -> 1234.56
//   ParseAmount("1,234.56")    -> 1234.56
//   ParseAmount("12,5")        -> 12.5
//   ParseAmount("1.234.567")   -> 1234567
//   ParseAmount("1.234,56-")   -> -1234.56
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	if s == "" || strings.ContainsAny(s, ",") {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseAmountOrZero is ParseAmount with unparseable cells counted as zero.
func ParseAmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePostingDate parses a Dt Lanct cell. A trailing time component is ignored.
func ParsePostingDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(PostingDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatBRL renders a monetary value as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return "R$ " + sign + groupThousands(intPart) + "," + frac
}

// FormatQuantity renders a quantity truncated to an integer with dot grouping.
func FormatQuantity(d decimal.Decimal) string {
	s := d.Truncate(0).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	return sign + groupThousands(s)
}

// FormatPercent renders a share as "12,34%".
func FormatPercent(d decimal.Decimal) string {
	return strings.Replace(d.Mul(decimal.NewFromInt(100)).StringFixed(2), ".", ",", 1) + "%"
}

// FormatMeasure picks the display format matching the measure.
func FormatMeasure(m Measure, d decimal.Decimal) string {
	if m == MeasureQuantity {
		return FormatQuantity(d)
	}
	return FormatBRL(d)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
