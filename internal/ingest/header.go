package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trimestre/internal/core"
)

// Source column names.
const (
	ColMaterial    = "Material"
	ColCenter      = "Centro"
	ColPostingDate = "Dt Lanct"
	ColQuantity    = "Quantidade"
	ColNetValue    = "Valor líquido"
	ColState       = "UF"
	ColVendor      = "Cliente/Fornec"
	ColTaxCode     = "Código do IVA"
	ColUnit        = "Unidade de medida"
	ColDescription = "Descrição do item"

	ColConversionFactor = "Conversão na unidade de medida básica"
)

// RequiredColumns must be present in every movement file. The posting date
// column is checked during period reconciliation.
var RequiredColumns = []string{
	ColMaterial, ColCenter, ColQuantity, ColNetValue, ColState, ColVendor, ColTaxCode,
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// NormalizeHeader folds accents, case, punctuation and spacing so headers
// exported by different tools compare equal.
func NormalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToUpper(out)
	out = nonAlphanumeric.ReplaceAllString(out, " ")
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Header indexes the columns of a table by normalised name.
type Header struct {
	names []string
	index map[string]int
}

func NewHeader(names []string) Header {
	h := Header{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		key := NormalizeHeader(n)
		if key == "" {
			continue
		}
		if _, dup := h.index[key]; !dup {
			h.index[key] = i
		}
	}
	return h
}

// Index returns the position of a column, or -1.
func (h Header) Index(column string) int {
	if i, ok := h.index[NormalizeHeader(column)]; ok {
		return i
	}
	return -1
}

func (h Header) Has(column string) bool { return h.Index(column) >= 0 }

// Require checks that every column is present. The error names the first
// missing column and the closest header in the file.
func (h Header) Require(columns ...string) error {
	for _, c := range columns {
		if h.Has(c) {
			continue
		}
		if hint := h.closest(c); hint != "" {
			return fmt.Errorf("%w: %q (closest: %q)", core.ErrMissingColumn, c, hint)
		}
		return fmt.Errorf("%w: %q", core.ErrMissingColumn, c)
	}
	return nil
}

func (h Header) closest(column string) string {
	keys := make([]string, 0, len(h.index))
	byKey := make(map[string]string, len(h.index))
	for key, i := range h.index {
		keys = append(keys, key)
		byKey[key] = h.names[i]
	}
	if len(keys) == 0 {
		return ""
	}
	cm := closestmatch.New(keys, []int{2, 3})
	return byKey[cm.Closest(NormalizeHeader(column))]
}

// matches counts how many of the columns are present.
func (h Header) matches(columns []string) int {
	n := 0
	for _, c := range columns {
		if h.Has(c) {
			n++
		}
	}
	return n
}
