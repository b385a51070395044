// Package classify assigns each transaction record to exactly one category.
package classify

import (
	"strings"

	"trimestre/internal/core"
)

// Rule is one predicate → category pair. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Category core.Category
	Match    func(core.TransactionRecord) bool
}

type Classifier struct {
	rules []Rule
}

// New builds the rule list from the classification constants:
// Sucata, Beneficiamento, Importado, UF Nula, Local, then Fora as the default.
func New(cfg core.ClassificationConfig) *Classifier {
	prefixes := make([]string, 0, len(cfg.ScrapPrefixes))
	for _, p := range cfg.ScrapPrefixes {
		if p = core.NormalizeMaterial(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	vendors := make(map[int64]struct{}, len(cfg.ProcessingVendorIDs))
	for _, v := range cfg.ProcessingVendorIDs {
		vendors[v] = struct{}{}
	}
	taxCode := normalizeTaxCode(cfg.ProcessingTaxCode)
	importState := core.NormalizeState(cfg.ImportState)
	local := make(map[string]struct{}, len(cfg.LocalStates))
	for _, s := range cfg.LocalStates {
		local[core.NormalizeState(s)] = struct{}{}
	}

	return &Classifier{rules: []Rule{
		{Category: core.CategorySucata, Match: func(r core.TransactionRecord) bool {
			code := core.NormalizeMaterial(r.MaterialCode)
			for _, p := range prefixes {
				if strings.HasPrefix(code, p) {
					return true
				}
			}
			return false
		}},
		{Category: core.CategoryBeneficiamento, Match: func(r core.TransactionRecord) bool {
			if r.VendorID == nil {
				return false
			}
			_, ok := vendors[*r.VendorID]
			return ok && normalizeTaxCode(r.TaxCode) == taxCode
		}},
		{Category: core.CategoryImportado, Match: func(r core.TransactionRecord) bool {
			return importState != "" && core.NormalizeState(r.State) == importState
		}},
		{Category: core.CategoryUFNula, Match: func(r core.TransactionRecord) bool {
			return core.NormalizeState(r.State) == ""
		}},
		{Category: core.CategoryLocal, Match: func(r core.TransactionRecord) bool {
			_, ok := local[core.NormalizeState(r.State)]
			return ok
		}},
	}}
}

// Classify returns the category of a single record.
func (c *Classifier) Classify(r core.TransactionRecord) core.Category {
	for _, rule := range c.rules {
		if rule.Match(r) {
			return rule.Category
		}
	}
	return core.CategoryFora
}

// ClassifyAll stamps the category on every record in place. Quantities and
// values are never touched.
func (c *Classifier) ClassifyAll(records []core.TransactionRecord) {
	for i := range records {
		records[i].Category = c.Classify(records[i])
	}
}

func normalizeTaxCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
