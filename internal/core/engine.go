package core

// ClassificationConfig holds the business constants behind the category rules.
type ClassificationConfig struct {
	ScrapPrefixes       []string
	ProcessingVendorIDs []int64
	ProcessingTaxCode   string
	ImportState         string
	LocalStates         []string
}

// UnitConfig drives quantity normalisation to the base unit.
type UnitConfig struct {
	SimpleMultipliers map[string]int64
	ComplexUnits      []string
	// UseUnitFallback enables the unit-level modal factor when a material has no factor of its own.
	UseUnitFallback bool
}

// EngineConfig is injected into the engine components at construction.
type EngineConfig struct {
	Classification ClassificationConfig
	Units          UnitConfig
	Quarters       []QuarterDefinition
}

func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		ScrapPrefixes: []string{
			"10028330000",
			"10032677000",
			"10002709000",
			"10001099000",
			"10001103000",
		},
		ProcessingVendorIDs: []int64{1048374},
		ProcessingTaxCode:   "I2",
		ImportState:         "EX",
		LocalStates:         []string{"SC", "PR"},
	}
}

func DefaultUnitConfig() UnitConfig {
	return UnitConfig{
		SimpleMultipliers: map[string]int64{
			"t":        1000,
			"tonelada": 1000,
			"milhar":   1000,
			"milha":    1000,
			"cento":    100,
			"ml":       1000,
			"pt":       1000,
		},
		ComplexUnits: []string{
			"cx", "caixa",
			"cj", "conjunto",
			"pac", "pct", "pacote",
			"rl", "rolo",
			"sac", "saco",
		},
	}
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Classification: DefaultClassificationConfig(),
		Units:          DefaultUnitConfig(),
		Quarters:       DefaultQuarters(),
	}
}
