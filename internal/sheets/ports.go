package sheets

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mock_sheets

import (
	"context"

	"trimestre/internal/core"
)

// Default tab layout of the quarterly summary spreadsheet.
const (
	TabTotais   = "Totais"
	TabDetalhes = "Detalhes"
	KeyHeader   = "Quarter"
)

// Ports for outbound adapters.
type (
	// QuarterUpserter writes the consolidated figures of a quarter, replacing
	// the row already keyed "<Q> <YYYY>" or appending a new one.
	QuarterUpserter interface {
		UpsertQuarter(ctx context.Context, s core.QuarterSummary) ([]core.UpsertResult, error)
	}

	// QuarterReader looks up previously synced figures by key.
	QuarterReader interface {
		GetQuarter(ctx context.Context, key string) (core.QuarterSummary, bool, error)
	}
)
