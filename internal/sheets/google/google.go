package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trimestre/internal/cache"
	"trimestre/internal/core"
	ports "trimestre/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Row positions are remembered for a while so repeated upserts of the same
// quarter skip the column scan.
const (
	rowCacheSize = 64
	rowCacheTTL  = 10 * time.Minute
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	totaisSheet   string
	detalhesSheet string
	rows          *cache.LRU[int]
}

// Ensure interface conformance
var (
	_ ports.QuarterUpserter = (*Client)(nil)
	_ ports.QuarterReader   = (*Client)(nil)
)

// Options configures the spreadsheet and its tabs.
type Options struct {
	SpreadsheetID string
	TotaisSheet   string
	DetalhesSheet string
	// Service account credentials: inline JSON wins over the file path.
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, opts Options) *Client {
	totais := strings.TrimSpace(opts.TotaisSheet)
	if totais == "" {
		totais = ports.TabTotais
	}
	detalhes := strings.TrimSpace(opts.DetalhesSheet)
	if detalhes == "" {
		detalhes = ports.TabDetalhes
	}
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		totaisSheet:   totais,
		detalhesSheet: detalhes,
		rows:          cache.New[int](rowCacheSize, rowCacheTTL),
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// UpsertQuarter writes the Totais and Detalhes rows for the quarter key.
func (c *Client) UpsertQuarter(ctx context.Context, s core.QuarterSummary) ([]core.UpsertResult, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if s.Key == "" {
		return nil, errors.New("quarter key is empty")
	}

	tabs := []struct {
		name   string
		values []decimal.Decimal
	}{
		{c.totaisSheet, s.TotaisValues()},
		{c.detalhesSheet, s.DetalhesValues()},
	}
	results := make([]core.UpsertResult, 0, len(tabs))
	for _, tab := range tabs {
		res, err := c.upsertRow(ctx, tab.name, s.Key, tab.values)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Client) upsertRow(ctx context.Context, sheet, key string, values []decimal.Decimal) (core.UpsertResult, error) {
	row := buildRow(key, values)
	cacheKey := sheet + "!" + key

	if c.rows != nil {
		if n, ok := c.rows.Get(cacheKey); ok {
			still, err := c.rowHasKey(ctx, sheet, n, key)
			if err != nil {
				return core.UpsertResult{}, err
			}
			if still {
				return c.updateRow(ctx, sheet, n, row)
			}
			c.rows.Invalidate(cacheKey)
		}
	}

	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.UpsertResult{}, fmt.Errorf("read %s: %w", rng, err)
	}

	if n := findKeyRow(resp.Values, key); n > 0 {
		res, err := c.updateRow(ctx, sheet, n, row)
		if err == nil && c.rows != nil {
			c.rows.Put(cacheKey, n)
		}
		return res, err
	}

	target := fmt.Sprintf("%s!A:D", sheet)
	out, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, target, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return core.UpsertResult{}, fmt.Errorf("append %s: %w", target, err)
	}
	n := len(resp.Values) + 1
	if out.Updates != nil {
		if r, ok := rowOfRange(out.Updates.UpdatedRange); ok {
			n = r
		}
	}
	if c.rows != nil {
		c.rows.Put(cacheKey, n)
	}
	return core.UpsertResult{Tab: sheet, Row: n, Appended: true}, nil
}

func (c *Client) updateRow(ctx context.Context, sheet string, n int, row []any) (core.UpsertResult, error) {
	target := fmt.Sprintf("%s!A%d:D%d", sheet, n, n)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return core.UpsertResult{}, fmt.Errorf("update %s: %w", target, err)
	}
	return core.UpsertResult{Tab: sheet, Row: n}, nil
}

// rowHasKey checks a remembered row still holds key; rows move when someone
// sorts or edits the tab.
func (c *Client) rowHasKey(ctx context.Context, sheet string, n int, key string) (bool, error) {
	rng := fmt.Sprintf("%s!A%d", sheet, n)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return false, nil
	}
	cols := toStrings(resp.Values[0])
	return strings.TrimSpace(safeGet(cols, 0)) == key, nil
}

// GetQuarter reads the rows keyed by key from both tabs.
func (c *Client) GetQuarter(ctx context.Context, key string) (core.QuarterSummary, bool, error) {
	if c.svc == nil {
		return core.QuarterSummary{}, false, errors.New("sheets service not initialized")
	}
	totais, ok, err := c.readRow(ctx, c.totaisSheet, key)
	if err != nil || !ok {
		return core.QuarterSummary{}, false, err
	}
	detalhes, ok, err := c.readRow(ctx, c.detalhesSheet, key)
	if err != nil || !ok {
		return core.QuarterSummary{}, false, err
	}
	return core.QuarterSummary{
		Key:                 key,
		TotalLocal:          totais[0],
		TotalFora:           totais[1],
		TotalImportado:      totais[2],
		TotalSucata:         detalhes[0],
		TotalBeneficiamento: detalhes[1],
		TotalGeral:          detalhes[2],
	}, true, nil
}

func (c *Client) readRow(ctx context.Context, sheet, key string) ([]decimal.Decimal, bool, error) {
	rng := fmt.Sprintf("%s!A:D", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", rng, err)
	}
	n := findKeyRow(resp.Values, key)
	if n == 0 {
		return nil, false, nil
	}
	cols := toStrings(resp.Values[n-1])
	out := make([]decimal.Decimal, 3)
	for i := range out {
		out[i] = core.ParseAmountOrZero(safeGet(cols, i+1))
	}
	return out, true, nil
}
