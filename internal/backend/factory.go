package backend

import (
	"context"
	"errors"
	"fmt"

	applog "trimestre/internal/log"
	gsheet "trimestre/internal/sheets/google"
	"trimestre/internal/sheets/memory"
	"trimestre/internal/storage"
)

// DefaultFactory creates sync targets.
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend validates config and builds the target it names.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateAll builds every configured backend. On failure the already created
// ones are cleaned up.
func (f *DefaultFactory) CreateAll(ctx context.Context, configs []Config) ([]*BackendResult, error) {
	results := make([]*BackendResult, 0, len(configs))
	for _, c := range configs {
		res, err := f.CreateBackend(ctx, c)
		if err != nil {
			_ = Cleanup(results)
			return nil, fmt.Errorf("create %s backend: %w", c.Type, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Cleanup releases the resources of all results.
func Cleanup(results []*BackendResult) error {
	var errs []error
	for _, r := range results {
		if r == nil || r.Cleanup == nil {
			continue
		}
		if err := r.Cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Type, err))
		}
	}
	return errors.Join(errs...)
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	version, dirty, err := storage.SchemaVersion(config.SQLiteDBPath)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		repo.Close()
		return nil, fmt.Errorf("sqlite schema version %d is dirty", version)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "schema_version", version)

	return &BackendResult{Type: SQLiteBackend, Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		TotaisSheet:     config.GoogleTotaisSheet,
		DetalhesSheet:   config.GoogleDetalhesSheet,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{Type: SheetsBackend, Backend: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Type: MemoryBackend, Backend: memory.New()}, nil
}
