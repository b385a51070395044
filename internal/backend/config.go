package backend

import (
	"errors"
	"fmt"

	"trimestre/internal/config"
)

// FromAppConfig returns one Config per configured sync target; "none" yields none.
func FromAppConfig(appConfig *config.Config) ([]Config, error) {
	if appConfig == nil {
		return nil, errors.New("app config is nil")
	}

	var out []Config
	for _, name := range appConfig.SyncBackends {
		if name == "none" {
			continue
		}
		t, err := ParseBackendType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Config{
			Type:                     t,
			SQLiteDBPath:             appConfig.SQLiteDBPath,
			GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
			GoogleTotaisSheet:        appConfig.GoogleTotaisSheet,
			GoogleDetalhesSheet:      appConfig.GoogleDetalhesSheet,
			GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
			GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		})
	}
	return out, nil
}

func (c Config) Validate() error {
	if _, err := ParseBackendType(string(c.Type)); err != nil {
		return err
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("sqlite backend: database path is required")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("sheets backend: spreadsheet id is required")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			return fmt.Errorf("sheets backend: service account credentials are required for %s", c.GoogleSpreadsheetID)
		}
	}
	return nil
}
