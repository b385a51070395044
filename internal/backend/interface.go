// Package backend builds the sync targets named in SYNC_BACKEND.
package backend

import (
	"fmt"

	"trimestre/internal/sheets"
)

// Backend receives consolidated quarter figures and can read them back.
type Backend interface {
	sheets.QuarterUpserter
	sheets.QuarterReader
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// Persistent reports whether figures written to the target outlive the
// process. The memory target is a dry run for the one-shot CLI.
func (t BackendType) Persistent() bool { return t != MemoryBackend }

// BackendTypes lists the accepted target kinds.
var BackendTypes = []BackendType{SQLiteBackend, SheetsBackend, MemoryBackend}

// ParseBackendType maps a SYNC_BACKEND entry to its kind.
func ParseBackendType(name string) (BackendType, error) {
	for _, t := range BackendTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown sync backend %q", name)
}

// BackendResult is a created target; Cleanup may be nil.
type BackendResult struct {
	Type    BackendType
	Backend Backend
	Cleanup func() error
}

// Config carries what one target kind needs. Fields irrelevant to Type are ignored.
type Config struct {
	Type BackendType

	SQLiteDBPath string

	GoogleSpreadsheetID      string
	GoogleTotaisSheet        string
	GoogleDetalhesSheet      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}
