package backend

import (
	"context"

	"moneynote/internal/records"
	"moneynote/internal/repository"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready store plus the optional event notifier that goes
// with it.
type BackendResult struct {
	Store    records.Store
	Notifier repository.Notifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Memory
	SeedFile string

	// Airtable
	AirtableAPIURL string
	AirtableBaseID string
	AirtableTable  string
	AirtableToken  string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// SQLite
	SQLiteDBPath string

	// Event publishing; empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	AirtableBackend BackendType = "airtable"
	SheetsBackend   BackendType = "sheets"
	SQLiteBackend   BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, AirtableBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
