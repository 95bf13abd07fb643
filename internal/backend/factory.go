package backend

import (
	"context"
	"errors"
	"fmt"

	"moneynote/internal/amqp"
	applog "moneynote/internal/log"
	"moneynote/internal/metrics"
	"moneynote/internal/records"
	"moneynote/internal/records/airtable"
	"moneynote/internal/records/memory"
	"moneynote/internal/records/sheets"
	"moneynote/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend builds the configured store, instruments it, and attaches an
// AMQP notifier when a broker URL is set. A broker that cannot be reached
// only disables events.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store   records.Store
		cleanup []CleanupFunc
		err     error
	)
	switch config.Type {
	case MemoryBackend:
		store, err = f.createMemoryStore(config)
	case AirtableBackend:
		store, err = f.createAirtableStore(config)
	case SheetsBackend:
		store, err = f.createSheetsStore(ctx, config)
	case SQLiteBackend:
		var repo *storage.SQLiteRepository
		repo, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err == nil {
			store = repo
			cleanup = append(cleanup, repo.Close)
			f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		}
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: metrics.Instrument(store)}
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Notifier = metrics.CountEvents(client)
			cleanup = append(cleanup, client.Close)
		}
	}
	result.Cleanup = func() error {
		var errs []error
		for i := len(cleanup) - 1; i >= 0; i-- {
			errs = append(errs, cleanup[i]())
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Backend ready",
		applog.FieldBackend, config.Type.String(),
		"events_enabled", result.Notifier != nil)
	return result, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) (records.Store, error) {
	store, err := memory.NewFromFile(config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)
	return store, nil
}

func (f *DefaultFactory) createAirtableStore(config Config) (records.Store, error) {
	client, err := airtable.New(airtable.Config{
		APIURL: config.AirtableAPIURL,
		BaseID: config.AirtableBaseID,
		Table:  config.AirtableTable,
		Token:  config.AirtableToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Airtable client: %w", err)
	}
	f.logger.Info("Initialized Airtable backend", "base", config.AirtableBaseID, "table", config.AirtableTable)
	return client, nil
}

func (f *DefaultFactory) createSheetsStore(ctx context.Context, config Config) (records.Store, error) {
	client, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	if err := client.EnsureHeader(ctx); err != nil {
		return nil, fmt.Errorf("prepare Google Sheets tab: %w", err)
	}
	f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleSheetName)
	return client, nil
}
