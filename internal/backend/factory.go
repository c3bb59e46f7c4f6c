package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studysmart/internal/amqp"
	"studysmart/internal/events"
	"studysmart/internal/live"
	"studysmart/internal/log"
	"studysmart/internal/services"
	"studysmart/internal/storage"
	"studysmart/internal/store"
	"studysmart/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	// base is handed to the components, which tag it with their own name.
	base   *slog.Logger
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		base:   logger,
		logger: log.Component(logger, log.ComponentBackend),
	}
}

// CreateBackend opens the configured store, wraps it so mutations are
// published on a broker and, when AMQP is configured, relays those
// changes. An unreachable AMQP broker is logged and the feed disabled.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		inner store.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		inner, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		inner = f.createMemoryBackend(config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker(f.base)
	observed := live.NewStore(inner, broker)
	result := &BackendResult{
		Store:     observed,
		Broker:    broker,
		Summaries: services.NewSummaryService(observed, config.RecentSessionsLimit, f.base),
	}

	cleanups := []func() error{
		inner.Close,
		func() error { broker.Close(); return nil },
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.base)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change feed", log.FieldError, err)
		} else {
			stop := amqp.NewRelay(client, broker, f.base).Start(ctx)
			result.FeedEnabled = true
			cleanups = append(cleanups, client.Close, func() error { stop(); return nil })
			f.logger.Info("Relaying changes over AMQP",
				log.FieldExchange, config.AMQPExchange,
				log.FieldQueue, config.AMQPQueue)
		}
	}

	// release in reverse order of acquisition
	result.Cleanup = func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (store.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, storage.Options{
		DestructiveFallback: config.DestructiveFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) store.Store {
	if config.DataDirectory == "" {
		f.logger.Info("Initialized memory backend")
		return memory.New()
	}
	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)
	return memory.NewFromFiles(config.DataDirectory, f.base)
}
