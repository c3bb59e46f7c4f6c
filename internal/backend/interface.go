package backend

import (
	"context"

	"studysmart/internal/events"
	"studysmart/internal/live"
	"studysmart/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult bundles the observed store with the services built on it.
type BackendResult struct {
	// Store publishes every committed mutation on Broker.
	Store     *live.Store
	Broker    *events.Broker
	Summaries *services.SummaryService
	// FeedEnabled is true when changes are relayed over AMQP.
	FeedEnabled bool
	Cleanup     CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath        string
	DestructiveFallback bool

	// Memory specific; an empty directory starts with no subjects
	DataDirectory string

	// Optional change feed
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	RecentSessionsLimit int
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
