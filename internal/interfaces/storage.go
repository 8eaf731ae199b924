package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/deepdiver/internal/models"
)

// ErrKeyNotFound is returned when a requested key does not exist in storage.
var ErrKeyNotFound = errors.New("key not found")

// ErrTickerNotFound is returned when a requested ticker does not exist in storage.
var ErrTickerNotFound = errors.New("ticker not found")

// KeyValuePair represents a stored key/value entry with metadata.
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage defines operations for key/value configuration storage.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
}

// UniverseFilter narrows universe queries. Zero values mean "no filter".
type UniverseFilter struct {
	ActiveOnly bool
	MinScore   int
	MaxScore   int
	Category   models.Category
	Limit      int
}

// UniverseStorage defines operations for the trading universe store.
type UniverseStorage interface {
	// Get retrieves a universe stock by ticker. Returns ErrTickerNotFound
	// if the ticker is not tracked.
	Get(ctx context.Context, ticker string) (*models.UniverseStock, error)

	// Upsert inserts or updates a stock, preserving CreatedAt on update.
	Upsert(ctx context.Context, stock *models.UniverseStock) error

	// List returns stocks matching the filter, highest score first.
	List(ctx context.Context, filter UniverseFilter) ([]models.UniverseStock, error)

	// Deactivate marks a stock inactive and records the deactivation time.
	Deactivate(ctx context.Context, ticker string, reason string) error

	// Delete removes a stock from the universe.
	Delete(ctx context.Context, ticker string) error
}

// WatchlistStorage defines operations for the watchlist store.
type WatchlistStorage interface {
	Get(ctx context.Context, ticker string) (*models.WatchlistEntry, error)
	Upsert(ctx context.Context, entry *models.WatchlistEntry) error
	List(ctx context.Context) ([]models.WatchlistEntry, error)
	Remove(ctx context.Context, ticker string) error
}

// JournalStorage defines operations for the append-only journal store.
type JournalStorage interface {
	Append(ctx context.Context, entry *models.JournalEntry) error
	ListRecent(ctx context.Context, agent string, limit int) ([]models.JournalEntry, error)
}

// ScanStorage defines operations for persisted scan runs.
type ScanStorage interface {
	Save(ctx context.Context, record *models.ScanRecord) error
	Get(ctx context.Context, id string) (*models.ScanRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.ScanRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// StorageManager provides access to all storage implementations.
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	UniverseStorage() UniverseStorage
	WatchlistStorage() WatchlistStorage
	JournalStorage() JournalStorage
	ScanStorage() ScanStorage
	Close() error
}
