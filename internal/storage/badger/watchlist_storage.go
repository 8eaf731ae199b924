package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// WatchlistStorage implements the WatchlistStorage interface for Badger
type WatchlistStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewWatchlistStorage creates a new WatchlistStorage instance
func NewWatchlistStorage(db *BadgerDB, logger arbor.ILogger) interfaces.WatchlistStorage {
	return &WatchlistStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a watchlist entry by ticker
func (s *WatchlistStorage) Get(ctx context.Context, ticker string) (*models.WatchlistEntry, error) {
	key := normalizeTicker(ticker)
	var entry models.WatchlistEntry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrTickerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	return &entry, nil
}

// Upsert inserts or updates a watchlist entry, preserving CreatedAt
func (s *WatchlistStorage) Upsert(ctx context.Context, entry *models.WatchlistEntry) error {
	key := normalizeTicker(entry.Ticker)
	now := time.Now().UTC()

	if !entry.Status.IsValid() {
		return fmt.Errorf("invalid watchlist status: %s", entry.Status)
	}

	entry.Ticker = key
	entry.UpdatedAt = now

	var existing models.WatchlistEntry
	err := s.db.Store().Get(key, &existing)
	switch {
	case err == nil:
		entry.CreatedAt = existing.CreatedAt
	case err == badgerhold.ErrNotFound:
		entry.CreatedAt = now
	default:
		return fmt.Errorf("failed to check watchlist entry: %w", err)
	}

	if err := s.db.Store().Upsert(key, entry); err != nil {
		return fmt.Errorf("failed to upsert watchlist entry: %w", err)
	}

	return nil
}

// List returns all watchlist entries
func (s *WatchlistStorage) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list watchlist entries: %w", err)
	}
	return entries, nil
}

// Remove deletes a watchlist entry. Removing an absent ticker is not an error.
func (s *WatchlistStorage) Remove(ctx context.Context, ticker string) error {
	key := normalizeTicker(ticker)
	err := s.db.Store().Delete(key, models.WatchlistEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}
