package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// JournalStorage implements the JournalStorage interface for Badger
type JournalStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJournalStorage creates a new JournalStorage instance
func NewJournalStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JournalStorage {
	return &JournalStorage{
		db:     db,
		logger: logger,
	}
}

// Append stores a new journal entry. Missing IDs and timestamps are filled in.
func (s *JournalStorage) Append(ctx context.Context, entry *models.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = common.NewJournalID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.db.Store().Insert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	return nil
}

// ListRecent returns the most recent journal entries, newest first.
// An empty agent matches all agents.
func (s *JournalStorage) ListRecent(ctx context.Context, agent string, limit int) ([]models.JournalEntry, error) {
	query := &badgerhold.Query{}
	if agent != "" {
		query = badgerhold.Where("Agent").Eq(agent).Index("Agent")
	}
	query = query.SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.JournalEntry
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return entries, nil
}
