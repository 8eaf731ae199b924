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

// ScanStorage implements the ScanStorage interface for Badger
type ScanStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewScanStorage creates a new ScanStorage instance
func NewScanStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ScanStorage {
	return &ScanStorage{
		db:     db,
		logger: logger,
	}
}

// Save persists a scan record. Missing IDs are generated.
func (s *ScanStorage) Save(ctx context.Context, record *models.ScanRecord) error {
	if record.ID == "" {
		record.ID = common.NewScanID()
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save scan record: %w", err)
	}

	return nil
}

// Get retrieves a scan record by ID
func (s *ScanStorage) Get(ctx context.Context, id string) (*models.ScanRecord, error) {
	var record models.ScanRecord
	err := s.db.Store().Get(id, &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan record: %w", err)
	}
	return &record, nil
}

// ListRecent returns the most recent scan records, newest first
func (s *ScanStorage) ListRecent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	query := (&badgerhold.Query{}).SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.ScanRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list scan records: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes scan records started before the cutoff.
// Returns the number of records deleted.
func (s *ScanStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var stale []models.ScanRecord
	query := badgerhold.Where("StartedAt").Lt(cutoff)
	if err := s.db.Store().Find(&stale, query); err != nil {
		return 0, fmt.Errorf("failed to find stale scan records: %w", err)
	}

	deleted := 0
	for _, record := range stale {
		if err := s.db.Store().Delete(record.ID, models.ScanRecord{}); err != nil {
			s.logger.Warn().Err(err).Str("scan_id", record.ID).Msg("Failed to delete stale scan record")
			continue
		}
		deleted++
	}

	return deleted, nil
}
