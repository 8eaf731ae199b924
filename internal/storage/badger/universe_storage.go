package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// UniverseStorage implements the UniverseStorage interface for Badger
type UniverseStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewUniverseStorage creates a new UniverseStorage instance
func NewUniverseStorage(db *BadgerDB, logger arbor.ILogger) interfaces.UniverseStorage {
	return &UniverseStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeTicker uppercases and trims a ticker for consistent keys
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Get retrieves a universe stock by ticker
func (s *UniverseStorage) Get(ctx context.Context, ticker string) (*models.UniverseStock, error) {
	key := normalizeTicker(ticker)
	var stock models.UniverseStock
	err := s.db.Store().Get(key, &stock)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrTickerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get universe stock: %w", err)
	}
	return &stock, nil
}

// Upsert inserts or updates a universe stock, preserving CreatedAt on
// update. A transition to inactive records DeactivatedAt; a transition
// back to active clears it.
func (s *UniverseStorage) Upsert(ctx context.Context, stock *models.UniverseStock) error {
	key := normalizeTicker(stock.Ticker)
	now := time.Now().UTC()

	stock.Ticker = key
	stock.UpdatedAt = now

	var existing models.UniverseStock
	err := s.db.Store().Get(key, &existing)
	switch {
	case err == nil:
		stock.CreatedAt = existing.CreatedAt
		if !stock.IsActive && existing.IsActive {
			stock.DeactivatedAt = &now
		}
		if stock.IsActive {
			stock.DeactivatedAt = nil
		}
	case err == badgerhold.ErrNotFound:
		stock.CreatedAt = now
	default:
		return fmt.Errorf("failed to check universe stock: %w", err)
	}

	if err := s.db.Store().Upsert(key, stock); err != nil {
		return fmt.Errorf("failed to upsert universe stock: %w", err)
	}

	return nil
}

// List returns stocks matching the filter, highest score first
func (s *UniverseStorage) List(ctx context.Context, filter interfaces.UniverseFilter) ([]models.UniverseStock, error) {
	var stocks []models.UniverseStock

	query := &badgerhold.Query{}
	if filter.ActiveOnly {
		query = badgerhold.Where("IsActive").Eq(true)
	}

	if err := s.db.Store().Find(&stocks, query); err != nil {
		return nil, fmt.Errorf("failed to list universe stocks: %w", err)
	}

	filtered := stocks[:0]
	for _, stock := range stocks {
		if filter.MinScore > 0 && stock.AIScore < filter.MinScore {
			continue
		}
		if filter.MaxScore > 0 && stock.AIScore > filter.MaxScore {
			continue
		}
		if filter.Category != "" && stock.Category != filter.Category {
			continue
		}
		filtered = append(filtered, stock)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].AIScore > filtered[j].AIScore
	})

	if filter.Limit > 0 && len(filtered) > filter.Limit {
		filtered = filtered[:filter.Limit]
	}

	return filtered, nil
}

// Deactivate marks a stock inactive and records the deactivation time
func (s *UniverseStorage) Deactivate(ctx context.Context, ticker string, reason string) error {
	stock, err := s.Get(ctx, ticker)
	if err != nil {
		return err
	}
	if !stock.IsActive {
		return nil
	}

	stock.IsActive = false
	if reason != "" {
		stock.Notes = reason
	}

	if err := s.Upsert(ctx, stock); err != nil {
		return err
	}

	s.logger.Info().Str("ticker", stock.Ticker).Str("reason", reason).Msg("Deactivated universe stock")
	return nil
}

// Delete removes a stock from the universe
func (s *UniverseStorage) Delete(ctx context.Context, ticker string) error {
	key := normalizeTicker(ticker)
	err := s.db.Store().Delete(key, models.UniverseStock{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrTickerNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete universe stock: %w", err)
	}
	return nil
}
