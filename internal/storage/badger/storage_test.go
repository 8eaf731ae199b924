package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()

	config := &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "db"),
	}
	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

// TestKVStorage verifies case-insensitive keys and CreatedAt preservation
func TestKVStorage(t *testing.T) {
	manager := newTestManager(t)
	kv := manager.KeyValueStorage()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "Finnhub_API_Key", "secret", "market data key"))

	value, err := kv.Get(ctx, "finnhub_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", value, "keys are case-insensitive")

	// Update keeps CreatedAt
	require.NoError(t, kv.Set(ctx, "finnhub_api_key", "rotated", ""))
	pairs, err := kv.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "rotated", pairs[0].Value)
	assert.False(t, pairs[0].CreatedAt.IsZero())
	assert.True(t, pairs[0].UpdatedAt.After(pairs[0].CreatedAt) || pairs[0].UpdatedAt.Equal(pairs[0].CreatedAt))

	require.NoError(t, kv.Delete(ctx, "FINNHUB_API_KEY"))
	_, err = kv.Get(ctx, "finnhub_api_key")
	assert.Equal(t, interfaces.ErrKeyNotFound, err)

	assert.Equal(t, interfaces.ErrKeyNotFound, kv.Delete(ctx, "finnhub_api_key"))
	t.Log("PASS: KV storage round-trip with case-insensitive keys")
}

// TestUniverseStorage verifies upsert semantics and filtered listing
func TestUniverseStorage(t *testing.T) {
	manager := newTestManager(t)
	universe := manager.UniverseStorage()
	ctx := context.Background()

	_, err := universe.Get(ctx, "NVDA")
	assert.Equal(t, interfaces.ErrTickerNotFound, err)

	require.NoError(t, universe.Upsert(ctx, &models.UniverseStock{
		Ticker:   "nvda",
		AIScore:  90,
		Category: models.CategoryAIChip,
		IsActive: true,
	}))
	require.NoError(t, universe.Upsert(ctx, &models.UniverseStock{
		Ticker:   "MSFT",
		AIScore:  60,
		Category: models.CategoryAISoftware,
		IsActive: true,
	}))
	require.NoError(t, universe.Upsert(ctx, &models.UniverseStock{
		Ticker:   "ACME",
		AIScore:  5,
		Category: models.CategoryAIBeneficiary,
		IsActive: false,
	}))

	// Ticker normalized to upper case
	stock, err := universe.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", stock.Ticker)
	assert.False(t, stock.CreatedAt.IsZero())
	created := stock.CreatedAt

	// Update preserves CreatedAt
	stock.AIScore = 95
	require.NoError(t, universe.Upsert(ctx, stock))
	stock, err = universe.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 95, stock.AIScore)
	assert.Equal(t, created, stock.CreatedAt)

	// Active filter plus score ordering
	active, err := universe.List(ctx, interfaces.UniverseFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "NVDA", active[0].Ticker, "highest score first")
	assert.Equal(t, "MSFT", active[1].Ticker)

	// Score and category filters
	chips, err := universe.List(ctx, interfaces.UniverseFilter{Category: models.CategoryAIChip})
	require.NoError(t, err)
	require.Len(t, chips, 1)
	assert.Equal(t, "NVDA", chips[0].Ticker)

	high, err := universe.List(ctx, interfaces.UniverseFilter{MinScore: 50})
	require.NoError(t, err)
	assert.Len(t, high, 2)
	t.Log("PASS: Universe storage upsert, normalization and filters")
}

// TestUniverseStorage_DeactivateLifecycle verifies DeactivatedAt transitions
func TestUniverseStorage_DeactivateLifecycle(t *testing.T) {
	manager := newTestManager(t)
	universe := manager.UniverseStorage()
	ctx := context.Background()

	require.NoError(t, universe.Upsert(ctx, &models.UniverseStock{
		Ticker:   "NVDA",
		AIScore:  80,
		IsActive: true,
	}))

	require.NoError(t, universe.Deactivate(ctx, "NVDA", "no recent mentions"))
	stock, err := universe.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.False(t, stock.IsActive)
	require.NotNil(t, stock.DeactivatedAt)
	assert.Equal(t, "no recent mentions", stock.Notes)

	// Reactivation clears the deactivation timestamp
	stock.IsActive = true
	require.NoError(t, universe.Upsert(ctx, stock))
	stock, err = universe.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Nil(t, stock.DeactivatedAt)

	assert.Equal(t, interfaces.ErrTickerNotFound, universe.Deactivate(ctx, "GHOST", ""))
}

// TestWatchlistStorage verifies upsert, list and idempotent remove
func TestWatchlistStorage(t *testing.T) {
	manager := newTestManager(t)
	watchlist := manager.WatchlistStorage()
	ctx := context.Background()

	require.NoError(t, watchlist.Upsert(ctx, &models.WatchlistEntry{
		Ticker:         "NVDA",
		Status:         models.WatchStatusWatching,
		SentimentScore: 85,
	}))

	entry, err := watchlist.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, models.WatchStatusWatching, entry.Status)

	entries, err := watchlist.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, watchlist.Remove(ctx, "NVDA"))
	require.NoError(t, watchlist.Remove(ctx, "NVDA"), "removing an absent ticker is not an error")

	_, err = watchlist.Get(ctx, "NVDA")
	assert.Equal(t, interfaces.ErrTickerNotFound, err)
}

// TestJournalStorage verifies append-only IDs and recency ordering
func TestJournalStorage(t *testing.T) {
	manager := newTestManager(t)
	journal := manager.JournalStorage()
	ctx := context.Background()

	first := &models.JournalEntry{Agent: "curator", Category: "scan", Content: "first"}
	require.NoError(t, journal.Append(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	time.Sleep(5 * time.Millisecond)
	second := &models.JournalEntry{Agent: "curator", Category: "scan", Content: "second"}
	require.NoError(t, journal.Append(ctx, second))

	entries, err := journal.ListRecent(ctx, "curator", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Content, "newest first")

	limited, err := journal.ListRecent(ctx, "curator", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	other, err := journal.ListRecent(ctx, "trader", 10)
	require.NoError(t, err)
	assert.Empty(t, other, "agent filter applies")
}

// TestScanStorage verifies save, recency listing and retention pruning
func TestScanStorage(t *testing.T) {
	manager := newTestManager(t)
	scans := manager.ScanStorage()
	ctx := context.Background()

	now := time.Now().UTC()
	old := &models.ScanRecord{JobName: "daily_scan", StartedAt: now.AddDate(0, -7, 0)}
	recent := &models.ScanRecord{JobName: "daily_scan", StartedAt: now}

	require.NoError(t, scans.Save(ctx, old))
	require.NoError(t, scans.Save(ctx, recent))
	assert.NotEmpty(t, old.ID, "missing IDs are generated")

	got, err := scans.Get(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, "daily_scan", got.JobName)

	records, err := scans.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, recent.ID, records[0].ID, "newest first")

	deleted, err := scans.DeleteOlderThan(ctx, now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = scans.Get(ctx, old.ID)
	assert.Equal(t, interfaces.ErrKeyNotFound, err)
	t.Log("PASS: Scan records pruned by retention cutoff")
}
