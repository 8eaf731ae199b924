package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	kv        interfaces.KeyValueStorage
	universe  interfaces.UniverseStorage
	watchlist interfaces.WatchlistStorage
	journal   interfaces.JournalStorage
	scan      interfaces.ScanStorage
	logger    arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		kv:        NewKVStorage(db, logger),
		universe:  NewUniverseStorage(db, logger),
		watchlist: NewWatchlistStorage(db, logger),
		journal:   NewJournalStorage(db, logger),
		scan:      NewScanStorage(db, logger),
		logger:    logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// UniverseStorage returns the Universe storage interface
func (m *Manager) UniverseStorage() interfaces.UniverseStorage {
	return m.universe
}

// WatchlistStorage returns the Watchlist storage interface
func (m *Manager) WatchlistStorage() interfaces.WatchlistStorage {
	return m.watchlist
}

// JournalStorage returns the Journal storage interface
func (m *Manager) JournalStorage() interfaces.JournalStorage {
	return m.journal
}

// ScanStorage returns the Scan storage interface
func (m *Manager) ScanStorage() interfaces.ScanStorage {
	return m.scan
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
