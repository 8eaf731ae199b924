package models

import "time"

// UniverseStock is a tracked stock in the trading universe.
// Keyed by ticker in storage.
type UniverseStock struct {
	Ticker           string           `json:"ticker" badgerhold:"key"`
	CompanyName      string           `json:"company_name"`
	Sector           string           `json:"sector,omitempty"`
	Category         Category         `json:"category"`
	InvolvementLevel InvolvementLevel `json:"involvement_level"`
	AIScore          int              `json:"ai_score" badgerhold:"index"`
	HasAI            bool             `json:"has_ai"`
	Notes            string           `json:"notes,omitempty"`
	IsActive         bool             `json:"is_active" badgerhold:"index"`
	LastScanned      time.Time        `json:"last_scanned"`
	LastMention      time.Time        `json:"last_mention"`
	DeactivatedAt    *time.Time       `json:"deactivated_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// WatchStatus represents the watchlist stance on a ticker.
type WatchStatus string

const (
	// WatchStatusWatching - under observation, no position intended yet
	WatchStatusWatching WatchStatus = "Watching"
	// WatchStatusLong - candidate for a long position
	WatchStatusLong WatchStatus = "Long"
	// WatchStatusShort - candidate for a short position
	WatchStatusShort WatchStatus = "Short"
)

// IsValid reports whether the watch status is a known value.
func (s WatchStatus) IsValid() bool {
	switch s {
	case WatchStatusWatching, WatchStatusLong, WatchStatusShort:
		return true
	}
	return false
}

// WatchlistEntry is a ticker on the watchlist. Keyed by ticker in storage.
type WatchlistEntry struct {
	Ticker         string      `json:"ticker" badgerhold:"key"`
	Status         WatchStatus `json:"status"`
	SentimentScore int         `json:"sentiment_score"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
