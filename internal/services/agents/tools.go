// -----------------------------------------------------------------------
// Curator agent tools - typed capabilities over the curation services
// Each tool pairs a structured request with a structured response
// -----------------------------------------------------------------------

package agents

import (
	"context"
	"fmt"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
	"github.com/ternarybob/deepdiver/internal/services/curator"
	"github.com/ternarybob/deepdiver/internal/services/universe"
)

// Capability names for registry lookup.
const (
	CapabilityScanStock      = "scan_stock"
	CapabilityUpdateUniverse = "update_universe"
	CapabilityGetUniverse    = "get_universe"
	CapabilityAddToWatchlist = "add_to_watchlist"
	CapabilityLogJournal     = "log_journal"
)

// ScanStockRequest asks for a full classification of one ticker.
type ScanStockRequest struct {
	Ticker string `json:"ticker"`
}

// ScanStockResponse carries the classification result.
type ScanStockResponse struct {
	Classification models.Classification `json:"classification"`
}

// ScanStockTool classifies a single stock through the curation pipeline.
type ScanStockTool struct {
	curator *curator.Service
}

// NewScanStockTool creates the scan_stock tool.
func NewScanStockTool(curatorService *curator.Service) *ScanStockTool {
	return &ScanStockTool{curator: curatorService}
}

func (t *ScanStockTool) Name() string { return CapabilityScanStock }

func (t *ScanStockTool) Description() string {
	return "Scans a stock for AI involvement using 3-stage detection"
}

// Execute runs the classification pipeline for the requested ticker.
func (t *ScanStockTool) Execute(ctx context.Context, req ScanStockRequest) (*ScanStockResponse, error) {
	if req.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	return &ScanStockResponse{
		Classification: t.curator.Classify(ctx, req.Ticker),
	}, nil
}

// UpdateUniverseRequest applies a classification to the universe.
type UpdateUniverseRequest struct {
	Classification models.Classification `json:"classification"`
}

// UpdateUniverseResponse reports what the update changed.
type UpdateUniverseResponse struct {
	Outcome universe.Outcome `json:"outcome"`
}

// UpdateUniverseTool upserts classification results and enforces
// watchlist promotion rules.
type UpdateUniverseTool struct {
	universe *universe.Service
}

// NewUpdateUniverseTool creates the update_universe tool.
func NewUpdateUniverseTool(universeService *universe.Service) *UpdateUniverseTool {
	return &UpdateUniverseTool{universe: universeService}
}

func (t *UpdateUniverseTool) Name() string { return CapabilityUpdateUniverse }

func (t *UpdateUniverseTool) Description() string {
	return "Adds or updates a stock in the trading universe"
}

// Execute applies the classification to the universe and watchlist.
func (t *UpdateUniverseTool) Execute(ctx context.Context, req UpdateUniverseRequest) (*UpdateUniverseResponse, error) {
	outcome, err := t.universe.Apply(ctx, &req.Classification)
	if err != nil {
		return nil, err
	}
	return &UpdateUniverseResponse{Outcome: *outcome}, nil
}

// GetUniverseRequest queries the trading universe.
type GetUniverseRequest struct {
	Filter interfaces.UniverseFilter `json:"filter"`
}

// GetUniverseResponse lists matching universe stocks.
type GetUniverseResponse struct {
	Stocks []models.UniverseStock `json:"stocks"`
}

// GetUniverseTool queries the trading universe store.
type GetUniverseTool struct {
	storage interfaces.UniverseStorage
}

// NewGetUniverseTool creates the get_universe tool.
func NewGetUniverseTool(storage interfaces.UniverseStorage) *GetUniverseTool {
	return &GetUniverseTool{storage: storage}
}

func (t *GetUniverseTool) Name() string { return CapabilityGetUniverse }

func (t *GetUniverseTool) Description() string {
	return "Queries the trading universe with filters"
}

// Execute lists universe stocks matching the filter.
func (t *GetUniverseTool) Execute(ctx context.Context, req GetUniverseRequest) (*GetUniverseResponse, error) {
	stocks, err := t.storage.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	return &GetUniverseResponse{Stocks: stocks}, nil
}

// AddToWatchlistRequest adds or updates a watchlist entry.
type AddToWatchlistRequest struct {
	Ticker         string             `json:"ticker"`
	Status         models.WatchStatus `json:"status"`
	SentimentScore int                `json:"sentiment_score"`
	Notes          string             `json:"notes,omitempty"`
}

// AddToWatchlistResponse confirms the stored entry.
type AddToWatchlistResponse struct {
	Entry models.WatchlistEntry `json:"entry"`
}

// AddToWatchlistTool manages watchlist entries directly.
type AddToWatchlistTool struct {
	storage interfaces.WatchlistStorage
}

// NewAddToWatchlistTool creates the add_to_watchlist tool.
func NewAddToWatchlistTool(storage interfaces.WatchlistStorage) *AddToWatchlistTool {
	return &AddToWatchlistTool{storage: storage}
}

func (t *AddToWatchlistTool) Name() string { return CapabilityAddToWatchlist }

func (t *AddToWatchlistTool) Description() string {
	return "Adds or updates a ticker on the watchlist"
}

// Execute upserts the watchlist entry.
func (t *AddToWatchlistTool) Execute(ctx context.Context, req AddToWatchlistRequest) (*AddToWatchlistResponse, error) {
	if req.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("invalid watchlist status: %s", req.Status)
	}

	entry := &models.WatchlistEntry{
		Ticker:         req.Ticker,
		Status:         req.Status,
		SentimentScore: req.SentimentScore,
		Notes:          req.Notes,
	}
	if err := t.storage.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return &AddToWatchlistResponse{Entry: *entry}, nil
}

// LogJournalRequest records agent activity.
type LogJournalRequest struct {
	Agent    string `json:"agent"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// LogJournalResponse confirms the journal entry ID.
type LogJournalResponse struct {
	ID string `json:"id"`
}

// LogJournalTool appends to the agent journal.
type LogJournalTool struct {
	storage interfaces.JournalStorage
}

// NewLogJournalTool creates the log_journal tool.
func NewLogJournalTool(storage interfaces.JournalStorage) *LogJournalTool {
	return &LogJournalTool{storage: storage}
}

func (t *LogJournalTool) Name() string { return CapabilityLogJournal }

func (t *LogJournalTool) Description() string {
	return "Appends an entry to the agent journal"
}

// Execute appends the journal entry.
func (t *LogJournalTool) Execute(ctx context.Context, req LogJournalRequest) (*LogJournalResponse, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("content is required")
	}

	entry := &models.JournalEntry{
		Agent:    req.Agent,
		Category: req.Category,
		Content:  req.Content,
	}
	if err := t.storage.Append(ctx, entry); err != nil {
		return nil, err
	}
	return &LogJournalResponse{ID: entry.ID}, nil
}
