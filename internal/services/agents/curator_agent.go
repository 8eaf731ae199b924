package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
	"github.com/ternarybob/deepdiver/internal/services/curator"
	"github.com/ternarybob/deepdiver/internal/services/universe"
)

// AgentName identifies curator journal entries.
const AgentName = "curator"

// CuratorAgent walks a ticker batch through scan and universe-update
// tools and records the run as a scan record plus a journal entry.
type CuratorAgent struct {
	registry *Registry
	scans    interfaces.ScanStorage
	logger   arbor.ILogger
}

// NewCuratorAgent builds the curator toolset and registry.
func NewCuratorAgent(
	curatorService *curator.Service,
	universeService *universe.Service,
	storage interfaces.StorageManager,
	logger arbor.ILogger,
) (*CuratorAgent, error) {
	registry := NewRegistry()

	tools := []Tool{
		NewScanStockTool(curatorService),
		NewUpdateUniverseTool(universeService),
		NewGetUniverseTool(storage.UniverseStorage()),
		NewAddToWatchlistTool(storage.WatchlistStorage()),
		NewLogJournalTool(storage.JournalStorage()),
	}
	for _, tool := range tools {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool: %w", err)
		}
	}

	return &CuratorAgent{
		registry: registry,
		scans:    storage.ScanStorage(),
		logger:   logger,
	}, nil
}

// Registry exposes the agent's toolset.
func (a *CuratorAgent) Registry() *Registry {
	return a.registry
}

// RunScan classifies each ticker, applies universe and watchlist rules,
// and persists the batch as a scan record. Per-ticker failures are
// counted, not fatal.
func (a *CuratorAgent) RunScan(ctx context.Context, jobName string, tickers []string) (*models.ScanRecord, error) {
	scanTool, err := toolAs[*ScanStockTool](a.registry, CapabilityScanStock)
	if err != nil {
		return nil, err
	}
	updateTool, err := toolAs[*UpdateUniverseTool](a.registry, CapabilityUpdateUniverse)
	if err != nil {
		return nil, err
	}
	journalTool, err := toolAs[*LogJournalTool](a.registry, CapabilityLogJournal)
	if err != nil {
		return nil, err
	}

	record := &models.ScanRecord{
		JobName:   jobName,
		StartedAt: time.Now().UTC(),
	}

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		scanResp, err := scanTool.Execute(ctx, ScanStockRequest{Ticker: ticker})
		if err != nil {
			a.logger.Warn().Err(err).Str("ticker", ticker).Msg("Scan tool failed")
			record.Errors++
			continue
		}
		classification := scanResp.Classification
		record.Results = append(record.Results, classification)

		updateResp, err := updateTool.Execute(ctx, UpdateUniverseRequest{Classification: classification})
		if err != nil {
			a.logger.Warn().Err(err).Str("ticker", ticker).Msg("Universe update failed")
			record.Errors++
			continue
		}

		if updateResp.Outcome.Promoted {
			record.Promoted++
		}
		if updateResp.Outcome.Demoted {
			record.Demoted++
		}
		if updateResp.Outcome.Deactivated {
			record.Deactivated++
		}
	}

	record.CompletedAt = time.Now().UTC()

	if err := a.scans.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save scan record: %w", err)
	}

	summary := fmt.Sprintf("%s: scanned %d tickers, %d promoted, %d demoted, %d deactivated, %d errors",
		jobName, record.TickerCount(), record.Promoted, record.Demoted, record.Deactivated, record.Errors)
	if _, err := journalTool.Execute(ctx, LogJournalRequest{
		Agent:    AgentName,
		Category: "scan",
		Content:  summary,
	}); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to journal scan summary")
	}

	a.logger.Info().Str("job", jobName).Str("summary", summary).Msg("Scan run completed")

	return record, nil
}

// toolAs looks up a capability and asserts its concrete type.
func toolAs[T Tool](registry *Registry, name string) (T, error) {
	var zero T
	tool, err := registry.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := tool.(T)
	if !ok {
		return zero, fmt.Errorf("tool %s has unexpected type %T", name, tool)
	}
	return typed, nil
}
