package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/services/agents"
	"github.com/ternarybob/deepdiver/internal/services/scheduler"
	"github.com/ternarybob/deepdiver/internal/services/universe"
)

// Scheduled job names.
const (
	jobDailyScan      = "daily_scan"
	jobWeeklyDeepScan = "weekly_deep_scan"
	jobMonthlyCleanup = "monthly_cleanup"
)

// scanRetention bounds how long completed scan records are kept.
const scanRetention = 180 * 24 * time.Hour

// registerJobs wires the curation jobs onto the scheduler.
func registerJobs(
	svc *scheduler.Service,
	config *common.Config,
	agent *agents.CuratorAgent,
	universeService *universe.Service,
	storage interfaces.StorageManager,
	logger arbor.ILogger,
) error {
	// Daily scan of the configured ticker universe
	if err := svc.RegisterJob(jobDailyScan, config.Scheduler.DailyScan, func(ctx context.Context) error {
		if config.Scheduler.MarketOnly && !common.IsMarketOpen() {
			logger.Info().Str("job", jobDailyScan).Msg("Market closed, skipping scan")
			return nil
		}
		_, err := agent.RunScan(ctx, jobDailyScan, config.Curator.Universe)
		return err
	}); err != nil {
		return err
	}

	// Weekly deep scan over configured plus all active stored tickers
	if err := svc.RegisterJob(jobWeeklyDeepScan, config.Scheduler.WeeklyDeepScan, func(ctx context.Context) error {
		tickers, err := universeService.ActiveUniverse(ctx)
		if err != nil {
			return err
		}
		_, err = agent.RunScan(ctx, jobWeeklyDeepScan, tickers)
		return err
	}); err != nil {
		return err
	}

	// Monthly cleanup: deactivate stale stocks, prune old scan records
	if err := svc.RegisterJob(jobMonthlyCleanup, config.Scheduler.MonthlyCleanup, func(ctx context.Context) error {
		deactivated, err := universeService.PruneStale(ctx)
		if err != nil {
			return err
		}

		pruned, err := storage.ScanStorage().DeleteOlderThan(ctx, time.Now().Add(-scanRetention))
		if err != nil {
			return fmt.Errorf("failed to prune scan records: %w", err)
		}

		logger.Info().
			Int("deactivated", len(deactivated)).
			Int("scans_pruned", pruned).
			Msg("Cleanup completed")
		return nil
	}); err != nil {
		return err
	}

	return nil
}
