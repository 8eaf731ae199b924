package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/edgar"
	"github.com/ternarybob/deepdiver/internal/finnhub"
	"github.com/ternarybob/deepdiver/internal/services/agents"
	"github.com/ternarybob/deepdiver/internal/services/curator"
	"github.com/ternarybob/deepdiver/internal/services/llm"
	"github.com/ternarybob/deepdiver/internal/services/scheduler"
	"github.com/ternarybob/deepdiver/internal/services/universe"
	"github.com/ternarybob/deepdiver/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	scanNow      = flag.String("scan", "", "Run a one-off scan for a comma-separated ticker list and exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("DeepDiver version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("deepdiver.toml"); err == nil {
			configFiles = append(configFiles, "deepdiver.toml")
		}
	}

	// Startup sequence: config -> logger -> banner -> storage -> services
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer storageManager.Close()

	ctx := context.Background()

	// Market data client. A missing key degrades to diagnostics at scan
	// time rather than a startup crash.
	finnhubKey, err := common.ResolveAPIKey(ctx, storageManager.KeyValueStorage(), "finnhub_api_key", config.Finnhub.APIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("Finnhub API key not configured, profile and news evidence will be empty")
	}
	finnhubOpts := []finnhub.ClientOption{
		finnhub.WithLogger(logger),
		finnhub.WithRateLimit(config.Finnhub.RateLimit),
	}
	if config.Finnhub.BaseURL != "" {
		finnhubOpts = append(finnhubOpts, finnhub.WithBaseURL(config.Finnhub.BaseURL))
	}
	if timeout, err := time.ParseDuration(config.Finnhub.Timeout); err == nil {
		finnhubOpts = append(finnhubOpts, finnhub.WithTimeout(timeout))
	}
	marketData := finnhub.NewClient(finnhubKey, finnhubOpts...)

	edgarOpts := []edgar.ClientOption{
		edgar.WithLogger(logger),
		edgar.WithUserAgent(config.Edgar.UserAgent),
		edgar.WithRateLimit(config.Edgar.RateLimit),
	}
	if config.Edgar.BaseURL != "" {
		edgarOpts = append(edgarOpts, edgar.WithBaseURL(config.Edgar.BaseURL))
	}
	if timeout, err := time.ParseDuration(config.Edgar.Timeout); err == nil {
		edgarOpts = append(edgarOpts, edgar.WithTimeout(timeout))
	}
	filings := edgar.NewClient(edgarOpts...)

	provider := llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, storageManager.KeyValueStorage(), logger)
	defer provider.Close()

	curatorService := curator.NewService(marketData, filings, provider, &config.Curator, logger)
	universeService := universe.NewService(storageManager.UniverseStorage(), storageManager.WatchlistStorage(), &config.Curator, logger)

	agent, err := agents.NewCuratorAgent(curatorService, universeService, storageManager, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build curator agent")
		os.Exit(1)
	}

	// One-off scan mode
	if *scanNow != "" {
		tickers := splitTickers(*scanNow)
		record, err := agent.RunScan(ctx, "manual", tickers)
		if err != nil {
			logger.Fatal().Err(err).Msg("Manual scan failed")
			os.Exit(1)
		}
		logger.Info().Str("scan_id", record.ID).Int("tickers", record.TickerCount()).Msg("Manual scan completed")
		return
	}

	if !config.Scheduler.Enabled {
		logger.Fatal().Msg("Scheduler disabled and no -scan given, nothing to do")
		os.Exit(1)
	}

	schedulerService := scheduler.NewService(logger)
	if err := registerJobs(schedulerService, config, agent, universeService, storageManager, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register scheduled jobs")
		os.Exit(1)
	}

	if err := schedulerService.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	logger.Info().
		Int("universe_size", len(config.Curator.Universe)).
		Str("provider", string(config.LLM.DefaultProvider)).
		Msg("DeepDiver running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("Shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := schedulerService.Stop(stopCtx); err != nil {
		logger.Warn().Err(err).Msg("Scheduler did not stop cleanly")
	}
}

// splitTickers parses a comma-separated ticker list.
func splitTickers(s string) []string {
	tickers := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, strings.ToUpper(t))
		}
	}
	return tickers
}
