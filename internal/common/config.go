package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/deepdiver/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Finnhub     FinnhubConfig   `toml:"finnhub"`
	Edgar       EdgarConfig     `toml:"edgar"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Curator     CuratorConfig   `toml:"curator"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// FinnhubConfig contains Finnhub market data API configuration
type FinnhubConfig struct {
	APIKey    string `toml:"api_key"`    // Finnhub API key
	BaseURL   string `toml:"base_url"`   // Override for testing
	Timeout   string `toml:"timeout"`    // HTTP timeout as duration string (default: "10s")
	RateLimit int    `toml:"rate_limit"` // Requests per second (default: 10)
}

// EdgarConfig contains SEC EDGAR full-text search configuration
type EdgarConfig struct {
	BaseURL   string `toml:"base_url"`   // Override for testing
	UserAgent string `toml:"user_agent"` // SEC requires an identifying user agent
	Timeout   string `toml:"timeout"`    // HTTP timeout as duration string (default: "15s")
	RateLimit int    `toml:"rate_limit"` // Requests per second (default: 5)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for adjudication (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "30s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for adjudication (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 200)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "30s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // Default provider: "gemini" or "claude" (default: "gemini")
}

// CuratorConfig contains curation pipeline configuration
type CuratorConfig struct {
	Universe           []string `toml:"universe"`             // Tickers to scan
	IncludeWeakSignals bool     `toml:"include_weak_signals"` // Count tier-3 keywords in scoring (default: false)
	NewsWindowDays     int      `toml:"news_window_days"`     // News lookback window (default: 7)
	NewsMaxArticles    int      `toml:"news_max_articles"`    // Max articles scored per ticker (default: 10)
	PromoteThreshold   int      `toml:"promote_threshold"`    // Watchlist promotion score (default: 70)
	DemoteThreshold    int      `toml:"demote_threshold"`     // Watchlist removal score (default: 50)
	DeactivateScore    int      `toml:"deactivate_score"`     // Universe deactivation score (default: 30)
	StaleAfterDays     int      `toml:"stale_after_days"`     // Deactivate after N days without mentions (default: 90)
}

// SchedulerConfig contains cron schedules for the curation jobs
type SchedulerConfig struct {
	Enabled        bool   `toml:"enabled"`         // Start the scheduler (default: true)
	DailyScan      string `toml:"daily_scan"`      // Daily universe scan schedule
	WeeklyDeepScan string `toml:"weekly_deep_scan"` // Weekly full-universe scan schedule
	MonthlyCleanup string `toml:"monthly_cleanup"` // Monthly stale-entry cleanup schedule
	MarketOnly     bool   `toml:"market_only"`     // Skip scans when the US market is closed
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in deepdiver.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Finnhub: FinnhubConfig{
			APIKey:    "",
			Timeout:   "10s",
			RateLimit: 10,
		},
		Edgar: EdgarConfig{
			UserAgent: "DeepDiver research@ternarybob.com",
			Timeout:   "15s",
			RateLimit: 5,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-3-flash-preview",
			Timeout:     "30s",
			Temperature: 0,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   200,
			Timeout:     "30s",
			Temperature: 0,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Curator: CuratorConfig{
			Universe:           []string{},
			IncludeWeakSignals: false,
			NewsWindowDays:     7,
			NewsMaxArticles:    10,
			PromoteThreshold:   70,
			DemoteThreshold:    50,
			DeactivateScore:    30,
			StaleAfterDays:     90,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			DailyScan:      "30 8 * * MON-FRI",
			WeeklyDeepScan: "0 6 * * SAT",
			MonthlyCleanup: "0 5 1 * *",
			MarketOnly:     false,
		},
	}
}

// LoadFromFiles loads configuration from one or more TOML files.
// Defaults are applied first, then each file in order (later files
// override earlier ones), then environment variable overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies DEEPDIVER_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DEEPDIVER_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if path := os.Getenv("DEEPDIVER_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if level := os.Getenv("DEEPDIVER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if key := os.Getenv("DEEPDIVER_FINNHUB_API_KEY"); key != "" {
		config.Finnhub.APIKey = key
	}
	if agent := os.Getenv("DEEPDIVER_EDGAR_USER_AGENT"); agent != "" {
		config.Edgar.UserAgent = agent
	}
	if key := os.Getenv("DEEPDIVER_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("DEEPDIVER_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("DEEPDIVER_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if universe := os.Getenv("DEEPDIVER_UNIVERSE"); universe != "" {
		tickers := []string{}
		for _, t := range strings.Split(universe, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tickers = append(tickers, strings.ToUpper(t))
			}
		}
		config.Curator.Universe = tickers
	}
	if v := os.Getenv("DEEPDIVER_SCHEDULER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Scheduler.Enabled = enabled
		}
	}
}

// validateConfig checks fields that would otherwise fail at runtime
func validateConfig(config *Config) error {
	if config.LLM.DefaultProvider != LLMProviderGemini && config.LLM.DefaultProvider != LLMProviderClaude {
		return fmt.Errorf("invalid llm.default_provider '%s': must be 'gemini' or 'claude'", config.LLM.DefaultProvider)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedules := map[string]string{
		"scheduler.daily_scan":       config.Scheduler.DailyScan,
		"scheduler.weekly_deep_scan": config.Scheduler.WeeklyDeepScan,
		"scheduler.monthly_cleanup":  config.Scheduler.MonthlyCleanup,
	}
	for name, schedule := range schedules {
		if schedule == "" {
			continue
		}
		if _, err := parser.Parse(schedule); err != nil {
			return fmt.Errorf("invalid cron expression for %s: %w", name, err)
		}
	}

	if config.Curator.PromoteThreshold < config.Curator.DemoteThreshold {
		return fmt.Errorf("curator.promote_threshold (%d) must be >= curator.demote_threshold (%d)",
			config.Curator.PromoteThreshold, config.Curator.DemoteThreshold)
	}

	return nil
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables → KV store → config fallback → error.
// This ensures DEEPDIVER_* environment variables always take precedence.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"DEEPDIVER_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"DEEPDIVER_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"claude_api_key":    {"DEEPDIVER_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"finnhub_api_key":   {"DEEPDIVER_FINNHUB_API_KEY", "FINNHUB_API_KEY"},
	}

	// Check environment variables (highest priority)
	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try to resolve from KV store (medium priority)
	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback to config value (lowest priority)
	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}
