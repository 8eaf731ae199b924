package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/deepdiver/internal/interfaces"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deepdiver.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestNewDefaultConfig verifies the baked-in defaults
func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "./data", config.Storage.Badger.Path)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, 7, config.Curator.NewsWindowDays)
	assert.Equal(t, 10, config.Curator.NewsMaxArticles)
	assert.Equal(t, 70, config.Curator.PromoteThreshold)
	assert.Equal(t, 50, config.Curator.DemoteThreshold)
	assert.Equal(t, 30, config.Curator.DeactivateScore)
	assert.True(t, config.Scheduler.Enabled)
}

// TestLoadFromFiles verifies TOML values override defaults
func TestLoadFromFiles(t *testing.T) {
	path := writeConfigFile(t, `
environment = "production"

[curator]
universe = ["NVDA", "AMD"]
promote_threshold = 80

[llm]
default_provider = "claude"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, []string{"NVDA", "AMD"}, config.Curator.Universe)
	assert.Equal(t, 80, config.Curator.PromoteThreshold)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, 50, config.Curator.DemoteThreshold, "unset fields keep defaults")
	t.Log("PASS: TOML file merged over defaults")
}

// TestLoadFromFiles_LaterFilesWin verifies file ordering
func TestLoadFromFiles_LaterFilesWin(t *testing.T) {
	first := writeConfigFile(t, `environment = "development"`)
	second := writeConfigFile(t, `environment = "production"`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
}

// TestLoadFromFiles_MissingFile verifies unreadable paths fail loudly
func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

// TestLoadFromFiles_EnvOverrides verifies DEEPDIVER_* variables win over files
func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
environment = "development"

[curator]
universe = ["NVDA"]
`)

	t.Setenv("DEEPDIVER_ENVIRONMENT", "production")
	t.Setenv("DEEPDIVER_UNIVERSE", "msft, googl")
	t.Setenv("DEEPDIVER_LLM_PROVIDER", "claude")
	t.Setenv("DEEPDIVER_SCHEDULER_ENABLED", "false")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, []string{"MSFT", "GOOGL"}, config.Curator.Universe, "tickers trimmed and uppercased")
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.False(t, config.Scheduler.Enabled)
	t.Log("PASS: Environment overrides applied over file values")
}

// TestLoadFromFiles_InvalidProvider verifies provider validation
func TestLoadFromFiles_InvalidProvider(t *testing.T) {
	path := writeConfigFile(t, `
[llm]
default_provider = "openai"
`)

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_provider")
}

// TestLoadFromFiles_InvalidCron verifies cron expressions are checked at load
func TestLoadFromFiles_InvalidCron(t *testing.T) {
	path := writeConfigFile(t, `
[scheduler]
daily_scan = "not a schedule"
`)

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron expression")
}

// TestLoadFromFiles_ThresholdOrdering verifies promote >= demote
func TestLoadFromFiles_ThresholdOrdering(t *testing.T) {
	path := writeConfigFile(t, `
[curator]
promote_threshold = 40
demote_threshold = 60
`)

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "promote_threshold")
}

type stubKV struct {
	values map[string]string
}

func (s *stubKV) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", os.ErrNotExist
}

func (s *stubKV) Set(ctx context.Context, key, value, description string) error {
	s.values[key] = value
	return nil
}

func (s *stubKV) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *stubKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	return nil, nil
}

// TestResolveAPIKey verifies the env -> KV -> config resolution order
func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()
	kv := &stubKV{values: map[string]string{"finnhub_api_key": "kv-key"}}

	// Config fallback when nothing else set
	key, err := ResolveAPIKey(ctx, &stubKV{values: map[string]string{}}, "finnhub_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "config-key", key)

	// KV beats config
	key, err = ResolveAPIKey(ctx, kv, "finnhub_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "kv-key", key)

	// Environment beats KV
	t.Setenv("DEEPDIVER_FINNHUB_API_KEY", "env-key")
	key, err = ResolveAPIKey(ctx, kv, "finnhub_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
	t.Log("PASS: Environment key takes precedence over KV and config")
}

// TestResolveAPIKey_NotFound verifies the error when no source has the key
func TestResolveAPIKey_NotFound(t *testing.T) {
	_, err := ResolveAPIKey(context.Background(), &stubKV{values: map[string]string{}}, "gemini_api_key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")
}
