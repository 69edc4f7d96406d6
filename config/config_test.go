package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{"general": {"env_file": ""}}`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Equal(t, 300, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, DefaultSystemPrompt, cfg.LLM.SystemPrompt)
	assert.Equal(t, "chromedp", cfg.Browser.Type)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, "https://html.duckduckgo.com/html/", cfg.Browser.SearchURL)
	assert.Equal(t, "browser", cfg.Search.Provider)
	assert.Equal(t, ":10001", cfg.Server.Address)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
general:
  env_file: ""
llm:
  provider: openai
  max_tokens: 512
browser:
  type: http
  settle_delay: 0s
server:
  address: "8080"
`)
	t.Setenv("DEEPRESEARCH_LLM_MODEL", "gpt-4o-mini")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, "http", cfg.Browser.Type)
	assert.Equal(t, time.Duration(0), cfg.Browser.SettleDelay)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.json", `{"general": {"env_file": ""}, "llm": {"provider": "mystery"}}`)
	_, err := LoadConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestSearchValidateNeedsKeys(t *testing.T) {
	require.Error(t, SearchConfig{Provider: "brave"}.Validate())
	require.Error(t, SearchConfig{Provider: "serper"}.Validate())
	require.NoError(t, SearchConfig{Provider: "serper", SerperAPIKey: "k"}.Validate())
	require.NoError(t, SearchConfig{}.Normalize().Validate())
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, ".env", "GROQ_API_KEY=from-file\nDEEPRESEARCH_TEST_PRESET=from-file\n")

	t.Setenv("GROQ_API_KEY", "")
	require.NoError(t, os.Unsetenv("GROQ_API_KEY"))
	t.Setenv("DEEPRESEARCH_TEST_PRESET", "from-env")

	require.NoError(t, LoadDotEnv(p))
	assert.Equal(t, "from-file", os.Getenv("GROQ_API_KEY"))
	assert.Equal(t, "from-env", os.Getenv("DEEPRESEARCH_TEST_PRESET"))
}

func TestLoadDotEnvMissingFileIgnored(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, LoadDotEnv(""))
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	assert.Equal(t, "groq-key", LLMConfig{Provider: "groq"}.ResolveAPIKey())
	assert.Equal(t, "openai-key", LLMConfig{Provider: "openai"}.ResolveAPIKey())
	assert.Equal(t, "explicit", LLMConfig{Provider: "openai", APIKey: "explicit"}.ResolveAPIKey())
}

func TestSearchAPIKey(t *testing.T) {
	c := SearchConfig{Provider: "brave", BraveAPIKey: "b", SerperAPIKey: "s"}
	assert.Equal(t, "b", c.APIKey())
	c.Provider = "serper"
	assert.Equal(t, "s", c.APIKey())
	c.Provider = "browser"
	assert.Empty(t, c.APIKey())
}

func TestLoadConfigSearchKeyFromEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "general:\n  env_file: \"\"\nsearch:\n  provider: serper\n")
	t.Setenv("DEEPRESEARCH_SEARCH_SERPER_API_KEY", "serper-key")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "serper-key", cfg.Search.APIKey())
}
