package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for a research run
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Search    SearchConfig    `mapstructure:"search"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	EnvFile  string `mapstructure:"env_file"` // dotenv file exported before the credential lookup
}

// LLMConfig configures the chat-completions provider.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // groq, openai
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

const (
	DefaultLLMProvider  = "groq"
	DefaultLLMModel     = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultSystemPrompt = "You are a helpful assistant who gives coherent, clear, and accurate answers.."
)

// Normalize fills unset LLM values with defaults.
func (c LLMConfig) Normalize() LLMConfig {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultLLMProvider
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultLLMModel
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 300
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// Validate checks the LLM section. A missing API key is not an error here:
// it surfaces on the first model call.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case "groq", "openai":
	default:
		return fmt.Errorf("llm.provider %q not supported (groq, openai)", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	return nil
}

// ResolveAPIKey returns the configured key or the provider's conventional
// environment variable.
func (c LLMConfig) ResolveAPIKey() string {
	if k := strings.TrimSpace(c.APIKey); k != "" {
		return k
	}
	switch c.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GROQ_API_KEY")
	}
}

// DefaultSearchURL is the DuckDuckGo HTML results page.
const DefaultSearchURL = "https://html.duckduckgo.com/html/"

// BrowserConfig configures the page-fetch collaborator.
type BrowserConfig struct {
	Type        string        `mapstructure:"type"` // chromedp, http
	Headless    bool          `mapstructure:"headless"`
	UserAgent   string        `mapstructure:"user_agent"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	PageTimeout time.Duration `mapstructure:"page_timeout"` // 0 keeps the driver defaults
	SearchURL   string        `mapstructure:"search_url"`
}

// Normalize fills unset browser values with defaults.
func (c BrowserConfig) Normalize() BrowserConfig {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.Type == "" {
		c.Type = "chromedp"
	}
	if strings.TrimSpace(c.SearchURL) == "" {
		c.SearchURL = DefaultSearchURL
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	return c
}

func (c BrowserConfig) Validate() error {
	switch c.Type {
	case "chromedp", "http":
	default:
		return fmt.Errorf("browser.type %q not supported (chromedp, http)", c.Type)
	}
	if c.PageTimeout < 0 {
		return fmt.Errorf("browser.page_timeout cannot be negative")
	}
	return nil
}

// SearchConfig selects where result URLs come from.
type SearchConfig struct {
	Provider     string `mapstructure:"provider"` // browser, duckduckgo, brave, serper
	BraveAPIKey  string `mapstructure:"brave_api_key"`
	SerperAPIKey string `mapstructure:"serper_api_key"`
}

func (c SearchConfig) Normalize() SearchConfig {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = "browser"
	}
	return c
}

func (c SearchConfig) Validate() error {
	switch c.Provider {
	case "browser", "duckduckgo":
	case "brave":
		if strings.TrimSpace(c.BraveAPIKey) == "" {
			return fmt.Errorf("search.brave_api_key required for the brave provider")
		}
	case "serper":
		if strings.TrimSpace(c.SerperAPIKey) == "" {
			return fmt.Errorf("search.serper_api_key required for the serper provider")
		}
	default:
		return fmt.Errorf("search.provider %q not supported", c.Provider)
	}
	return nil
}

// APIKey returns the credential of the selected provider, if it needs one.
func (c SearchConfig) APIKey() string {
	switch c.Provider {
	case "brave":
		return c.BraveAPIKey
	case "serper":
		return c.SerperAPIKey
	}
	return ""
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

func (c ServerConfig) Normalize() ServerConfig {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = ":10001"
	} else if c.Address[0] != ':' && !strings.Contains(c.Address, ":") {
		c.Address = ":" + c.Address
	}
	return c
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MetricsPort  int    `mapstructure:"metrics_port"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func (t TelemetryConfig) Validate() error {
	if t.MetricsPort < 0 {
		return fmt.Errorf("telemetry.metrics_port cannot be negative")
	}
	return nil
}

// Normalize applies defaults to every section.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.General.LogLevel) == "" {
		c.General.LogLevel = "info"
	}
	c.LLM = c.LLM.Normalize()
	c.Browser = c.Browser.Normalize()
	c.Search = c.Search.Normalize()
	c.Server = c.Server.Normalize()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Browser.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// LoadConfig loads config from file (optional), the environment and the
// dotenv file named by general.env_file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.env_file", ".env")
	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.system_prompt", DefaultSystemPrompt)
	v.SetDefault("browser.type", "chromedp")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.settle_delay", "2s")
	v.SetDefault("browser.page_timeout", "0s")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.search_url", DefaultSearchURL)
	v.SetDefault("search.provider", "browser")
	v.SetDefault("search.brave_api_key", "")
	v.SetDefault("search.serper_api_key", "")
	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.metrics_port", 0)
	v.SetDefault("telemetry.otlp_endpoint", "")

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DEEPRESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()

	if err := LoadDotEnv(cfg.General.EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv exports KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set win. A missing file is ignored.
func LoadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}
