package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	YouTube     YouTubeConfig  `toml:"youtube"`
	Stocks      StocksConfig   `toml:"stocks"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Cache       CacheConfig    `toml:"cache"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
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
	Output []string `toml:"output"` // "stdout", "file"
}

// YouTubeConfig contains the channel-listing API configuration (TikHub)
type YouTubeConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // Requests per second
}

// StocksConfig contains the EOD price data API configuration
type StocksConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // Requests per second
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // Default: "gemini-2.5-flash"
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`      // Default: "claude-haiku-3-5-20241022"
	MaxTokens   int     `toml:"max_tokens"` // Maximum tokens in response (default: 8192)
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// AnalysisConfig contains analysis pipeline limits
type AnalysisConfig struct {
	MaxBatchVideos int    `toml:"max_batch_videos"` // Hard cap on videos per batch analysis
	DefaultDays    int    `toml:"default_days"`     // Default stock lookback window in days
	ReportLanguage string `toml:"report_language"`  // Default report language
}

// CacheConfig controls the cached-analysis store retention
type CacheConfig struct {
	TTL           string `toml:"ttl"`            // Retention window as duration string (e.g. "720h")
	SweepSchedule string `toml:"sweep_schedule"` // Cron schedule for the retention sweep
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability;
// only user-facing settings should be exposed in videre.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 15000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		YouTube: YouTubeConfig{
			BaseURL:   "https://api.tikhub.io/api/v1",
			RateLimit: 5,
		},
		Stocks: StocksConfig{
			BaseURL:   "https://eodhd.com/api",
			RateLimit: 10,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			Timeout:     "5m",
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Temperature: 0.7,
			Timeout:     "5m",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Analysis: AnalysisConfig{
			MaxBatchVideos: 10,
			DefaultDays:    30,
			ReportLanguage: "en",
		},
		Cache: CacheConfig{
			TTL:           "720h",          // 30 days
			SweepSchedule: "0 0 */6 * * *", // Every 6 hours
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIDERE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("VIDERE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VIDERE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("VIDERE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("VIDERE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("VIDERE_YOUTUBE_API_KEY"); key != "" {
		config.YouTube.APIKey = key
	}
	if key := os.Getenv("VIDERE_STOCKS_API_KEY"); key != "" {
		config.Stocks.APIKey = key
	}
	if key := os.Getenv("VIDERE_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("VIDERE_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("VIDERE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	if ttl := os.Getenv("VIDERE_CACHE_TTL"); ttl != "" {
		if _, err := time.ParseDuration(ttl); err == nil {
			config.Cache.TTL = ttl
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// CacheTTL returns the parsed cache retention window, falling back to 30 days.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}
