package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Naver    NaverConfig    `toml:"naver"`
	AI       AIConfig       `toml:"ai"`
	Store    StoreConfig    `toml:"store"`
	Notion   NotionConfig   `toml:"notion"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Loop     LoopConfig     `toml:"loop"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
}

// SearchConfig holds news search settings.
type SearchConfig struct {
	Provider       string   `toml:"provider"`
	Queries        []string `toml:"queries"`
	PageSize       int      `toml:"page_size"`
	MaxStart       int      `toml:"max_start"`
	DelayMS        int      `toml:"delay_ms"`
	RSSURLTemplate string   `toml:"rss_url_template"`
}

// NaverConfig holds Naver Open API credentials.
type NaverConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AIConfig holds classification oracle settings.
type AIConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// StoreConfig selects where accepted articles are written.
type StoreConfig struct {
	Backend string `toml:"backend"`
}

// NotionConfig holds Notion database settings.
type NotionConfig struct {
	Token      string `toml:"token"`
	DatabaseID string `toml:"database_id"`
	Version    string `toml:"version"`
}

// PipelineConfig holds per-run ingestion settings.
type PipelineConfig struct {
	KeywordsFile   string `toml:"keywords_file"`
	ArticleDelayMS int    `toml:"article_delay_ms"`
	SessionWindow  int    `toml:"session_window"`
	Timezone       string `toml:"timezone"`
	HeuristicType  bool   `toml:"heuristic_type"`
}

// LoopConfig holds continuous mode settings.
type LoopConfig struct {
	IntervalMinutes  int `toml:"interval_minutes"`
	FirstWindowHours int `toml:"first_window_hours"`
	WindowHours      int `toml:"window_hours"`
}

// ServerConfig holds status API settings.
type ServerConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default model per AI provider.
var defaultModels = map[string]string{
	"gemini":    "gemini-2.0-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
}

const defaultConfigContent = `[search]
provider = "naver"                # "naver" or "rss"
queries = ["1형 당뇨", "1형당뇨", "소아당뇨"]
page_size = 100
max_start = 1000
delay_ms = 300
# rss_url_template = "https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko"

[naver]
client_id = ""                    # or set NAVER_CLIENT_ID
client_secret = ""                # or set NAVER_CLIENT_SECRET

[ai]
provider = "gemini"               # "gemini", "openai" or "anthropic"
api_key = ""                      # or set AI_API_KEY / GEMINI_API_KEY
model = "gemini-2.0-flash"

[store]
backend = "notion"                # "notion" or "sqlite"

[notion]
token = ""                        # or set NOTION_TOKEN
database_id = ""                  # or set NOTION_DATABASE_ID
version = "2022-06-28"

[pipeline]
# keywords_file = "keywords.yaml"
article_delay_ms = 500
session_window = 20
timezone = "Asia/Seoul"
heuristic_type = false

[loop]
interval_minutes = 60
first_window_hours = 24
window_hours = 2

[server]
enabled = false
port = 8080

[logging]
level = "info"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicit zero values are errors, not requests for the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("search", "page_size") && cfg.Search.PageSize < 1 {
		return fmt.Errorf("invalid search.page_size %d: must be >= 1", cfg.Search.PageSize)
	}
	if md.IsDefined("search", "queries") && len(cfg.Search.Queries) == 0 {
		return errors.New("invalid search.queries: at least one query is required")
	}
	if md.IsDefined("pipeline", "session_window") && cfg.Pipeline.SessionWindow < 1 {
		return fmt.Errorf("invalid pipeline.session_window %d: must be >= 1", cfg.Pipeline.SessionWindow)
	}
	loop := map[string]int{
		"interval_minutes":   cfg.Loop.IntervalMinutes,
		"first_window_hours": cfg.Loop.FirstWindowHours,
		"window_hours":       cfg.Loop.WindowHours,
	}
	for key, v := range loop {
		if md.IsDefined("loop", key) && v < 1 {
			return fmt.Errorf("invalid loop.%s %d: must be >= 1", key, v)
		}
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = "naver"
	}
	if len(cfg.Search.Queries) == 0 {
		cfg.Search.Queries = []string{"1형 당뇨", "1형당뇨", "소아당뇨"}
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 100
	}
	if cfg.Search.MaxStart == 0 {
		cfg.Search.MaxStart = 1000
	}
	if cfg.Search.DelayMS == 0 {
		cfg.Search.DelayMS = 300
	}

	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModels[cfg.AI.Provider]
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "notion"
	}
	if cfg.Notion.Version == "" {
		cfg.Notion.Version = "2022-06-28"
	}

	if cfg.Pipeline.ArticleDelayMS == 0 {
		cfg.Pipeline.ArticleDelayMS = 500
	}
	if cfg.Pipeline.SessionWindow == 0 {
		cfg.Pipeline.SessionWindow = 20
	}
	if cfg.Pipeline.Timezone == "" {
		cfg.Pipeline.Timezone = "Asia/Seoul"
	}

	if cfg.Loop.IntervalMinutes == 0 {
		cfg.Loop.IntervalMinutes = 60
	}
	if cfg.Loop.FirstWindowHours == 0 {
		cfg.Loop.FirstWindowHours = 24
	}
	if cfg.Loop.WindowHours == 0 {
		cfg.Loop.WindowHours = 2
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY, matching the
//     configured provider
func applyEnvOverrides(cfg *Config) {
	setFromEnv(&cfg.Naver.ClientID, "NAVER_CLIENT_ID")
	setFromEnv(&cfg.Naver.ClientSecret, "NAVER_CLIENT_SECRET")
	setFromEnv(&cfg.Notion.Token, "NOTION_TOKEN")
	setFromEnv(&cfg.Notion.DatabaseID, "NOTION_DATABASE_ID")

	switch cfg.AI.Provider {
	case "gemini":
		setFromEnv(&cfg.AI.APIKey, "GEMINI_API_KEY")
	case "openai":
		setFromEnv(&cfg.AI.APIKey, "OPENAI_API_KEY")
	case "anthropic":
		setFromEnv(&cfg.AI.APIKey, "ANTHROPIC_API_KEY")
	}
	setFromEnv(&cfg.AI.APIKey, "AI_API_KEY")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validate checks that configuration values are within acceptable ranges
// and that the selected backends have credentials.
func validate(cfg *Config) error {
	switch cfg.Search.Provider {
	case "naver":
		if cfg.Naver.ClientID == "" || cfg.Naver.ClientSecret == "" {
			return errors.New("naver search requires naver.client_id and naver.client_secret (or NAVER_CLIENT_ID / NAVER_CLIENT_SECRET)")
		}
	case "rss":
	default:
		return fmt.Errorf("invalid search.provider %q: must be \"naver\" or \"rss\"", cfg.Search.Provider)
	}
	if cfg.Search.PageSize < 1 {
		return fmt.Errorf("invalid search.page_size %d: must be >= 1", cfg.Search.PageSize)
	}
	if cfg.Search.MaxStart < 1 {
		return fmt.Errorf("invalid search.max_start %d: must be >= 1", cfg.Search.MaxStart)
	}

	if _, ok := defaultModels[cfg.AI.Provider]; !ok {
		return fmt.Errorf("invalid ai.provider %q: must be \"gemini\", \"openai\" or \"anthropic\"", cfg.AI.Provider)
	}

	switch cfg.Store.Backend {
	case "notion":
		if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
			return errors.New("notion store requires notion.token and notion.database_id (or NOTION_TOKEN / NOTION_DATABASE_ID)")
		}
	case "sqlite":
	default:
		return fmt.Errorf("invalid store.backend %q: must be \"notion\" or \"sqlite\"", cfg.Store.Backend)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: classification will use keyword heuristics only")
	}

	return nil
}

// Location returns the configured timezone, or a fixed +09:00 zone when the
// tz database is unavailable.
func (c PipelineConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// SearchDelay is the pause between search requests.
func (c SearchConfig) SearchDelay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// ArticleDelay is the pause between processed articles.
func (c PipelineConfig) ArticleDelay() time.Duration {
	return time.Duration(c.ArticleDelayMS) * time.Millisecond
}

// Interval is the wait between loop iterations.
func (c LoopConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
