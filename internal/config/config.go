package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	AppOrg   string `mapstructure:"app_org"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	NewsAPIBaseURL        string        `mapstructure:"newsapi_base_url"`
	NewsAPIKey            string        `mapstructure:"newsapi_key"`
	NewsAPIEndpoint       string        `mapstructure:"newsapi_endpoint"`
	NewsAPICountry        string        `mapstructure:"newsapi_country"`
	NewsAPITimeoutSeconds int64         `mapstructure:"newsapi_timeout_seconds"`
	NewsAPITimeout        time.Duration `mapstructure:"-"`

	SettingsType string `mapstructure:"settings_type"`
	SettingsPath string `mapstructure:"settings_path"`

	WatchCountriesRaw   string        `mapstructure:"watch_countries"`
	WatchCountries      []string      `mapstructure:"-"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	EnrichMissing       bool          `mapstructure:"enrich_missing"`
	EnrichDelayMs       int64         `mapstructure:"enrich_delay_ms"`
	EnrichDelay         time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "headlines")
	v.SetDefault("app_org", "adda-baaj")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("newsapi_base_url", "https://newsapi.org/v2/")
	v.SetDefault("newsapi_key", "")
	v.SetDefault("newsapi_endpoint", "top-headlines")
	v.SetDefault("newsapi_country", "us")
	v.SetDefault("newsapi_timeout_seconds", 15)
	v.SetDefault("settings_type", "file")
	v.SetDefault("settings_path", "")
	v.SetDefault("watch_countries", "us,fr")
	v.SetDefault("poll_interval", 900) // seconds
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("enrich_missing", true)
	v.SetDefault("enrich_delay_ms", 500)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((3*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) finalize() error {
	if cfg.NewsAPITimeoutSeconds <= 0 {
		return fmt.Errorf("invalid newsapi_timeout_seconds (must be positive seconds)")
	}
	cfg.NewsAPITimeout = time.Duration(cfg.NewsAPITimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.EnrichDelayMs < 0 {
		return fmt.Errorf("invalid enrich_delay_ms (must not be negative)")
	}
	cfg.EnrichDelay = time.Duration(cfg.EnrichDelayMs) * time.Millisecond

	cfg.WatchCountries = splitList(cfg.WatchCountriesRaw)

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// splitList parses a comma separated list, dropping blanks and duplicates.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Redacted returns a copy safe for logging.
func (cfg Config) Redacted() Config {
	if cfg.NewsAPIKey != "" {
		cfg.NewsAPIKey = "***"
	}
	return cfg
}
