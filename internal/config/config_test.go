package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NewsAPIBaseURL != "https://newsapi.org/v2/" {
		t.Fatalf("base url = %s", cfg.NewsAPIBaseURL)
	}
	if cfg.PollInterval != 15*time.Minute {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if !reflect.DeepEqual(cfg.WatchCountries, []string{"us", "fr"}) {
		t.Fatalf("watch countries = %v", cfg.WatchCountries)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "abc123")
	t.Setenv("NEWSAPI_COUNTRY", "fr")
	t.Setenv("WATCH_COUNTRIES", " FR, us ,fr,")
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("ENRICH_DELAY_MS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NewsAPIKey != "abc123" || cfg.NewsAPICountry != "fr" {
		t.Fatalf("unexpected newsapi settings %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.WatchCountries, []string{"fr", "us"}) {
		t.Fatalf("watch countries = %v", cfg.WatchCountries)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.EnrichDelay != 0 {
		t.Fatalf("enrich delay = %v", cfg.EnrichDelay)
	}
	if cfg.Redacted().NewsAPIKey != "***" {
		t.Fatalf("expected key to be redacted")
	}
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}
