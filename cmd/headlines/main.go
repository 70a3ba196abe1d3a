package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Adda-Baaj/headlines/internal/config"
	"github.com/Adda-Baaj/headlines/internal/headlines"
	"github.com/Adda-Baaj/headlines/internal/logger"
	"github.com/Adda-Baaj/headlines/internal/settings"
	"github.com/Adda-Baaj/headlines/pkg/newsapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "headlines: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	country := flag.String("country", "", "country to read headlines for (us, fr)")
	apiKey := flag.String("api-key", "", "store this API key and exit")
	toggleTheme := flag.Bool("toggle-theme", false, "flip the stored dark mode flag and exit")
	watch := flag.Duration("watch", 0, "keep refreshing at this interval instead of printing once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	store, err := settings.NewStore(cfg.SettingsType, cfg.SettingsPath, cfg.AppOrg, cfg.AppName)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer store.Close()

	endpoint, err := newsapi.ParseEndpoint(cfg.NewsAPIEndpoint)
	if err != nil {
		return err
	}
	countryName := cfg.NewsAPICountry
	if strings.TrimSpace(*country) != "" {
		countryName = *country
	}
	c, err := newsapi.ParseCountry(countryName)
	if err != nil {
		return err
	}

	factory := func(key string) *newsapi.Client {
		return newsapi.New(key,
			newsapi.WithBaseURL(cfg.NewsAPIBaseURL),
			newsapi.WithTimeout(cfg.NewsAPITimeout),
		).Endpoint(endpoint).Country(c)
	}

	reader, err := headlines.New(store, factory, log)
	if err != nil {
		return err
	}

	switch {
	case *apiKey != "":
		return reader.SaveAPIKey(*apiKey)
	case *toggleTheme:
		if err := reader.ToggleTheme(); err != nil {
			return err
		}
		fmt.Printf("dark mode: %t\n", reader.DarkMode())
		return nil
	}

	if !reader.APIKeyInitialized() {
		if strings.TrimSpace(cfg.NewsAPIKey) == "" {
			return fmt.Errorf("no API key configured; run with -api-key or set NEWSAPI_KEY")
		}
		if err := reader.SaveAPIKey(cfg.NewsAPIKey); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch > 0 {
		return reader.Follow(ctx, os.Stdout, *watch, headlines.DefaultFrame)
	}

	if err := reader.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch headlines: %w", err)
	}
	return headlines.Render(os.Stdout, reader.Articles())
}
