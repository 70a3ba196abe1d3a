package headlines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/headlines/internal/logger"
	"github.com/Adda-Baaj/headlines/internal/settings"
	"github.com/Adda-Baaj/headlines/pkg/newsapi"
	"github.com/samber/lo"
)

const emptyDescription = "..."

// ErrEmptyAPIKey is returned when saving a blank API key.
var ErrEmptyAPIKey = errors.New("api key must not be empty")

// NewsCard is one rendered headline.
type NewsCard struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	URL   string `json:"url"`
}

// ClientFactory builds a client for the given API key.
type ClientFactory func(apiKey string) *newsapi.Client

// Headlines is the reader state a frame loop renders. It is driven from a
// single goroutine; only the fetch itself runs in the background.
type Headlines struct {
	store          settings.Store
	factory        ClientFactory
	log            logger.Logger
	cards          []NewsCard
	settings       settings.Settings
	apiKeyInitDone bool
	pending        <-chan newsapi.Result
}

// New loads persisted settings. A nil factory uses newsapi.New.
func New(store settings.Store, factory ClientFactory, log logger.Logger) (*Headlines, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store must not be nil")
	}
	if factory == nil {
		factory = func(key string) *newsapi.Client { return newsapi.New(key) }
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	s, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return &Headlines{
		store:          store,
		factory:        factory,
		log:            log,
		settings:       s,
		apiKeyInitDone: strings.TrimSpace(s.APIKey) != "",
	}, nil
}

// Articles returns a copy of the current cards.
func (h *Headlines) Articles() []NewsCard {
	return append([]NewsCard(nil), h.cards...)
}

// APIKeyInitialized reports whether an API key has been configured.
func (h *Headlines) APIKeyInitialized() bool { return h.apiKeyInitDone }

// DarkMode reports the current theme.
func (h *Headlines) DarkMode() bool { return h.settings.DarkMode }

// Refresh fetches synchronously. On failure the previous cards are kept.
func (h *Headlines) Refresh(ctx context.Context) error {
	articles, err := h.factory(h.settings.APIKey).Fetch(ctx)
	if err != nil {
		h.log.ErrorObj("fetching news failed", "error", err.Error())
		return err
	}
	h.cards = toCards(articles)
	return nil
}

// StartFetch issues a background fetch unless one is already in flight.
func (h *Headlines) StartFetch(ctx context.Context) bool {
	if h.pending != nil {
		return false
	}
	h.pending = h.factory(h.settings.APIKey).FetchAsync(ctx)
	return true
}

// Fetching reports whether a background fetch has not been polled yet.
func (h *Headlines) Fetching() bool { return h.pending != nil }

// Poll applies a finished background fetch without blocking. It reports
// whether the cards were replaced.
func (h *Headlines) Poll() (bool, error) {
	if h.pending == nil {
		return false, nil
	}
	select {
	case res, ok := <-h.pending:
		h.pending = nil
		if !ok {
			return false, nil
		}
		if res.Err != nil {
			h.log.ErrorObj("fetching news failed", "error", res.Err.Error())
			return false, res.Err
		}
		h.cards = toCards(res.Articles)
		return true, nil
	default:
		return false, nil
	}
}

// SaveAPIKey persists key and marks the reader as configured.
func (h *Headlines) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	next := h.settings
	next.APIKey = key
	if err := h.store.Store(next); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	h.settings = next
	h.apiKeyInitDone = true
	h.log.InfoObj("api key set", "settings", map[string]any{"api_key_initialized": true})
	return nil
}

// ToggleTheme flips and persists the dark mode flag.
func (h *Headlines) ToggleTheme() error {
	next := h.settings
	next.DarkMode = !next.DarkMode
	if err := h.store.Store(next); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	h.settings = next
	return nil
}

func toCards(articles []newsapi.Article) []NewsCard {
	return lo.Map(articles, func(a newsapi.Article, _ int) NewsCard {
		desc := emptyDescription
		if strings.TrimSpace(a.Description) != "" {
			desc = a.Description
		}
		return NewsCard{Title: a.Title, Desc: desc, URL: a.URL}
	})
}
