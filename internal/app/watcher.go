package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/headlines/internal/config"
	"github.com/Adda-Baaj/headlines/internal/domain"
	"github.com/Adda-Baaj/headlines/internal/enricher"
	"github.com/Adda-Baaj/headlines/internal/logger"
	"github.com/Adda-Baaj/headlines/internal/storage"
	"github.com/Adda-Baaj/headlines/pkg/newsapi"
	"github.com/Adda-Baaj/headlines/pkg/publishers"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// countrySource pairs a country with the client that queries it.
type countrySource struct {
	country string
	source  HeadlineSource
}

// Watcher polls top headlines for a set of countries and publishes the ones
// it has not seen before.
type Watcher struct {
	endpoint string
	sources  []countrySource
	store    storage.Store
	enricher ArticleEnricher
	fanout   EventPublisher
	interval time.Duration
	log      logger.Logger
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.NewsAPIKey) == "" {
		return nil, fmt.Errorf("newsapi_key is required for the watcher")
	}

	endpoint, err := newsapi.ParseEndpoint(cfg.NewsAPIEndpoint)
	if err != nil {
		return nil, err
	}
	sources, err := buildSources(cfg, endpoint)
	if err != nil {
		return nil, err
	}
	log.InfoObj("countries configured", "watch_meta", map[string]any{
		"endpoint":  endpoint.String(),
		"countries": cfg.WatchCountries,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count": fanout.Size(),
		"publishers": lo.Map(enabledPublishers, func(p publishers.PublisherConfig, _ int) map[string]string {
			return map[string]string{"id": p.ID, "type": p.Type}
		}),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var enr ArticleEnricher
	if cfg.EnrichMissing {
		enr = enricher.New(nil, cfg.EnrichDelay, log)
	}

	return &Watcher{
		endpoint: endpoint.String(),
		sources:  sources,
		store:    store,
		enricher: enr,
		fanout:   fanout,
		interval: cfg.PollInterval,
		log:      log,
	}, nil
}

// buildSources creates one client per country so settings never leak
// between queries.
func buildSources(cfg *config.Config, endpoint newsapi.Endpoint) ([]countrySource, error) {
	if len(cfg.WatchCountries) == 0 {
		return nil, fmt.Errorf("watch_countries must name at least one country")
	}
	out := make([]countrySource, 0, len(cfg.WatchCountries))
	for _, raw := range cfg.WatchCountries {
		country, err := newsapi.ParseCountry(raw)
		if err != nil {
			return nil, err
		}
		client := newsapi.New(cfg.NewsAPIKey,
			newsapi.WithBaseURL(cfg.NewsAPIBaseURL),
			newsapi.WithTimeout(cfg.NewsAPITimeout),
		).Endpoint(endpoint).Country(country)
		out = append(out, countrySource{country: country.String(), source: client})
	}
	return out, nil
}

// Run polls until the context is cancelled. The first cycle runs immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || len(w.sources) == 0 || w.fanout == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"countries_count":  len(w.sources),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.interval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs one fetch/dedupe/enrich/publish cycle.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()

	articles, fetchErr := w.fetchAll(ctx)
	fresh := w.filterNew(articles)
	if w.enricher != nil && len(fresh) > 0 {
		fresh = w.enricher.Enrich(ctx, fresh)
	}
	published, publishErr := w.publish(ctx, fresh)

	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"fetched":    len(articles),
		"fresh":      len(fresh),
		"published":  published,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return errors.Join(fetchErr, publishErr)
}

// fetchAll queries every country concurrently. A failing country is logged
// and does not hold back the others.
func (w *Watcher) fetchAll(ctx context.Context) ([]domain.Article, error) {
	results := make([][]domain.Article, len(w.sources))
	errs := make([]error, len(w.sources))

	var g errgroup.Group
	for i, src := range w.sources {
		i, src := i, src
		g.Go(func() error {
			raw, err := src.source.Fetch(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("fetch country %s: %w", src.country, err)
				w.log.ErrorObj("country fetch failed", "fetch_error", map[string]any{
					"country": src.country,
					"error":   err.Error(),
				})
				return nil
			}
			results[i] = toDomain(src.country, raw)
			return nil
		})
	}
	_ = g.Wait()

	all := lo.UniqBy(lo.Flatten(results), func(a domain.Article) string { return a.ID })
	return all, errors.Join(errs...)
}

// filterNew drops headlines already recorded in the store. Lookup failures
// keep the headline.
func (w *Watcher) filterNew(articles []domain.Article) []domain.Article {
	return lo.Filter(articles, func(a domain.Article, _ int) bool {
		seen, err := w.store.Seen(a.ID)
		if err != nil {
			w.log.WarnObj("seen lookup failed", "storage_error", map[string]any{
				"article_id": a.ID,
				"error":      err.Error(),
			})
			return true
		}
		return !seen
	})
}

// publish sends each headline downstream and records the ones at least one
// publisher accepted.
func (w *Watcher) publish(ctx context.Context, articles []domain.Article) (int, error) {
	var errs []error
	delivered := make([]string, 0, len(articles))
	for _, a := range articles {
		if ctx.Err() != nil {
			break
		}
		n, err := w.fanout.Publish(ctx, publishers.NewEvent(w.endpoint, a))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish article %s: %w", a.ID, err))
		}
		if n > 0 {
			delivered = append(delivered, a.ID)
		}
	}

	if len(delivered) > 0 {
		if err := w.store.Mark(delivered...); err != nil {
			errs = append(errs, fmt.Errorf("mark published: %w", err))
		}
	}
	return len(delivered), errors.Join(errs...)
}

func (w *Watcher) close() {
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}

// toDomain converts API articles, dropping the ones without a URL.
func toDomain(country string, raw []newsapi.Article) []domain.Article {
	withURL := lo.Filter(raw, func(a newsapi.Article, _ int) bool {
		return strings.TrimSpace(a.URL) != ""
	})
	return lo.Map(withURL, func(a newsapi.Article, _ int) domain.Article {
		url := strings.TrimSpace(a.URL)
		return domain.Article{
			ID:          articleID(url),
			Title:       strings.TrimSpace(a.Title),
			URL:         url,
			Description: strings.TrimSpace(a.Description),
			Country:     country,
		}
	})
}

func articleID(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
