package enricher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/headlines/internal/domain"
	"github.com/Adda-Baaj/headlines/internal/logger"
	"github.com/Adda-Baaj/headlines/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultUserAgent = "headlines-watcher/1.0"
)

// Enricher fills in missing headline metadata from the article page's OG tags.
type Enricher struct {
	client httpclient.Client
	delay  time.Duration
	log    logger.Logger
}

// New constructs an enricher; delay throttles consecutive page fetches.
func New(client httpclient.Client, delay time.Duration, log logger.Logger) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Enricher{client: client, delay: delay, log: log}
}

// Enrich fetches pages only for headlines lacking a description or image.
// Failures keep the original headline. On cancellation the headlines not yet
// visited are returned untouched.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	fetched := 0
	for i, art := range articles {
		if !needsEnrichment(art) {
			continue
		}
		if fetched > 0 && e.delay > 0 {
			timer := time.NewTimer(e.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return out
		}
		fetched++

		enriched, err := e.fetchAndParse(ctx, art)
		if err != nil {
			e.log.WarnObj("headline metadata scrape failed", "metadata_error", map[string]any{
				"country": art.Country,
				"url":     art.URL,
				"error":   err.Error(),
			})
			continue
		}
		out[i] = enriched
	}

	return out
}

func needsEnrichment(a domain.Article) bool {
	return strings.TrimSpace(a.URL) != "" &&
		(strings.TrimSpace(a.Description) == "" || strings.TrimSpace(a.ImageURL) == "")
}

func (e *Enricher) fetchAndParse(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, map[string]string{
		"User-Agent": defaultUserAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if strings.TrimSpace(updated.Description) == "" {
		updated.Description = meta.Description
	}
	if strings.TrimSpace(updated.ImageURL) == "" {
		updated.ImageURL = resolveURL(meta.ImageURL, art.URL)
	}
	return updated, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="twitter:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against the page URL.
func resolveURL(ref, page string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	base, err := url.Parse(page)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
