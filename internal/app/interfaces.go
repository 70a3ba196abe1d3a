package app

import (
	"context"

	"github.com/Adda-Baaj/headlines/internal/domain"
	"github.com/Adda-Baaj/headlines/pkg/newsapi"
	"github.com/Adda-Baaj/headlines/pkg/publishers"
)

// HeadlineSource fetches the current headlines for one query configuration.
type HeadlineSource interface {
	Fetch(ctx context.Context) ([]newsapi.Article, error)
}

// ArticleEnricher fills in missing headline metadata.
type ArticleEnricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// EventPublisher publishes headline events downstream and reports how many
// sinks accepted each one.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}
