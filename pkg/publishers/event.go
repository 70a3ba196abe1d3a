package publishers

import (
	"time"

	"github.com/Adda-Baaj/headlines/internal/domain"
)

// Event is the payload published downstream for every new headline.
type Event struct {
	Endpoint    string         `json:"endpoint"`
	Country     string         `json:"country"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent wraps a headline fetched from endpoint for country.
func NewEvent(endpoint string, article domain.Article) Event {
	return Event{
		Endpoint:    endpoint,
		Country:     article.Country,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue/topic messages for subscriber filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"country":  e.Country,
		"endpoint": e.Endpoint,
	}
}
