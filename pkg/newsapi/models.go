package newsapi

import (
	"fmt"
	"strings"
)

// Article is a single headline as returned by the API.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Response is the top-level envelope wrapping every API reply.
// Code and Message are only populated when Status is not "ok".
type Response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message,omitempty"`
	Articles []Article `json:"articles"`
}

const statusOK = "ok"

// OK reports whether the API accepted the request.
func (r Response) OK() bool { return r.Status == statusOK }

// Endpoint selects the API resource a client queries.
type Endpoint string

// TopHeadlines is the breaking headlines endpoint.
const TopHeadlines Endpoint = "top-headlines"

func (e Endpoint) String() string { return string(e) }

// ParseEndpoint resolves a case-insensitive endpoint tag.
func ParseEndpoint(s string) (Endpoint, error) {
	switch Endpoint(strings.ToLower(strings.TrimSpace(s))) {
	case TopHeadlines:
		return TopHeadlines, nil
	default:
		return "", fmt.Errorf("unsupported endpoint %q", s)
	}
}

// Country is the two-letter region filter applied to a query.
type Country string

// Supported countries.
const (
	US Country = "us"
	FR Country = "fr"
)

func (c Country) String() string { return string(c) }

// ParseCountry resolves a case-insensitive country tag.
func ParseCountry(s string) (Country, error) {
	switch Country(strings.ToLower(strings.TrimSpace(s))) {
	case US:
		return US, nil
	case FR:
		return FR, nil
	default:
		return "", fmt.Errorf("unsupported country %q", s)
	}
}
