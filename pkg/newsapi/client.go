package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Adda-Baaj/headlines/pkg/httpclient"
)

// BaseURL is the root every request URL is built from.
const BaseURL = "https://newsapi.org/v2/"

const (
	reasonRequestFailed = "failed to fetch data from url"
	reasonConvertString = "failed to convert response to string"
	reasonFormat        = "failed to format JSON"
	reasonURL           = "url error"
	reasonAsyncRequest  = "async request failed"
)

// Client queries one endpoint/country combination with a fixed API key.
// A Client is not safe for concurrent mutation; use one instance per query
// configuration.
type Client struct {
	apiKey   string
	endpoint Endpoint
	country  Country
	baseURL  string
	http     httpclient.Client
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBaseURL overrides BaseURL, mostly for tests and proxies.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = u }
}

// WithTimeout sets a per-request timeout on the default transport.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.http = httpclient.NewRestyClient(d) }
}

// New returns a client for top headlines in the US. The key is sent as-is.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: TopHeadlines,
		country:  US,
		baseURL:  BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// Endpoint selects the endpoint for subsequent fetches.
func (c *Client) Endpoint(e Endpoint) *Client {
	c.endpoint = e
	return c
}

// Country selects the country for subsequent fetches.
func (c *Client) Country(country Country) *Client {
	c.country = country
	return c
}

// URL builds the request URL: {base}{endpoint}?country={country}.
func (c *Client) URL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", newError(KindURLParsing, reasonURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", newError(KindURLParsing, reasonURL, fmt.Errorf("base url %q is not absolute", c.baseURL))
	}

	u = u.JoinPath(c.endpoint.String())
	u.RawQuery = url.Values{"country": []string{c.country.String()}}.Encode()
	return u.String(), nil
}

// Fetch performs one blocking request and returns the articles in API order.
func (c *Client) Fetch(ctx context.Context) ([]Article, error) {
	return c.fetch(ctx, KindRequestFailed, reasonRequestFailed)
}

// Result carries the outcome of FetchAsync.
type Result struct {
	Articles []Article
	Err      error
}

// FetchAsync issues the request without blocking the caller. The returned
// channel yields exactly one Result and is then closed. Client settings are
// captured when FetchAsync is called.
func (c *Client) FetchAsync(ctx context.Context) <-chan Result {
	snapshot := *c
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		articles, err := snapshot.fetch(ctx, KindAsyncRequestFailed, reasonAsyncRequest)
		out <- Result{Articles: articles, Err: err}
	}()
	return out
}

func (c *Client) fetch(ctx context.Context, transportKind Kind, transportReason string) ([]Article, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reqURL, err := c.URL()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, reqURL, map[string]string{"Authorization": c.apiKey})
	if err != nil {
		if errors.Is(err, httpclient.ErrReadBody) {
			return nil, newError(KindConvertStringFailed, reasonConvertString, err)
		}
		return nil, newError(transportKind, transportReason, err)
	}

	status := resp.StatusCode()
	success := status >= 200 && status <= 299

	var envelope Response
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		if !success {
			return nil, newError(transportKind, transportReason, fmt.Errorf("unexpected status %d", status))
		}
		return nil, newError(KindFormatFailed, reasonFormat, err)
	}

	// A non-2xx reply only reaches the mapper when it carries an API error envelope.
	if !success && (envelope.Status == "" || envelope.OK()) {
		return nil, newError(transportKind, transportReason, fmt.Errorf("unexpected status %d", status))
	}
	if !envelope.OK() {
		return nil, mapResponseErr(envelope.Code)
	}
	return envelope.Articles, nil
}
