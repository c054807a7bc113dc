// Package geocode resolves free-text place queries against a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/storyatlas/storyatlas/internal/common"
)

const (
	// DefaultEndpoint is the public Nominatim search API.
	DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

	// DefaultUserAgent identifies the application to the geocoding
	// service, as its usage policy requires.
	DefaultUserAgent = "storyatlas/1.0"

	defaultTimeout = 10 * time.Second
)

// Place is a single geocoding match.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Client queries a Nominatim-style endpoint for the best match of a
// free-text place query.
type Client struct {
	endpoint  string
	userAgent string
	http      *retryablehttp.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the search endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithUserAgent overrides the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// NewClient returns a geocoding client with retrying transport.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = defaultTimeout

	c := &Client{
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		http:      retryClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves query to its single best match. It returns
// common.ErrEmptyQuery for a blank query and common.ErrNoMatch when the
// service returns an empty result set. Transport and non-200 upstream
// failures are returned as ordinary errors.
func (c *Client) Lookup(ctx context.Context, query string) (*Place, error) {
	if query == "" {
		return nil, common.ErrEmptyQuery
	}

	u := fmt.Sprintf("%s?format=json&limit=1&q=%s", c.endpoint, url.QueryEscape(query))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading geocode response: %w", err)
	}

	results := gjson.ParseBytes(body)
	if !results.IsArray() || len(results.Array()) == 0 {
		return nil, common.ErrNoMatch
	}

	first := results.Array()[0]
	lat := first.Get("lat")
	lon := first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return nil, fmt.Errorf("geocode result missing coordinates")
	}

	return &Place{
		Lat:         lat.Float(),
		Lng:         lon.Float(),
		DisplayName: first.Get("display_name").String(),
	}, nil
}
