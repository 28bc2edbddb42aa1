// Package eodhd fetches corporate actions from EOD Historical Data (https://eodhd.com).
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://eodhd.com/api"

// Client queries the EODHD API. It implements ukcgt.CorporateActionProvider.
//
// HTTP responses are cached on disk for the day, and lookups are memoized for
// the duration of the run.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	memo    *cache.Cache
	log     zerolog.Logger
}

var _ ukcgt.CorporateActionProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root, "https://eodhd.com/api" by default.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the daily disk caching http client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a Client using apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		memo:    cache.New(time.Hour, 10*time.Minute),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newDailyCachingClient(c.log)
	}
	return c
}

// CorporateActions returns the splits and consolidations of security effective between from and to.
func (c *Client) CorporateActions(ctx context.Context, security ukcgt.ID, from, to date.Date) ([]ukcgt.CorporateAction, error) {
	if !security.IsISIN() {
		return nil, fmt.Errorf("%s: no public data for a security without an ISIN", security)
	}
	ticker, err := c.Ticker(ctx, security)
	if err != nil {
		return nil, err
	}
	actions, err := c.fetchSplits(ctx, security, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", security, err)
	}
	c.log.Debug().Str("security", string(security)).Str("ticker", ticker).Int("count", len(actions)).Msg("corporate actions")
	return actions, nil
}

// Ticker returns the EODHD ticker, like "AAPL.US", of a security.
func (c *Client) Ticker(ctx context.Context, security ukcgt.ID) (string, error) {
	key := "ticker " + string(security)
	if t, ok := c.memo.Get(key); ok {
		return t.(string), nil
	}
	results, err := c.search(ctx, string(security))
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if r.ISIN == string(security) {
			ticker := r.Code + "." + r.Exchange
			c.memo.Set(key, ticker, cache.DefaultExpiration)
			return ticker, nil
		}
	}
	return "", fmt.Errorf("%s: not found in eodhd", security)
}

// Name returns the company name of a ticker.
func (c *Client) Name(ctx context.Context, ticker string) (string, error) {
	key := "name " + ticker
	if n, ok := c.memo.Get(key); ok {
		return n.(string), nil
	}
	name, err := c.fetchName(ctx, ticker)
	if err != nil {
		return "", err
	}
	c.memo.Set(key, name, cache.DefaultExpiration)
	return name, nil
}
