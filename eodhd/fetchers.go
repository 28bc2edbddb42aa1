package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// searchResult matches the structure of a single item in the EODHD search API response.
type searchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

func (c *Client) addr(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", c.apiKey)
	query.Set("fmt", "json")
	return c.baseURL + path + "?" + query.Encode()
}

// search searches for securities by name, ticker or ISIN.
func (c *Client) search(ctx context.Context, term string) ([]searchResult, error) {
	var results []searchResult
	if err := jwget(ctx, c.http, c.addr("/search/"+url.PathEscape(term), nil), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchSplits returns the split history for a given EODHD ticker.
func (c *Client) fetchSplits(ctx context.Context, security ukcgt.ID, ticker string, from, to date.Date) ([]ukcgt.CorporateAction, error) {
	// [{"date":"2020-08-31","split":"4.000000/1.000000"}, ...]
	q := url.Values{}
	q.Set("from", from.String())
	q.Set("to", to.String())

	type apiSplit struct {
		Date  date.Date `json:"date"`
		Split string    `json:"split"`
	}

	content := make([]apiSplit, 0)
	if err := jwget(ctx, c.http, c.addr("/splits/"+ticker, q), &content); err != nil {
		return nil, err
	}

	actions := make([]ukcgt.CorporateAction, 0, len(content))
	for _, s := range content {
		parts := strings.Split(s.Split, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid split format from API: %q", s.Split)
		}

		numDecimal, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid numerator in split %q: %w", s.Split, err)
		}
		denDecimal, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid denominator in split %q: %w", s.Split, err)
		}

		num, den := simplifyDecimalRatio(numDecimal, denDecimal)
		a := ukcgt.NewSplit(security, s.Date, num, den)
		if num < den {
			a.Kind = ukcgt.CmdConsolidation
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// fetchName reads the company name from the fundamentals of a ticker.
func (c *Client) fetchName(ctx context.Context, ticker string) (string, error) {
	q := url.Values{}
	q.Set("filter", "General")

	var jobj any
	if err := jwget(ctx, c.http, c.addr("/fundamentals/"+ticker, q), &jobj); err != nil {
		return "", err
	}
	// with the filter, the General object is returned at the root.
	path := "$.Name"
	if m, ok := jobj.(map[string]any); ok {
		if _, ok := m["General"]; ok {
			path = "$.General.Name"
		}
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %q %w", ticker, path, err)
	}
	name, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: %q not a string %v", ticker, path, jval)
	}
	return name, nil
}
