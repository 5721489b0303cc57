// Package ohlc downloads daily OHLC candles from the CoinGecko Pro API and
// maintains the per-asset CSV files the backtest reads.
package ohlc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://pro-api.coingecko.com/api/v3"
	maxAttempts    = 6
)

// Client is a rate-limited CoinGecko API client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// NewClient creates a client pacing requests at one per requestDelay.
func NewClient(apiKey string, requestDelay time.Duration) *Client {
	if requestDelay <= 0 {
		requestDelay = 250 * time.Millisecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(requestDelay), 1),
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// getJSON performs a paced GET with retry and backoff. A Retry-After header
// on throttled responses overrides the default backoff.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("x-cg-pro-api-key", c.apiKey)
		}
		req.Header.Set("User-Agent", "cryptomomentum/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt >= maxAttempts {
				return err
			}
			if err := sleepCtx(ctx, time.Duration(300*attempt)*time.Millisecond); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()

		if attempt >= maxAttempts {
			return fmt.Errorf("HTTP %d after %d attempts: %s", resp.StatusCode, attempt, string(body))
		}

		backoff := time.Duration(300*attempt) * time.Millisecond
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				backoff = time.Duration(secs) * time.Second
			}
		}
		if err := sleepCtx(ctx, backoff); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
