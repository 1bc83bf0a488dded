package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public OpenWeatherMap API endpoint
	DefaultBaseURL = "http://api.openweathermap.org"
	// DefaultTimeout bounds each forecast request; an unresponsive upstream
	// must not stall the enclosing event write
	DefaultTimeout = 5 * time.Second
	// DefaultRateLimit keeps usage inside the free-tier quota (60/min)
	DefaultRateLimit = rate.Limit(1.0)
)

// Client handles communication with the OpenWeatherMap forecast API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new OpenWeatherMap API client. apiKey is the account
// credential sent with every request.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(DefaultRateLimit, 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Forecast fetches the 5-day forecast for a location query string.
// Each call is independent: no retries, no caching.
func (c *Client) Forecast(ctx context.Context, location string) (*ForecastResponse, error) {
	if location == "" {
		return nil, fmt.Errorf("location cannot be empty")
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)

	requestURL := fmt.Sprintf("%s/data/2.5/forecast?%s", c.baseURL, params.Encode())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request: unexpected status %d", resp.StatusCode)
	}

	var result ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	return &result, nil
}
