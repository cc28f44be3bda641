package sportsdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/providers"
)

// Config controls how the client reaches TheSportsDB.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds each call end to end. Defaults to 10s.
	Timeout time.Duration
}

// Client fetches leagues and season badges from TheSportsDB and maps them to domain models.
// Each call is a single attempt; failures surface as providers.TimeoutError,
// providers.TransportError or providers.SchemaError.
type Client struct {
	baseURL    string
	httpClient httpDoer
	timeout    time.Duration
}

// NewClient constructs a TheSportsDB client with the provided configuration.
func NewClient(cfg Config) *Client {
	timeout := resolveTimeout(cfg.Timeout)
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, timeout),
		timeout:    timeout,
	}
}

// FetchLeagues retrieves the full league list.
func (c *Client) FetchLeagues(ctx context.Context) ([]leagues.League, error) {
	body, err := c.get(ctx, opLeagues, leaguesPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeLeagues(body)
}

// FetchSeasonBadges retrieves every season badge record for a league in upstream order.
func (c *Client) FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error) {
	q := url.Values{}
	q.Set("badge", "1")
	q.Set("id", leagueID)

	body, err := c.get(ctx, opSeasons, seasonsPath, q)
	if err != nil {
		return nil, err
	}
	return decodeSeasons(body)
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &providers.TransportError{Provider: providerName, Op: op, Err: err}
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &providers.TransportError{
			Provider:   providerName,
			Op:         op,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
			Message:    fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(op, err)
	}
	return body, nil
}

func (c *Client) classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &providers.TimeoutError{Provider: providerName, Op: op, Timeout: c.timeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &providers.TimeoutError{Provider: providerName, Op: op, Timeout: c.timeout, Err: err}
	}
	return &providers.TransportError{Provider: providerName, Op: op, Err: err}
}
