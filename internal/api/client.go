// Package api is the HTTP client for the event backend. It is the list
// engine's item fetcher: stateless, read-mostly, no caching and no automatic
// retries. Callers own the retry affordance so non-idempotent filter
// combinations are never replayed silently.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/evlens/evlens/internal/config"
	"github.com/evlens/evlens/internal/logging"
)

// MinServerVersion is the oldest backend version this client understands.
const MinServerVersion = "1.2.0"

// Client errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrIncompatibleServer  = errors.New("server version is not supported")
	ErrInvalidFetchRequest = errors.New("fetch requires offset >= 0 and limit > 0")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Message)
}

// Client talks to the event backend over HTTP JSON.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client from server configuration.
func New(cfg config.ServerConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// FetchPage retrieves one page of an entity's linked events, newest-first,
// plus the authoritative total count. offset must be >= 0 and limit > 0.
func (c *Client) FetchPage(
	ctx context.Context,
	entityID string,
	offset, limit int,
	filters Filters,
) (*Page, error) {
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidFetchRequest, offset, limit)
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	filters.apply(q)

	path := fmt.Sprintf("/api/v1/entities/%s/events?%s", url.PathEscape(entityID), q.Encode())
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode events page: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("entity", entityID).
		Int("offset", offset).
		Int("limit", limit).
		Int("returned", len(page.Events)).
		Int("total", page.Total).
		Msg("fetched events page")

	return &page, nil
}

// FetchEvent retrieves a single event's full payload for the detail view.
func (c *Client) FetchEvent(ctx context.Context, entityID, eventID string) (*Event, error) {
	path := fmt.Sprintf("/api/v1/entities/%s/events/%s",
		url.PathEscape(entityID), url.PathEscape(eventID))
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var ev Event
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

// Unlink removes the event from the entity's linked collection. The event
// itself is not deleted. Callers refetch after a successful unlink; there is
// no optimistic removal.
func (c *Client) Unlink(ctx context.Context, entityID, eventID string) error {
	path := fmt.Sprintf("/api/v1/entities/%s/events/%s",
		url.PathEscape(entityID), url.PathEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unlink event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}

	logging.FromContext(ctx).Info().
		Str("entity", entityID).
		Str("event", eventID).
		Msg("unlinked event")

	return nil
}

// ServerVersion returns the backend's reported version.
func (c *Client) ServerVersion(ctx context.Context) (*semver.Version, error) {
	resp, err := c.get(ctx, "/api/v1/version")
	if err != nil {
		return nil, fmt.Errorf("server version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var info VersionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode version: %w", err)
	}

	v, err := semver.NewVersion(info.Version)
	if err != nil {
		return nil, fmt.Errorf("parse server version %q: %w", info.Version, err)
	}
	return v, nil
}

// CheckCompatibility fails when the backend is older than MinServerVersion.
func (c *Client) CheckCompatibility(ctx context.Context) error {
	v, err := c.ServerVersion(ctx)
	if err != nil {
		return err
	}

	minVersion := semver.MustParse(MinServerVersion)
	if v.LessThan(minVersion) {
		return fmt.Errorf("%w: server reports %s, need >= %s",
			ErrIncompatibleServer, v, minVersion)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// parseError converts a non-2xx response into an error, preferring the
// backend's error envelope when the body parses as one.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w (HTTP 404)", ErrNotFound)
	}

	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Error,
			Details:    envelope.Details,
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}
