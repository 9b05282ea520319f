package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evlens/evlens/internal/config"
)

// newTestClient wires a Client against an httptest server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.ServerConfig{URL: srv.URL, TimeoutSeconds: 5})
}

// eventFixtures returns n events with descending timestamps.
func eventFixtures(n int) []Event {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{
			ID:        fmt.Sprintf("evt-%03d", i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
			Camera:    "driveway",
			Label:     "person",
			Score:     0.87,
			Snippet:   fmt.Sprintf("person at driveway #%d", i),
		}
	}
	return events
}

// eventsHandler serves paged fixtures the way the backend does.
func eventsHandler(all []Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		var items []Event
		if offset < len(all) {
			items = all[offset:end]
		}

		_ = json.NewEncoder(w).Encode(Page{
			Events:  items,
			Total:   len(all),
			HasMore: end < len(all),
		})
	}
}

func TestFetchPage(t *testing.T) {
	all := eventFixtures(45)
	client := newTestClient(t, eventsHandler(all))

	page, err := client.FetchPage(context.Background(), "ent-1", 20, 20, nil)
	require.NoError(t, err)

	assert.Equal(t, 45, page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Events, 20)
	assert.Equal(t, "evt-020", page.Events[0].ID)
}

func TestFetchPage_RejectsInvalidBounds(t *testing.T) {
	client := newTestClient(t, eventsHandler(nil))

	_, err := client.FetchPage(context.Background(), "ent-1", -1, 20, nil)
	assert.ErrorIs(t, err, ErrInvalidFetchRequest)

	_, err = client.FetchPage(context.Background(), "ent-1", 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidFetchRequest)
}

func TestFetchPage_EmptyCollection(t *testing.T) {
	client := newTestClient(t, eventsHandler(nil))

	page, err := client.FetchPage(context.Background(), "ent-1", 0, 20, nil)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Events)
	assert.False(t, page.HasMore)
}

func TestFetchPage_AppliesFilters(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"camera": r.URL.Query().Get("camera"),
			"label":  r.URL.Query().Get("label"),
		}
		_ = json.NewEncoder(w).Encode(Page{})
	}))

	filters := Filters{"camera=driveway", "label=person"}
	require.NoError(t, filters.Validate())

	_, err := client.FetchPage(context.Background(), "ent-1", 0, 20, filters)
	require.NoError(t, err)
	assert.Equal(t, "driveway", gotQuery["camera"])
	assert.Equal(t, "person", gotQuery["label"])
}

func TestFetchPage_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Page{})
	}))
	t.Cleanup(srv.Close)

	client := New(config.ServerConfig{URL: srv.URL, APIKey: "tok", TimeoutSeconds: 5})
	_, err := client.FetchPage(context.Background(), "ent-1", 0, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestFetchPage_ErrorEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "invalid filter",
			"details": "unknown camera",
		})
	}))

	_, err := client.FetchPage(context.Background(), "ent-1", 0, 20, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid filter")
	assert.Contains(t, apiErr.Error(), "unknown camera")
}

func TestFetchEvent_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchEvent(context.Background(), "ent-1", "evt-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnlink(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.Unlink(context.Background(), "ent-1", "evt-007")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/entities/ent-1/events/evt-007", gotPath)
}

func TestUnlink_Failure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "event locked"})
	}))

	err := client.Unlink(context.Background(), "ent-1", "evt-007")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr error
	}{
		{name: "newer is fine", version: "1.4.0"},
		{name: "exact minimum is fine", version: "1.2.0"},
		{name: "older is rejected", version: "1.1.9", wantErr: ErrIncompatibleServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(VersionInfo{Version: tt.version})
			}))

			err := client.CheckCompatibility(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFetchAll_AssemblesInOrder(t *testing.T) {
	all := eventFixtures(95)
	client := newTestClient(t, eventsHandler(all))

	events, err := client.FetchAll(context.Background(), "ent-1", 20, nil)
	require.NoError(t, err)
	require.Len(t, events, 95)

	for i, ev := range events {
		assert.Equal(t, fmt.Sprintf("evt-%03d", i), ev.ID)
	}
}

func TestFetchAll_SinglePage(t *testing.T) {
	all := eventFixtures(7)
	client := newTestClient(t, eventsHandler(all))

	events, err := client.FetchAll(context.Background(), "ent-1", 20, nil)
	require.NoError(t, err)
	assert.Len(t, events, 7)
}

func TestFetchAll_Cancelled(t *testing.T) {
	client := newTestClient(t, eventsHandler(eventFixtures(100)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAll(ctx, "ent-1", 20, nil)
	assert.Error(t, err)
}
