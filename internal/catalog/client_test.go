package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfwatch/ctfwatch/internal/common"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/api/public/ctfs", "ctfwatch-test", 5*time.Second)
	require.NoError(t, err)
	return client, srv
}

func TestNewClientInvalidBaseURL(t *testing.T) {
	_, err := NewClient("not-a-url", "ua", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestListEvents(t *testing.T) {
	var gotUserAgent string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 101, "name": "Spring Open", "org_name": "Crew", "slug": "spring-open",
			 "starts_at": "2026-08-29T13:00:00.000000Z", "ends_at": "2026-08-31T13:00:00.000000Z"},
			{"id": 102, "name": "Quals", "slug": "quals"}
		]`))
	}))

	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "ctfwatch-test", gotUserAgent)
	assert.Equal(t, "101", events[0].ID)
	assert.Equal(t, "Spring Open", events[0].Name)
	assert.Equal(t, "Crew", events[0].OrgName)
	assert.Equal(t, "spring-open", events[0].Slug)
	assert.Equal(t, "102", events[1].ID)
	assert.Empty(t, events[1].OrgName)

	// Origin comes from the base URL, not the API path.
	assert.Equal(t, srv.URL, client.Origin())
	assert.Equal(t, srv.URL+"/event/quals", client.EventURL("quals"))
	assert.Equal(t, srv.URL+"/event/spring%20open", client.EventURL("spring open"))
}

func TestListEventsServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))

	_, err := client.ListEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
}

func TestListEventsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(srv.URL, "ua", time.Second)
	require.NoError(t, err)
	srv.Close()

	_, err = client.ListEvents(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
}

func TestEventDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/ctfs/details/spring-open" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Spring Open", "org_name": "Crew", "hasCode": true,
			"description": "Join Code: abc-123", "banner": "/img/spring.png"
		}`))
	}))

	detail, err := client.EventDetail(context.Background(), "spring-open")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Spring Open", detail.Name)
	assert.True(t, detail.HasCode)
	assert.Equal(t, "Join Code: abc-123", detail.Description)
	assert.Equal(t, "/img/spring.png", detail.Banner)
}

func TestEventDetailAbsentOnNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	detail, err := client.EventDetail(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestEventDetailTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(srv.URL, "ua", time.Second)
	require.NoError(t, err)
	srv.Close()

	detail, err := client.EventDetail(context.Background(), "spring-open")
	require.Error(t, err)
	assert.Nil(t, detail)
	assert.False(t, errors.Is(err, common.ErrCatalogUnavailable))
}
