package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmailer/feedmailer/pkg/domain"
	"github.com/feedmailer/feedmailer/pkg/scheduler"
	"github.com/feedmailer/feedmailer/server/mocks"
)

func TestServer_New(t *testing.T) {
	store := &mocks.ListStoreMock{}
	stats := &mocks.StatsProviderMock{}

	srv := New(store, stats, ":8080", 30*time.Second, "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_HealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		store := &mocks.ListStoreMock{
			PingFunc: func(ctx context.Context) error { return nil },
		}
		srv := New(store, &mocks.StatsProviderMock{}, ":8080", 30*time.Second, "test", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Len(t, store.PingCalls(), 1)
	})

	t.Run("list-store down", func(t *testing.T) {
		store := &mocks.ListStoreMock{
			PingFunc: func(ctx context.Context) error { return errors.New("connection refused") },
		}
		srv := New(store, &mocks.StatsProviderMock{}, ":8080", 30*time.Second, "test", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.Contains(t, body["error"], "connection refused")
	})
}

func TestServer_StatusHandler(t *testing.T) {
	t.Run("reports feeds and last cycle", func(t *testing.T) {
		store := &mocks.ListStoreMock{
			ActiveFeedsFunc: func(ctx context.Context) ([]domain.Feed, error) {
				return []domain.Feed{
					{ListID: 1, Name: "blog", URL: "https://example.com/rss"},
					{ListID: 2, Name: "news", URL: "https://example.org/atom"},
				}, nil
			},
		}
		stats := &mocks.StatsProviderMock{
			StatsFunc: func() scheduler.CycleStats {
				return scheduler.CycleStats{Feeds: 2, DuePairs: 1, Polled: 1, Campaigns: 3}
			},
		}
		srv := New(store, stats, ":8080", 30*time.Second, "1.2.3", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "1.2.3", body["version"])
		assert.InDelta(t, 2, body["feeds"], 0.01)

		cycle, ok := body["last_cycle"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 3, cycle["campaigns"], 0.01)
	})

	t.Run("feed count unavailable", func(t *testing.T) {
		store := &mocks.ListStoreMock{
			ActiveFeedsFunc: func(ctx context.Context) ([]domain.Feed, error) {
				return nil, errors.New("boom")
			},
		}
		stats := &mocks.StatsProviderMock{
			StatsFunc: func() scheduler.CycleStats { return scheduler.CycleStats{} },
		}
		srv := New(store, stats, ":8080", 30*time.Second, "test", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unavailable", body["feeds"])
	})
}

func TestServer_Ping(t *testing.T) {
	srv := New(&mocks.ListStoreMock{}, &mocks.StatsProviderMock{}, ":8080", 30*time.Second, "test", false)

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	store := &mocks.ListStoreMock{
		PingFunc: func(ctx context.Context) error { return nil },
		ActiveFeedsFunc: func(ctx context.Context) ([]domain.Feed, error) {
			return []domain.Feed{}, nil
		},
	}
	stats := &mocks.StatsProviderMock{
		StatsFunc: func() scheduler.CycleStats { return scheduler.CycleStats{} },
	}

	srv := New(store, stats, fmt.Sprintf("127.0.0.1:%d", port), 30*time.Second, "test", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for the server to come up
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, e := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/health", port))
		if e != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 50*time.Millisecond)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
