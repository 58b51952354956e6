package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

func TestFetch_Fresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "feedmailer-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", "Sun, 01 Jun 2025 10:00:00 GMT")
		_, _ = w.Write([]byte("<rss/>"))
	}))
	defer srv.Close()

	c := New(5*time.Second, "feedmailer-test/1.0", 1, 10*time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, domain.Validators{})

	require.NoError(t, err)
	assert.Equal(t, Fresh, res.Status)
	assert.Equal(t, []byte("<rss/>"), res.Body)
	assert.Equal(t, `"abc"`, res.Validators.ETag)
	assert.Equal(t, "Sun, 01 Jun 2025 10:00:00 GMT", res.Validators.LastModified)
}

func TestFetch_ConditionalHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"abc"`, r.Header.Get("If-None-Match"))
		assert.Equal(t, "Sun, 01 Jun 2025 10:00:00 GMT", r.Header.Get("If-Modified-Since"))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	validators := domain.Validators{ETag: `"abc"`, LastModified: "Sun, 01 Jun 2025 10:00:00 GMT"}
	c := New(5*time.Second, "ua", 1, 10*time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, validators)

	require.NoError(t, err)
	assert.Equal(t, NotModified, res.Status)
	assert.Empty(t, res.Body)
	assert.Equal(t, validators, res.Validators, "validators pass through unchanged on 304")
}

func TestFetch_TerminalNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(5*time.Second, "ua", 4, time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, domain.Validators{})

	require.Error(t, err)
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "404 must not be retried")
}

func TestFetch_ServerErrorRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("<rss/>"))
	}))
	defer srv.Close()

	c := New(5*time.Second, "ua", 4, time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, domain.Validators{})

	require.NoError(t, err)
	assert.Equal(t, Fresh, res.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetch_TooManyRequestsRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("<rss/>"))
	}))
	defer srv.Close()

	c := New(5*time.Second, "ua", 3, time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, domain.Validators{})

	require.NoError(t, err)
	assert.Equal(t, Fresh, res.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetch_Exhaustion(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(5*time.Second, "ua", 3, time.Millisecond)
	res, err := c.Fetch(context.Background(), srv.URL, domain.Validators{})

	require.Error(t, err)
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "attempts are bounded")
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(5*time.Second, "ua", 2, time.Millisecond)
	_, err := c.Fetch(ctx, srv.URL, domain.Validators{})
	assert.Error(t, err)
}
