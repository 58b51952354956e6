package listmonk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

func TestActiveFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"data":{"results":[
			{"id":1,"name":"blog","description":"RSS Feed: https://example.com/rss","type":"private",
			 "tags":["freq:daily","url:abc","last-seen:freq:daily:e9"]},
			{"id":2,"name":"multi","description":"RSS Feed: https://example.org/atom","type":"private",
			 "tags":["freq:5min","freq:weekly","url:def"]},
			{"id":3,"name":"newsletter subscribers","description":"regular list","type":"public","tags":[]},
			{"id":4,"name":"broken","description":"no url here","type":"private","tags":["freq:daily"]}
		]}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "api", "secret", 5*time.Second)
	feeds, err := c.ActiveFeeds(context.Background())

	require.NoError(t, err)
	require.Len(t, feeds, 2, "non-feed and malformed lists are skipped")

	assert.Equal(t, 1, feeds[0].ListID)
	assert.Equal(t, "https://example.com/rss", feeds[0].URL)
	assert.Equal(t, []domain.Frequency{domain.FreqDaily}, feeds[0].Frequencies)
	assert.Contains(t, feeds[0].Tags, "last-seen:freq:daily:e9", "raw tags carry the state")

	assert.Equal(t, []domain.Frequency{domain.FreqFiveMin, domain.FreqWeekly}, feeds[1].Frequencies)
}

func TestAddFeed(t *testing.T) {
	feedURL := "https://example.com/rss"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, domain.URLTag(feedURL), r.URL.Query().Get("tag"))
			_, _ = w.Write([]byte(`{"data":{"results":[]}}`))
		case r.Method == http.MethodPost:
			_, _ = fmt.Fprintf(w, `{"data":{"id":10,"name":"my blog","type":"private","tags":["freq:daily",%q]}}`,
				domain.URLTag(feedURL))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "api", "secret", 5*time.Second)
	feed, err := c.AddFeed(context.Background(), "my blog", feedURL, domain.FreqDaily)

	require.NoError(t, err)
	assert.Equal(t, 10, feed.ListID)
	assert.Equal(t, feedURL, feed.URL)
	assert.Equal(t, []domain.Frequency{domain.FreqDaily}, feed.Frequencies)
}

func TestAddFeed_Duplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"results":[{"id":10,"name":"existing","type":"private","tags":["freq:daily"]}]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "api", "secret", 5*time.Second)
	_, err := c.AddFeed(context.Background(), "dup", "https://example.com/rss", domain.FreqDaily)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedExists)
}

func TestGetFeedByURL(t *testing.T) {
	t.Run("tracked", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"results":[
				{"id":5,"name":"blog","description":"RSS Feed: https://example.com/rss","type":"private","tags":["freq:weekly"]}
			]}}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "api", "secret", 5*time.Second)
		feed, err := c.GetFeedByURL(context.Background(), "https://example.com/rss")

		require.NoError(t, err)
		require.NotNil(t, feed)
		assert.Equal(t, 5, feed.ListID)
	})

	t.Run("not tracked", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"results":[]}}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "api", "secret", 5*time.Second)
		feed, err := c.GetFeedByURL(context.Background(), "https://example.com/rss")

		require.NoError(t, err)
		assert.Nil(t, feed)
	})
}

func TestDeleteFeed(t *testing.T) {
	var deleted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":{"results":[
				{"id":5,"name":"blog","description":"RSS Feed: https://example.com/rss","type":"private","tags":["freq:daily"]}
			]}}`))
		case http.MethodDelete:
			assert.Equal(t, "/api/lists/5", r.URL.Path)
			deleted = true
			_, _ = w.Write([]byte(`{"data":true}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "api", "secret", 5*time.Second)
	ok, err := c.DeleteFeed(context.Background(), "https://example.com/rss")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, deleted)
}

func TestDeleteFeed_NotTracked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"results":[]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "api", "secret", 5*time.Second)
	ok, err := c.DeleteFeed(context.Background(), "https://example.com/rss")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractFeedURL(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"prefix line", "RSS Feed: https://example.com/rss", "https://example.com/rss"},
		{"prefix among other lines", "Tracked blog\nRSS Feed: https://example.com/rss\nadded 2025", "https://example.com/rss"},
		{"bare url fallback", "some notes\nhttps://example.com/feed.xml", "https://example.com/feed.xml"},
		{"trailing spaces", "RSS Feed: https://example.com/rss  ", "https://example.com/rss"},
		{"nothing", "just a description", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFeedURL(tt.description))
		})
	}
}

func TestFeedFromList_UnknownFrequency(t *testing.T) {
	_, err := feedFromList(domain.List{
		ID: 1, Description: "RSS Feed: https://example.com/rss",
		Tags: []string{"freq:hourly"},
	})
	assert.Error(t, err)
}
