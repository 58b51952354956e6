package campaign

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

func TestRender_Basic(t *testing.T) {
	r := NewRenderer()
	feed := domain.Feed{Name: "Example Blog"}
	entry := domain.Entry{
		ID:          "e1",
		Title:       "Hello World",
		Link:        "https://example.com/hello",
		Description: "<p>A <b>short</b> summary</p>",
		Author:      "Alice",
		Published:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	email, err := r.Render(feed, domain.FreqDaily, entry)
	require.NoError(t, err)

	assert.Equal(t, "RSS: Hello World", email.Name)
	assert.Equal(t, "Hello World", email.Subject)
	assert.Equal(t, []string{"rss", "automated", "daily"}, email.Tags)

	assert.Contains(t, email.Body, "Hello World")
	assert.Contains(t, email.Body, "Example Blog")
	assert.Contains(t, email.Body, "Alice")
	assert.Contains(t, email.Body, "https://example.com/hello")
	assert.Contains(t, email.Body, "<b>short</b>", "harmless markup survives sanitization")
}

func TestRender_ContentPreferredOverDescription(t *testing.T) {
	r := NewRenderer()
	entry := domain.Entry{
		Title:       "Full",
		Description: "the summary",
		Content:     "<p>the full article</p>",
	}

	email, err := r.Render(domain.Feed{Name: "f"}, domain.FreqFiveMin, entry)
	require.NoError(t, err)

	assert.Contains(t, email.Body, "the full article")
	assert.NotContains(t, email.Body, "the summary")
}

func TestRender_SanitizesScript(t *testing.T) {
	r := NewRenderer()
	entry := domain.Entry{
		Title:       "Sneaky",
		Description: `<p>ok</p><script>alert("xss")</script><img src="x" onerror="alert(1)">`,
	}

	email, err := r.Render(domain.Feed{Name: "f"}, domain.FreqFiveMin, entry)
	require.NoError(t, err)

	assert.NotContains(t, email.Body, "<script>")
	assert.NotContains(t, email.Body, "onerror")
	assert.Contains(t, email.Body, "<p>ok</p>")
}

func TestRender_NoTitle(t *testing.T) {
	r := NewRenderer()

	email, err := r.Render(domain.Feed{Name: "f"}, domain.FreqWeekly, domain.Entry{Link: "https://example.com/x"})
	require.NoError(t, err)

	assert.Equal(t, "RSS: No title", email.Name)
	assert.Equal(t, "No title", email.Subject)
}

func TestRender_LongTitleTruncated(t *testing.T) {
	r := NewRenderer()
	long := strings.Repeat("x", 80)

	email, err := r.Render(domain.Feed{Name: "f"}, domain.FreqDaily, domain.Entry{Title: long})
	require.NoError(t, err)

	assert.Equal(t, "RSS: "+strings.Repeat("x", 50)+"...", email.Name)
	assert.Equal(t, long, email.Subject, "only the campaign name is truncated")
}

func TestRender_NoPublishedDate(t *testing.T) {
	r := NewRenderer()

	email, err := r.Render(domain.Feed{Name: "f"}, domain.FreqDaily, domain.Entry{Title: "t"})
	require.NoError(t, err)

	assert.NotContains(t, email.Body, "Published:")
}
