// Package campaign renders feed entries into email campaign content.
package campaign

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// Email is rendered campaign content ready for the list-store
type Email struct {
	Name    string // campaign name, shown in the listmonk UI
	Subject string
	Body    string // HTML
	Tags    []string
}

// Renderer builds campaign emails from entries. Entry bodies come from
// arbitrary feeds, so everything that ends up in the email is sanitized.
type Renderer struct {
	policy *bluemonday.Policy
	tmpl   *template.Template
}

// NewRenderer creates a renderer with the UGC sanitization policy
func NewRenderer() *Renderer {
	return &Renderer{
		policy: bluemonday.UGCPolicy(),
		tmpl:   template.Must(template.New("email").Parse(emailTemplate)),
	}
}

const maxNameLen = 50

// Render produces the campaign email for one new entry of a feed
func (r *Renderer) Render(feed domain.Feed, freq domain.Frequency, entry domain.Entry) (Email, error) {
	title := entry.Title
	if title == "" {
		title = "No title"
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}

	data := struct {
		Title     string
		FeedName  string
		Link      string
		Author    string
		Published string
		Body      template.HTML
	}{
		Title:    title,
		FeedName: feed.Name,
		Link:     entry.Link,
		Author:   entry.Author,
		Body:     template.HTML(r.policy.Sanitize(body)), //nolint:gosec // sanitized right here
	}
	if !entry.Published.IsZero() {
		data.Published = entry.Published.Format(time.RFC1123)
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return Email{}, fmt.Errorf("render campaign for %q: %w", title, err)
	}

	return Email{
		Name:    campaignName(title),
		Subject: title,
		Body:    sb.String(),
		Tags:    []string{"rss", "automated", string(freq)},
	}, nil
}

// campaignName truncates long titles so campaign lists stay readable
func campaignName(title string) string {
	runes := []rune(title)
	if len(runes) > maxNameLen {
		return "RSS: " + string(runes[:maxNameLen]) + "..."
	}
	return "RSS: " + title
}

const emailTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; border-bottom: 2px solid #007cba; padding-bottom: 10px;">{{.Title}}</h1>

  <div style="margin: 20px 0; color: #666; font-size: 14px;">
    <p><strong>From:</strong> {{.FeedName}}</p>
    {{- if .Published}}
    <p><strong>Published:</strong> {{.Published}}</p>
    {{- end}}
    {{- if .Author}}
    <p><strong>Author:</strong> {{.Author}}</p>
    {{- end}}
  </div>

  <div style="margin: 20px 0; line-height: 1.6;">{{.Body}}</div>

  {{- if .Link}}
  <div style="margin: 30px 0; text-align: center;">
    <a href="{{.Link}}" style="background-color: #007cba; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Read Full Article</a>
  </div>
  {{- end}}

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #666; font-size: 12px; text-align: center;">
    <p>This email was sent automatically by feedmailer</p>
    {{- if .Link}}
    <p>Article URL: <a href="{{.Link}}">{{.Link}}</a></p>
    {{- end}}
  </div>
</div>`
