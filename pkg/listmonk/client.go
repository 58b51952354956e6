// Package listmonk is the list-store adapter. Lists are the unit of feed
// state, tags the persistence medium and campaigns the delivery hand-off;
// nothing else of the listmonk API surface is used by the engine.
package listmonk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// Client talks to the listmonk HTTP API with basic auth
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// New creates a listmonk API client
func New(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

// list is the wire shape of a listmonk list record
type list struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Optin       string   `json:"optin,omitempty"`
	Tags        []string `json:"tags"`
}

func (l list) toDomain() domain.List {
	return domain.List{ID: l.ID, Name: l.Name, Description: l.Description, Type: l.Type, Tags: l.Tags}
}

// GetLists returns all lists, optionally filtered by tag
func (c *Client) GetLists(ctx context.Context, tag string) ([]domain.List, error) {
	q := url.Values{"per_page": {"all"}}
	if tag != "" {
		q.Set("tag", tag)
	}

	var data struct {
		Results []list `json:"results"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/lists?"+q.Encode(), nil, &data); err != nil {
		return nil, fmt.Errorf("get lists: %w", err)
	}

	res := make([]domain.List, 0, len(data.Results))
	for _, l := range data.Results {
		res = append(res, l.toDomain())
	}
	return res, nil
}

// GetList returns a single list by ID
func (c *Client) GetList(ctx context.Context, id int) (domain.List, error) {
	var data list
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/api/lists/%d", id), nil, &data); err != nil {
		return domain.List{}, fmt.Errorf("get list %d: %w", id, err)
	}
	return data.toDomain(), nil
}

// FindListByTag returns the first list carrying the tag, or nil if none does
func (c *Client) FindListByTag(ctx context.Context, tag string) (*domain.List, error) {
	lists, err := c.GetLists(ctx, tag)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return &lists[0], nil
}

// CreateList creates a new list and returns it with the assigned ID
func (c *Client) CreateList(ctx context.Context, name, description string, tags []string) (domain.List, error) {
	payload := list{Name: name, Description: description, Type: "private", Optin: "single", Tags: tags}
	var data list
	if err := c.request(ctx, http.MethodPost, "/api/lists", payload, &data); err != nil {
		return domain.List{}, fmt.Errorf("create list %q: %w", name, err)
	}
	return data.toDomain(), nil
}

// UpdateList rewrites a list record. The full record has to be sent; listmonk
// treats PUT as a replace, tags included.
func (c *Client) UpdateList(ctx context.Context, l domain.List) error {
	payload := list{Name: l.Name, Description: l.Description, Type: l.Type, Tags: l.Tags}
	if payload.Type == "" {
		payload.Type = "private"
	}
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/api/lists/%d", l.ID), payload, nil); err != nil {
		return fmt.Errorf("update list %d: %w", l.ID, err)
	}
	return nil
}

// DeleteList removes a list by ID
func (c *Client) DeleteList(ctx context.Context, id int) error {
	if err := c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/lists/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete list %d: %w", id, err)
	}
	return nil
}

// Campaign describes a campaign-creation request for one new entry
type Campaign struct {
	Name    string
	Subject string
	Body    string
	ListID  int
	Tags    []string
}

// CreateCampaign creates a draft campaign and returns its ID
func (c *Client) CreateCampaign(ctx context.Context, camp Campaign) (int, error) {
	payload := map[string]any{
		"name":         camp.Name,
		"subject":      camp.Subject,
		"body":         camp.Body,
		"lists":        []int{camp.ListID},
		"type":         "regular",
		"content_type": "html",
		"tags":         camp.Tags,
	}
	var data struct {
		ID int `json:"id"`
	}
	if err := c.request(ctx, http.MethodPost, "/api/campaigns", payload, &data); err != nil {
		return 0, fmt.Errorf("create campaign %q: %w", camp.Name, err)
	}
	return data.ID, nil
}

// StartCampaign switches a campaign to running state
func (c *Client) StartCampaign(ctx context.Context, id int) error {
	payload := map[string]string{"status": "running"}
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/api/campaigns/%d/status", id), payload, nil); err != nil {
		return fmt.Errorf("start campaign %d: %w", id, err)
	}
	return nil
}

// Ping checks API reachability, used by the health endpoint
func (c *Client) Ping(ctx context.Context) error {
	if err := c.request(ctx, http.MethodGet, "/api/health", nil, nil); err != nil {
		return fmt.Errorf("ping listmonk: %w", err)
	}
	return nil
}

// request performs an API call, unwrapping the listmonk {"data": ...}
// envelope into out when out is non-nil
func (c *Client) request(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		lgr.Printf("[DEBUG] listmonk %s %s: status %d, body %q", method, path, resp.StatusCode, string(msg))
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
