// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion is a typed client for the four Notion API operations
// the harvest pipeline needs: query a database by creation time, list a
// page's blocks, create a page, and rewrite a block's text. Reads follow
// continuation cursors until exhausted, so callers never see partial
// pages; transient responses are retried with bounded backoff.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/todo-harvest/internal/httputil"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

// notionAPIBase is the API root. Declared as a var so tests can
// substitute an httptest server.
var notionAPIBase = "https://api.notion.com"

// notionVersion is the API version pinned by this client.
const notionVersion = "2022-06-28"

const (
	defaultPageSize = 100
	defaultTimeout  = 30 * time.Second
)

// Client talks to the Notion API.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	Token      string
	UserAgent  string
	PageSize   int
	MaxRetries int
}

// NewClient builds a Client from cfg, filling defaults for page size
// and timeout.
func NewClient(cfg types.NotionConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		BaseURL:    notionAPIBase,
		Token:      cfg.Token,
		UserAgent:  cfg.UserAgent,
		PageSize:   pageSize,
		MaxRetries: cfg.MaxRetries,
	}
}

// listEnvelope is the common shape of all paginated list responses.
type listEnvelope struct {
	Results    json.RawMessage `json:"results"`
	NextCursor string          `json:"next_cursor"`
	HasMore    bool            `json:"has_more"`
}

// QueryCreatedBetween returns every page of the database whose creation
// timestamp lies in [start, end), sorted by creation time ascending.
// All result pages are accumulated before returning.
func (c *Client) QueryCreatedBetween(ctx context.Context, databaseID string, start, end time.Time) ([]Page, error) {
	type createdFilter struct {
		Timestamp   string            `json:"timestamp"`
		CreatedTime map[string]string `json:"created_time"`
	}
	type sortSpec struct {
		Timestamp string `json:"timestamp"`
		Direction string `json:"direction"`
	}

	body := map[string]any{
		"filter": map[string]any{
			"and": []createdFilter{
				{Timestamp: "created_time", CreatedTime: map[string]string{"on_or_after": start.Format(time.RFC3339)}},
				{Timestamp: "created_time", CreatedTime: map[string]string{"before": end.Format(time.RFC3339)}},
			},
		},
		"sorts":     []sortSpec{{Timestamp: "created_time", Direction: "ascending"}},
		"page_size": c.pageSize(),
	}

	var pages []Page
	cursor := ""
	for {
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var envelope listEnvelope
		path := fmt.Sprintf("/v1/databases/%s/query", databaseID)
		if err := c.do(ctx, http.MethodPost, path, body, &envelope); err != nil {
			return nil, fmt.Errorf("querying database %s: %w", databaseID, err)
		}

		var batch []Page
		if err := json.Unmarshal(envelope.Results, &batch); err != nil {
			return nil, fmt.Errorf("parsing query results: %w", err)
		}
		pages = append(pages, batch...)

		if !envelope.HasMore {
			return pages, nil
		}
		cursor = envelope.NextCursor
	}
}

// BlockChildren returns all top-level blocks of a page, following
// continuation cursors until exhausted.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		params := url.Values{"page_size": {fmt.Sprintf("%d", c.pageSize())}}
		if cursor != "" {
			params.Set("start_cursor", cursor)
		}
		path := fmt.Sprintf("/v1/blocks/%s/children?%s", blockID, params.Encode())

		var envelope listEnvelope
		if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
			return nil, fmt.Errorf("fetching blocks of %s: %w", blockID, err)
		}

		var batch []Block
		if err := json.Unmarshal(envelope.Results, &batch); err != nil {
			return nil, fmt.Errorf("parsing block results: %w", err)
		}
		blocks = append(blocks, batch...)

		if !envelope.HasMore {
			return blocks, nil
		}
		cursor = envelope.NextCursor
	}
}

// CreatePage creates a new page in a database and returns it (the ID is
// what callers need for reporting).
func (c *Client) CreatePage(ctx context.Context, spec PageSpec) (Page, error) {
	properties := map[string]any{
		spec.TitleProp: map[string]any{
			"title": []RichText{{Type: "text", Text: &textContent{Content: spec.TitleText}}},
		},
	}
	if spec.TypeProp != "" && spec.TypeValue != "" {
		properties[spec.TypeProp] = map[string]any{
			"select": map[string]string{"name": spec.TypeValue},
		}
	}
	if spec.TagsProp != "" && len(spec.Tags) > 0 {
		options := make([]map[string]string, 0, len(spec.Tags))
		for _, tag := range spec.Tags {
			options = append(options, map[string]string{"name": tag})
		}
		properties[spec.TagsProp] = map[string]any{"multi_select": options}
	}

	var children []map[string]any
	for _, text := range spec.Body {
		children = append(children, paragraph(RichText{Type: "text", Text: &textContent{Content: text}}))
	}
	if spec.SourceURL != "" {
		children = append(children, paragraph(
			RichText{Type: "text", Text: &textContent{Content: "Source: "}},
			RichText{Type: "text", Text: &textContent{Content: "original page", Link: &textLink{URL: spec.SourceURL}}},
		))
	}

	body := map[string]any{
		"parent":     map[string]string{"database_id": spec.DatabaseID},
		"properties": properties,
	}
	if len(children) > 0 {
		body["children"] = children
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", body, &page); err != nil {
		return Page{}, fmt.Errorf("creating page: %w", err)
	}
	return page, nil
}

// UpdateBlockText replaces the rich text of an existing block, leaving
// everything else about the block unchanged. blockType selects the
// payload key (paragraph, bulleted_list_item, ...), which the API
// requires to match the block's actual type.
func (c *Client) UpdateBlockText(ctx context.Context, blockID, blockType, text string) error {
	body := map[string]any{
		blockType: map[string]any{
			"rich_text": []RichText{{Type: "text", Text: &textContent{Content: text}}},
		},
	}
	path := fmt.Sprintf("/v1/blocks/%s", blockID)
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("updating block %s: %w", blockID, err)
	}
	return nil
}

func paragraph(spans ...RichText) map[string]any {
	return map[string]any{
		"object":    "block",
		"type":      "paragraph",
		"paragraph": map[string]any{"rich_text": spans},
	}
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// do issues one API call, retrying transient responses, and decodes the
// JSON answer into out (which may be nil). Non-2xx answers become
// *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", notionVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
