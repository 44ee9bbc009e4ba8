package papers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotFound is returned by GetPaper for any non-success status.
var ErrNotFound = errors.New("paper not found")

// Client talks to the papers REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient validates baseURL and returns a client. A nil httpClient means a
// client without timeout; callers bound requests through their context.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api url %q has no host", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}, nil
}

// BaseURL returns the API root without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPapers fetches one page of the feed. An absent, non-array or empty
// papers field yields an empty slice and no error.
func (c *Client) ListPapers(ctx context.Context, query PageQuery) ([]Paper, error) {
	endpoint := c.baseURL + "/papers?" + query.Values().Encode()
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("papers API error: %s (%s)", resp.Status, bodySnippet(resp.Body))
	}
	return decodePage(resp.Body)
}

// GetPaper fetches a single paper by id. Any non-success status is reported
// as ErrNotFound.
func (c *Client) GetPaper(ctx context.Context, id string) (*Paper, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	resp, err := c.get(ctx, c.baseURL+"/papers/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, resp.Status, bodySnippet(resp.Body))
	}

	var paper *Paper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return nil, fmt.Errorf("failed to decode paper %s: %w", id, err)
	}
	if paper == nil {
		return nil, fmt.Errorf("%w: empty body for %s", ErrNotFound, id)
	}
	if paper.ID == "" {
		paper.ID = id
	}
	return paper, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func decodePage(reader io.Reader) ([]Paper, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode papers response: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var envelope struct {
		Papers json.RawMessage `json:"papers"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode papers response: %w", err)
	}
	list := bytes.TrimSpace(envelope.Papers)
	if len(list) == 0 || list[0] != '[' {
		return nil, nil
	}
	var page []Paper
	if err := json.Unmarshal(list, &page); err != nil {
		return nil, fmt.Errorf("failed to decode papers: %w", err)
	}
	return page, nil
}

func bodySnippet(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(string(data))
}
