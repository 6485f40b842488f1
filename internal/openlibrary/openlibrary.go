// Package openlibrary is a small client for the Open Library search and
// works APIs, used to prefill book suggestions.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"
	DefaultLimit     = 3
	MaxLimit         = 20
	// MinQueryLength is the shortest query that is sent upstream.
	MinQueryLength = 3
)

var ErrInvalidWorkKey = errors.New("invalid work key")

// Result is one search hit, mapped to the fields a suggestion needs.
type Result struct {
	Title    string  `json:"title"`
	Author   *string `json:"author"`
	Year     *int    `json:"year"`
	CoverURL *string `json:"coverUrl"`
	WorkKey  string  `json:"workKey"`
}

type Client struct {
	client    *http.Client
	baseURL   string
	coversURL string
}

// NewClient returns a client for baseURL. An empty baseURL uses Open Library.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		coversURL: DefaultCoversURL,
	}
}

type searchResponse struct {
	Docs []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		CoverID          *int     `json:"cover_i"`
		FirstPublishYear *int     `json:"first_publish_year"`
	} `json:"docs"`
}

// Search looks up works matching q. Queries shorter than MinQueryLength
// return no results without calling upstream.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]Result, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinQueryLength {
		return []Result{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", fmt.Sprint(limit))

	var resp searchResponse
	if err := c.get(ctx, "/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		if d.Key == "" {
			continue
		}
		r := Result{Title: d.Title, WorkKey: d.Key, Year: d.FirstPublishYear}
		if len(d.AuthorName) > 0 {
			r.Author = &d.AuthorName[0]
		}
		if d.CoverID != nil {
			cover := fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversURL, *d.CoverID)
			r.CoverURL = &cover
		}
		results = append(results, r)
	}
	return results, nil
}

// WorkDescription returns the description of a work such as "/works/OL45804W".
// Works without a description return "".
func (c *Client) WorkDescription(ctx context.Context, workKey string) (string, error) {
	id, ok := strings.CutPrefix(workKey, "/works/")
	if !ok || id == "" || strings.ContainsAny(id, "/?#.") {
		return "", ErrInvalidWorkKey
	}

	var work struct {
		Description json.RawMessage `json:"description"`
	}
	if err := c.get(ctx, workKey+".json", &work); err != nil {
		return "", err
	}
	return parseDescription(work.Description), nil
}

// parseDescription accepts both shapes Open Library uses: a bare string or
// {"type": "/type/text", "value": "..."}.
func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build openlibrary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openlibrary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openlibrary returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode openlibrary response: %w", err)
	}
	return nil
}
