package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"csvchat/internal/domain"
)

// Client is a minimal JSON client to the data exchange's catalog API.
// Authentication is a static API key header; everything else (semantic
// search, metadata indexing, access control) lives on the exchange side.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Config contains connection details for the catalog API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a catalog client for the given exchange.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type recordJSON struct {
	Name        string   `json:"name"`
	Creator     string   `json:"creator"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Size        int64    `json:"size"`
	ContentType string   `json:"content_type"`
	Genre       string   `json:"genre"`
	Categories  []string `json:"categories"`
}

func (r recordJSON) toDomain() domain.Record {
	return domain.Record{
		Name:        r.Name,
		Creator:     r.Creator,
		Title:       r.Title,
		Description: r.Description,
		Size:        r.Size,
		ContentType: r.ContentType,
		Genre:       r.Genre,
		Categories:  r.Categories,
	}
}

// Genres returns the catalog's controlled genre vocabulary.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/v1/genres", c.baseURL), &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Categories returns the catalog's controlled category vocabulary.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/v1/categories", c.baseURL), &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Query lists records matching one category, one genre and a content type.
func (c *Client) Query(ctx context.Context, category, genre, contentType string) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("category", category)
	params.Set("genre", genre)
	if contentType != "" {
		params.Set("content_type", contentType)
	}
	var resp struct {
		Products []recordJSON `json:"products"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, params.Encode()), &resp); err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(resp.Products))
	for _, p := range resp.Products {
		records = append(records, p.toDomain())
	}
	return records, nil
}

// Subscribe requests access to a record's content. The exchange replies with
// an error status when access is denied.
func (c *Client) Subscribe(ctx context.Context, rec domain.Record) error {
	u := fmt.Sprintf("%s/api/v1/products/%s/%s/subscription",
		c.baseURL, url.PathEscape(rec.Creator), url.PathEscape(rec.Name))
	return c.postJSON(ctx, u, struct{}{}, nil)
}

// FetchContent downloads a record's raw bytes. Requires a prior Subscribe.
func (c *Client) FetchContent(ctx context.Context, rec domain.Record) ([]byte, error) {
	u := fmt.Sprintf("%s/api/v1/products/%s/%s/content",
		c.baseURL, url.PathEscape(rec.Creator), url.PathEscape(rec.Name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog GET %s failed: %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("catalog GET %s failed: %s", u, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, u string, body, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("catalog POST %s failed: %s", u, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
