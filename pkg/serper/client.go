// Package serper provides a client for the serper.dev Google Search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs serper.dev search operations.
type Client interface {
	Search(ctx context.Context, query string, num int) (*SearchResponse, error)
}

// SearchResponse is the parsed serper.dev response.
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult is a single organic search hit.
type OrganicResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Position int   `json:"position,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a serper.dev search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

func (c *httpClient) Search(ctx context.Context, query string, num int) (*SearchResponse, error) {
	body, err := json.Marshal(searchRequest{Q: query, Num: num})
	if err != nil {
		return nil, eris.Wrap(err, "serper: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "serper: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serper: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serper: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serper: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "serper: unmarshal response")
	}

	return &result, nil
}
