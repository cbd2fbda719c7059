package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the connection settings for the hosted document store.
type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
}

// Client talks to the document store's content API: GROQ queries for reads,
// mutation batches for writes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cdnBaseURL string
	dataset    string
	token      string
	log        *zerolog.Logger
}

func NewClient(cfg Config, log *zerolog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, fmt.Errorf("store: project id and dataset are required")
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-01-01"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    fmt.Sprintf("https://%s.api.sanity.io/v%s", cfg.ProjectID, apiVersion),
		cdnBaseURL: fmt.Sprintf("https://cdn.sanity.io/images/%s/%s", cfg.ProjectID, cfg.Dataset),
		dataset:    cfg.Dataset,
		token:      cfg.Token,
		log:        log,
	}, nil
}

// Ping runs a trivial query to verify connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var n int
	return c.Query(ctx, `count(*[_id == "ping"])`, nil, &n)
}

// Query runs a GROQ query with the given parameters and decodes the result
// into out. A null result leaves out untouched.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any, out any) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.baseURL, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build query request: %w", err)
	}
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode query response: %w", err)
	}
	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// Count runs a count(...) query.
func (c *Client) Count(ctx context.Context, groq string, params map[string]any) (int, error) {
	var n int
	if err := c.Query(ctx, groq, params, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Create submits a single create mutation and returns the id of the new
// document. The document must carry _type; _id is assigned by the caller.
func (c *Client) Create(ctx context.Context, doc map[string]any) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	})
	if err != nil {
		return "", fmt.Errorf("encode mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true", c.baseURL, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode mutate response: %w", err)
	}
	if len(envelope.Results) == 0 || envelope.Results[0].ID == "" {
		return "", fmt.Errorf("mutate response contains no document id")
	}
	return envelope.Results[0].ID, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read store response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("url", req.URL.Path).
			Msg("store returned non-2xx status")
		return nil, fmt.Errorf("store returned status %d", resp.StatusCode)
	}
	return body, nil
}
