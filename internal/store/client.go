package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/timetab/timetab/internal/model"
)

// ClientOptions configures the HTTP store client.
type ClientOptions struct {
	// BaseURL is the root of the entity store API, e.g. "https://api.example.com".
	BaseURL string

	// APIToken is sent as the X-Api-Key header on every request.
	APIToken string

	// Timeout bounds a single request attempt (default: 30s).
	Timeout time.Duration

	// RetryMax is the number of retries for transient failures (default: 3).
	RetryMax int
}

// Client is an HTTP implementation of Store.
type Client struct {
	baseURL  string
	apiToken string
	http     *retryablehttp.Client
}

var _ Store = (*Client)(nil)

// NewClient creates a store client for the given API.
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryMax := opts.RetryMax
	if retryMax <= 0 {
		retryMax = 3
	}

	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = retryMax
	rc.HTTPClient.Timeout = timeout

	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		apiToken: opts.APIToken,
		http:     rc,
	}
}

// ListClients fetches all clients.
func (c *Client) ListClients(ctx context.Context) ([]model.Client, error) {
	var out []model.Client
	if err := c.do(ctx, http.MethodGet, "/api/v1/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTimeEntries fetches all time entries.
func (c *Client) ListTimeEntries(ctx context.Context) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/time-entries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateClient persists a new client and returns it with its assigned ID.
func (c *Client) CreateClient(ctx context.Context, params model.CreateClientParams) (model.Client, error) {
	var out model.Client
	if err := c.do(ctx, http.MethodPost, "/api/v1/clients", params, &out); err != nil {
		return model.Client{}, err
	}
	return out, nil
}

// CreateProject persists a new project and returns it with its assigned ID.
func (c *Client) CreateProject(ctx context.Context, params model.CreateProjectParams) (model.Project, error) {
	var out model.Project
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", params, &out); err != nil {
		return model.Project{}, err
	}
	return out, nil
}

// CreateTimeEntry persists a new time entry and returns it with its assigned ID.
func (c *Client) CreateTimeEntry(ctx context.Context, params model.CreateTimeEntryParams) (model.TimeEntry, error) {
	var out model.TimeEntry
	if err := c.do(ctx, http.MethodPost, "/api/v1/time-entries", params, &out); err != nil {
		return model.TimeEntry{}, err
	}
	return out, nil
}

// do performs one JSON round trip against the store.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("X-Api-Key", c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
