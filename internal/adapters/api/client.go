// Package api implements the read-only client for the portfolio
// management API: paginated fetches, problem-details errors, and
// mapping into domain records.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skiva/tidvis/internal/app"
	"github.com/skiva/tidvis/internal/domain"
)

// DefaultBaseURL and related constants define package defaults.
const (
	DefaultBaseURL  = "http://localhost:5094"
	DefaultPageSize = 100
	DefaultTimeout  = 30 * time.Second

	// maxPages caps pagination so a server that never clears hasNext
	// cannot spin the client forever.
	maxPages = 1000
)

// Client represents client data used by this package: one configured
// connection to the upstream API.
type Client struct {
	baseURL  string
	pageSize int
	httpc    *http.Client
	logger   *log.Logger
}

// Option mutates client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpc.Timeout = timeout
		}
	}
}

// WithPageSize overrides the page size requested from the API.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger attaches a logger for skipped-record warnings.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a new value for this package. An empty base URL falls
// back to the default local endpoint.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  baseURL,
		pageSize: DefaultPageSize,
		httpc:    &http.Client{Timeout: DefaultTimeout},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ app.Directory = (*Client)(nil)

// BaseURL returns the normalized upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports whether the upstream answers at all, by requesting
// the first projects page.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.getPage(ctx, "/projects", 1)
	return err
}

// FetchProjects retrieves every project, following pagination.
func (c *Client) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	dtos, err := fetchAll[projectDTO](ctx, c, "/projects")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.toDomain()
		if err != nil {
			c.logger.Warn("skipping project record", "id", d.ID, "err", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FetchClients retrieves every client, following pagination.
func (c *Client) FetchClients(ctx context.Context) ([]domain.Client, error) {
	dtos, err := fetchAll[clientDTO](ctx, c, "/clients")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(dtos))
	for _, d := range dtos {
		cl, err := d.toDomain()
		if err != nil {
			c.logger.Warn("skipping client record", "id", d.ID, "err", err)
			continue
		}
		out = append(out, cl)
	}
	return out, nil
}

// FetchUsers retrieves every user, following pagination.
func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	dtos, err := fetchAll[userDTO](ctx, c, "/users")
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(dtos))
	for _, d := range dtos {
		u, err := d.toDomain()
		if err != nil {
			c.logger.Warn("skipping user record", "id", d.ID, "err", err)
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// paginatedResult mirrors the API's page envelope.
type paginatedResult[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// fetchAll walks every page of one collection endpoint.
func fetchAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	for page := 1; ; page++ {
		body, err := c.getPage(ctx, path, page)
		if err != nil {
			return nil, err
		}
		var result paginatedResult[T]
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", path, page, err)
		}
		items = append(items, result.Items...)
		if !result.HasNext {
			return items, nil
		}
		if page >= maxPages {
			c.logger.Warn("pagination cap reached", "path", path, "pages", page)
			return items, nil
		}
	}
}

// getPage performs one GET against a collection endpoint and returns
// the raw body for a 200 response.
func (c *Client) getPage(ctx context.Context, path string, page int) ([]byte, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp.StatusCode, body)
	}
	return body, nil
}
