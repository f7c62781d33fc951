// Package client is a typed client for the stockplan REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/simaogato/stockplan-backend/internal/api"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for every non-2xx response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the REST API with a bearer token
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// ListPlansOptions filters and paginates ListPlans
type ListPlansOptions struct {
	Search   string
	Page     int
	PageSize int
}

// Health checks that the API is reachable
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var out api.HealthResponse
	return &out, c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out)
}

// SearchStocks returns one page of catalog matches
func (c *Client) SearchStocks(ctx context.Context, name string, page int) (*api.StockSearchResponse, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("page", strconv.Itoa(page))

	var out api.StockSearchResponse
	return &out, c.do(ctx, http.MethodGet, "/api/stocks/search", q, nil, &out)
}

// ListPlans returns one page of the caller's plans
func (c *Client) ListPlans(ctx context.Context, opts ListPlansOptions) (*api.PlanListResponse, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	var out api.PlanListResponse
	return &out, c.do(ctx, http.MethodGet, "/api/plans", q, nil, &out)
}

// CreatePlan stores a new plan
func (c *Client) CreatePlan(ctx context.Context, req api.CreatePlanRequest) (*api.Plan, error) {
	var out api.Plan
	return &out, c.do(ctx, http.MethodPost, "/api/plans", nil, req, &out)
}

// GetPlan fetches a plan by ID
func (c *Client) GetPlan(ctx context.Context, id string) (*api.Plan, error) {
	var out api.Plan
	return &out, c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id), nil, nil, &out)
}

// DeletePlan removes a plan by ID
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(id), nil, nil, nil)
}

// ProjectPlan projects a plan over months, optionally with a month 0 baseline point
func (c *Client) ProjectPlan(ctx context.Context, id string, months int, baseline bool) (*api.ProjectionResponse, error) {
	q := url.Values{}
	q.Set("months", strconv.Itoa(months))
	if baseline {
		q.Set("baseline", "true")
	}

	var out api.ProjectionResponse
	return &out, c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id)+"/projection", q, nil, &out)
}

// Overview summarizes every plan of the caller
func (c *Client) Overview(ctx context.Context) (*api.OverviewResponse, error) {
	var out api.OverviewResponse
	return &out, c.do(ctx, http.MethodGet, "/api/overview", nil, nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody api.ErrorResponse
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
