// Package cedarapi implements pkg/cedar.Client against the CEDAR resource
// API. Credentials are injected at construction; nothing is read from
// process-wide state.
package cedarapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/musen-lab/cedar-mcp/internal/httpx"
	"github.com/musen-lab/cedar-mcp/pkg/cedar"
)

const defaultBaseURL = "https://resource.metadatacenter.org"

// Client talks to the CEDAR resource API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retry      httpx.RetryOptions
	log        *zap.Logger
}

// Ensure the implementation satisfies the public contract.
var _ cedar.Client = (*Client)(nil)

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (timeouts, proxies).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the CEDAR resource API root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRetryOptions overrides the 429 retry behaviour.
func WithRetryOptions(opts httpx.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New constructs a Client authenticated with the given API key.
func New(apiKey string, options ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		retry:      httpx.DefaultRetryOptions(),
		log:        zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetTemplate fetches a template document by ID or full repository URL.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (cedar.Document, error) {
	endpoint := c.baseURL + "/templates/" + url.PathEscape(templateID)
	doc, err := c.getJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("cedarapi: fetch template: %w", err)
	}
	return doc, nil
}

// GetInstance fetches a template instance by its full URL.
func (c *Client) GetInstance(ctx context.Context, instanceID string) (cedar.Document, error) {
	endpoint := c.baseURL + "/template-instances/" + url.PathEscape(instanceID)
	doc, err := c.getJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("cedarapi: fetch instance: %w", err)
	}
	return doc, nil
}

// SearchInstanceIDs returns one page of instance identifiers based on a
// template. Bare template IDs are expanded to repository URLs before the
// search.
func (c *Client) SearchInstanceIDs(ctx context.Context, templateID string, limit, offset int) (cedar.SearchResult, error) {
	params := url.Values{
		"version":     {"latest"},
		"limit":       {strconv.Itoa(limit)},
		"offset":      {strconv.Itoa(offset)},
		"is_based_on": {cedar.TemplateURL(templateID)},
	}
	payload, err := c.getJSON(ctx, c.baseURL+"/search", params)
	if err != nil {
		return cedar.SearchResult{}, fmt.Errorf("cedarapi: search instances: %w", err)
	}

	ids := resourceIDs(payload)
	total := intField(payload, "totalCount")

	pagination := cedar.Pagination{
		TotalCount:    total,
		Limit:         limit,
		Offset:        offset,
		ReturnedCount: len(ids),
		HasMore:       offset+len(ids) < total,
	}
	if pagination.HasMore {
		next := offset + limit
		pagination.NextOffset = &next
	}

	return cedar.SearchResult{InstanceIDs: ids, Pagination: pagination}, nil
}

// AllInstanceIDs walks every search page sequentially and accumulates the
// instance identifiers. The walk stops defensively once the accumulated count
// reaches the declared total, even if the upstream keeps advertising another
// page.
func (c *Client) AllInstanceIDs(ctx context.Context, templateID string, pageSize int) ([]string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	var (
		all    []string
		offset int
		total  = -1
	)
	for {
		params := url.Values{
			"version":     {"latest"},
			"limit":       {strconv.Itoa(pageSize)},
			"offset":      {strconv.Itoa(offset)},
			"is_based_on": {cedar.TemplateURL(templateID)},
		}
		payload, err := c.getJSON(ctx, c.baseURL+"/search", params)
		if err != nil {
			return nil, fmt.Errorf("cedarapi: search instances: %w", err)
		}

		if total < 0 {
			total = intField(payload, "totalCount")
			if total == 0 {
				return nil, nil
			}
		}

		all = append(all, resourceIDs(payload)...)
		if len(all) >= total {
			return all, nil
		}
		if !hasNextPage(payload) {
			return all, nil
		}
		offset += pageSize
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "apiKey "+c.apiKey)

	c.log.Debug("cedar request", zap.String("url", req.URL.Redacted()))
	return httpx.GetJSON(ctx, c.httpClient, req, c.retry)
}

func resourceIDs(payload map[string]any) []string {
	resources, _ := payload["resources"].([]any)
	var ids []string
	for _, entry := range resources {
		resource, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := resource["@id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func hasNextPage(payload map[string]any) bool {
	paging, _ := payload["paging"].(map[string]any)
	next, ok := paging["next"]
	return ok && next != nil && next != ""
}

func intField(payload map[string]any, key string) int {
	value, _ := payload[key].(float64)
	return int(value)
}
