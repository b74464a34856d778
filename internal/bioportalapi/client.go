// Package bioportalapi implements pkg/bioportal.Client against the BioPortal
// REST API at data.bioontology.org.
package bioportalapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/musen-lab/cedar-mcp/internal/httpx"
	"github.com/musen-lab/cedar-mcp/pkg/bioportal"
)

const (
	defaultBaseURL = "https://data.bioontology.org"

	// BioPortal pages collections; a single oversized page keeps branch
	// listings to one round trip.
	collectionPageSize = "999"
)

// Client talks to the BioPortal REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retry      httpx.RetryOptions
	log        *zap.Logger
}

var _ bioportal.Client = (*Client)(nil)

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the BioPortal API root, mainly for tests.
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

// displayParams trims the verbose link and context blocks BioPortal attaches
// to every record, leaving just prefLabel and @id per term.
func displayParams() url.Values {
	return url.Values{
		"display_context": {"false"},
		"display_links":   {"false"},
		"include_views":   {"false"},
		"pagesize":        {collectionPageSize},
		"include":         {"prefLabel"},
	}
}

// BranchChildren lists the immediate children of a branch class.
func (c *Client) BranchChildren(ctx context.Context, branchIRI, ontologyAcronym string) (bioportal.Response, error) {
	endpoint := fmt.Sprintf("%s/ontologies/%s/classes/%s/children",
		c.baseURL, url.PathEscape(ontologyAcronym), url.PathEscape(branchIRI))
	resp, err := c.getJSON(ctx, endpoint, displayParams())
	if err != nil {
		return nil, fmt.Errorf("bioportalapi: branch children: %w", err)
	}
	return resp, nil
}

// SearchOntology searches for terms matching query across a whole ontology.
func (c *Client) SearchOntology(ctx context.Context, query, ontologyAcronym string) (bioportal.Response, error) {
	params := displayParams()
	params.Set("q", query)
	params.Set("ontologies", ontologyAcronym)

	resp, err := c.getJSON(ctx, c.baseURL+"/search", params)
	if err != nil {
		return nil, fmt.Errorf("bioportalapi: ontology search: %w", err)
	}
	return resp, nil
}

// SearchBranch searches for terms matching query within the subtree rooted at
// branchIRI.
func (c *Client) SearchBranch(ctx context.Context, query, ontologyAcronym, branchIRI string) (bioportal.Response, error) {
	params := displayParams()
	params.Set("q", query)
	params.Set("ontology", ontologyAcronym)
	params.Set("subtree_root_id", branchIRI)

	resp, err := c.getJSON(ctx, c.baseURL+"/search", params)
	if err != nil {
		return nil, fmt.Errorf("bioportalapi: branch search: %w", err)
	}
	return resp, nil
}

// ClassTree returns the path-to-root tree for a class. The endpoint responds
// with a bare JSON array of root classes.
func (c *Client) ClassTree(ctx context.Context, classIRI, ontologyAcronym string) (any, error) {
	endpoint := fmt.Sprintf("%s/ontologies/%s/classes/%s/tree",
		c.baseURL, url.PathEscape(ontologyAcronym), url.PathEscape(classIRI))
	req, err := c.newRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bioportalapi: class tree: %w", err)
	}
	value, err := httpx.GetJSONValue(ctx, c.httpClient, req, c.retry)
	if err != nil {
		return nil, fmt.Errorf("bioportalapi: class tree: %w", err)
	}
	return value, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	req, err := c.newRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return httpx.GetJSON(ctx, c.httpClient, req, c.retry)
}

func (c *Client) newRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "apiKey token="+c.apiKey)

	c.log.Debug("bioportal request", zap.String("url", req.URL.Redacted()))
	return req, nil
}
