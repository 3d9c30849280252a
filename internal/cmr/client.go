// Package cmr is a thin client for NASA's Common Metadata Repository and the
// Earthdata Login (URS) service.
//
// It covers exactly what the tool surface needs: collection search, granule
// search (by free parameters or concept identifier), authenticated login with
// a status flag, and batch file download into a local directory. Responses
// are parsed into explicit record types at this boundary so callers never
// touch raw catalog JSON.
package cmr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/geoatlas/cmr-mcp/internal/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// clientID identifies this client to CMR operators.
	clientID = "cmr-mcp"

	// maxResponseSize caps search response bodies (metadata, not data files).
	maxResponseSize = 32 * 1024 * 1024
)

// ClientConfig holds all dependencies and settings for a Client.
type ClientConfig struct {
	// SearchEndpoint is the CMR search API base, e.g.
	// "https://cmr.earthdata.nasa.gov/search".
	SearchEndpoint string

	// AuthEndpoint is the Earthdata Login base, e.g.
	// "https://urs.earthdata.nasa.gov".
	AuthEndpoint string

	// Token is a pre-issued Earthdata Login bearer token. When set, Login
	// succeeds without contacting URS.
	Token string

	// Username and Password authenticate against URS when no token is set.
	Username string
	Password string

	// Timeout bounds each HTTP request. Default 30s.
	Timeout time.Duration

	// RatePerSecond limits outbound requests to CMR. Default 5.
	RatePerSecond float64

	// Logger is required.
	Logger log.Logger

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to CMR and Earthdata Login. Safe for concurrent use; the only
// mutable state is the auth token, guarded by mu.
type Client struct {
	searchEndpoint string
	authEndpoint   string
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         log.Logger

	mu            sync.Mutex
	token         string
	username      string
	password      string
	authenticated bool
}

// NewClient creates a CMR client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.SearchEndpoint == "" {
		return nil, fmt.Errorf("search endpoint is required")
	}
	if cfg.AuthEndpoint == "" {
		return nil, fmt.Errorf("auth endpoint is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		searchEndpoint: cfg.SearchEndpoint,
		authEndpoint:   cfg.AuthEndpoint,
		httpClient:     httpClient,
		limiter:        rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
		logger:         cfg.Logger,
		token:          cfg.Token,
		username:       cfg.Username,
		password:       cfg.Password,
	}, nil
}

// SearchCollections searches CMR collections and returns parsed records.
func (c *Client) SearchCollections(ctx context.Context, query CollectionQuery) ([]Collection, error) {
	body, err := c.search(ctx, "collections.umm_json", query.values())
	if err != nil {
		return nil, err
	}

	collections := parseCollections(body)
	c.logger.Debug("collection search complete", "count", len(collections))
	return collections, nil
}

// SearchGranules searches CMR granules and returns parsed records.
func (c *Client) SearchGranules(ctx context.Context, query GranuleQuery) ([]Granule, error) {
	body, err := c.search(ctx, "granules.umm_json", query.values())
	if err != nil {
		return nil, err
	}

	granules := parseGranules(body)
	c.logger.Debug("granule search complete", "count", len(granules))
	return granules, nil
}

// search performs a rate-limited GET against a CMR search route.
func (c *Client) search(ctx context.Context, route string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.searchEndpoint + "/" + route
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Client-Id", clientID)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/vnd.nasa.cmr.umm_results+json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("CMR request", "route", route, "params", params.Encode(), "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CMR request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading CMR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("CMR request rejected",
			"route", route, "status", resp.StatusCode, "request_id", requestID)
		return nil, fmt.Errorf("CMR returned status %d for %s", resp.StatusCode, route)
	}

	return body, nil
}

// currentToken returns the auth token, which may be empty.
func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}
