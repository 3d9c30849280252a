package cmr

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// auth.go implements Earthdata Login (URS). A pre-issued token short-circuits
// the handshake; otherwise username/password mint or reuse a token via the
// URS token API, mirroring what earthaccess does on login.

// Login authenticates against Earthdata Login. It is idempotent: a second
// call on an authenticated client is a no-op.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authenticated {
		return nil
	}

	if c.token != "" {
		c.authenticated = true
		c.logger.Info("authenticated with pre-issued Earthdata token")
		return nil
	}

	if c.username == "" || c.password == "" {
		return fmt.Errorf("no Earthdata credentials configured (set EARTHDATA_TOKEN or EARTHDATA_USERNAME/EARTHDATA_PASSWORD)")
	}

	token, err := c.fetchToken(ctx)
	if err != nil {
		return fmt.Errorf("Earthdata login: %w", err)
	}

	c.token = token
	c.authenticated = true
	c.logger.Info("authenticated with Earthdata Login", "user", c.username)
	return nil
}

// Authenticated reports whether a successful login has occurred.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// fetchToken reuses an existing URS token or mints a new one.
// Caller holds c.mu.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	// Existing tokens first; URS limits how many a user may hold.
	body, err := c.ursRequest(ctx, http.MethodGet, "/api/users/tokens")
	if err != nil {
		return "", err
	}
	if token := gjson.GetBytes(body, "0.access_token").String(); token != "" {
		return token, nil
	}

	body, err = c.ursRequest(ctx, http.MethodPost, "/api/users/token")
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", fmt.Errorf("URS response contained no access token")
	}
	return token, nil
}

// ursRequest performs a basic-auth request against the URS API.
// Caller holds c.mu.
func (c *Client) ursRequest(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.authEndpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("URS request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading URS response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("URS returned status %d", resp.StatusCode)
	}

	return body, nil
}
