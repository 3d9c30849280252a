package cmr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// lockFileName is the advisory lock guarding a download directory.
const lockFileName = ".cmr-mcp.lock"

// Download fetches each granule's first data link into dir and returns the
// local file paths in granule order. Granules without a data link, and
// granules whose transfer fails, are logged and skipped; the returned list
// stays aligned with the granules that actually produced a file.
//
// The directory is created if absent and held under an advisory file lock so
// two concurrent downloads into the same directory do not interleave.
func (c *Client) Download(ctx context.Context, granules []Granule, dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("download directory is required")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking download directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	var paths []string
	for _, g := range granules {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		if len(g.DataLinks) == 0 {
			c.logger.Warn("granule has no data link, skipping", "concept_id", g.ConceptID)
			continue
		}

		link := g.DataLinks[0]
		local, err := c.downloadFile(ctx, link, dir)
		if err != nil {
			c.logger.Error("granule download failed",
				"concept_id", g.ConceptID, "url", link, "error", err)
			continue
		}

		c.logger.Info("granule downloaded", "concept_id", g.ConceptID, "file", local)
		paths = append(paths, local)
	}

	return paths, nil
}

// downloadFile streams one URL into dir and returns the local path.
func (c *Client) downloadFile(ctx context.Context, link, dir string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Client-Id", clientID)
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", link, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d for %s", resp.StatusCode, link)
	}

	name, err := fileNameFromURL(link)
	if err != nil {
		return "", err
	}
	local := filepath.Join(dir, name)

	out, err := os.Create(local) //nolint:gosec // name is sanitized by fileNameFromURL
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", local, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(local)
		return "", fmt.Errorf("writing %s: %w", local, err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", local, err)
	}

	return local, nil
}

// fileNameFromURL derives a safe local file name from a data link.
func fileNameFromURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing data link: %w", err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("data link %q has no usable file name", link)
	}
	return name, nil
}
