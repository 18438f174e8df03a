// Package mirror fetches compressed Contents indexes over HTTP.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pkgstats/constants"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: constants.FetchTimeout},
	}
}

// ContentsURL is the mirror location of the Contents index for arch.
func (c *Client) ContentsURL(arch string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + fmt.Sprintf(constants.ContentsKey, arch)
}

// Fetch downloads the compressed Contents index and returns its raw bytes.
// Any failure here is equivalent to an IO failure for the caller.
func (c *Client) Fetch(ctx context.Context, arch string) ([]byte, error) {
	url := c.ContentsURL(arch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %v: %w", url, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %v: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %v: unexpected status %v", url, resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", url, err)
	}
	return content, nil
}
