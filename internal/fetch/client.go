package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"wr_history/internal/catalog"
	"wr_history/internal/config"
	"wr_history/internal/records"

	"github.com/rs/zerolog/log"
)

// Client fetches the catalog and per-map exports from a remote archive.
// Requests are single-shot with no retry or backoff: a failed fetch is an
// empty state for the viewer, not a fault to recover from.
type Client struct {
	baseURL      string
	client       *http.Client
	requestCount int64
	requestMutex sync.Mutex
}

// NewClient creates a client for the given archive base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: config.ArchiveFetchTimeout,
		},
	}
}

// IncrementRequest safely increments the request counter
func (c *Client) IncrementRequest() {
	c.requestMutex.Lock()
	c.requestCount++
	c.requestMutex.Unlock()
}

// GetRequestCount returns the current request count
func (c *Client) GetRequestCount() int64 {
	c.requestMutex.Lock()
	defer c.requestMutex.Unlock()
	return c.requestCount
}

// get executes one HTTP GET and returns the body bytes.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", url).
			Msg("Archive request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	c.IncrementRequest()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("archive request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// GetCatalog fetches and parses the archive catalog.
func (c *Client) GetCatalog(ctx context.Context) (*catalog.Catalog, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, catalog.FileName)

	log.Debug().Str("url", url).Msg("Fetching archive catalog")

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return &cat, nil
}

// GetHistory fetches one per-map export and decodes it into rows. The
// relative path comes from a catalog entry.
func (c *Client) GetHistory(ctx context.Context, file string) ([]records.Row, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(file, "/"))

	log.Debug().Str("url", url).Msg("Fetching history export")

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	return records.Rows(string(body)), nil
}
