package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"productsync/internal/domain/event"
)

// Client is the public service's synchronous gateway to the admin service.
// It is used only by the like corridor.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// LikeProduct increments the canonical like counter and returns the updated
// record. Any non-2xx status is an error; callers must then abandon their
// local increment.
func (c *Client) LikeProduct(ctx context.Context, adminID int64) (*event.ProductChange, error) {
	url := fmt.Sprintf("%s/api/products/%d/like", c.baseURL, adminID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build like request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call admin like endpoint: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("admin like endpoint returned status %d", resp.StatusCode)
	}

	var updated event.ProductChange
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("decode admin like response: %w", err)
	}

	return &updated, nil
}
