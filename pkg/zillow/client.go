// Package zillow is a client for the external property listing API. The API
// is queried per geographic area and returns paginated structured listing
// records; transport and auth details stay inside this package.
package zillow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homeradar-properties/pkg/logger"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const maxRetries = 3

// get performs a GET with retry and backoff, honoring ctx between attempts.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %v", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			logger.GlobalLogger.Errorf("Listing API request failed (attempt %d/%d): url=%s, error=%v", attempt, maxRetries, reqURL, err)
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
			} else if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("unexpected status %s: %s", resp.Status, string(body))
				logger.GlobalLogger.Errorf("Listing API returned %s (attempt %d/%d): url=%s", resp.Status, attempt, maxRetries, reqURL)
			} else {
				return body, nil
			}
		}

		if attempt < maxRetries {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("listing API request failed after %d attempts: %v", maxRetries, lastErr)
}

func pageQuery(area string, page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("area", area)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

// decode unmarshals an API payload, surfacing a useful error on garbage input.
func decode(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode listing API response: %v", err)
	}
	return nil
}
