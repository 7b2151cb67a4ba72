// Package fetch retrieves translation bundles from the turnslate service.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"turnslate/internal/bundle"
)

// Client fetches a project's translation bundle over an authenticated POST.
type Client struct {
	endpoint   string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient creates a bundle client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryDelay: 2 * time.Second,
	}
}

type bundleRequest struct {
	ProjectID string `json:"projectId"`
	Token     string `json:"token"`
}

type bundleResponse struct {
	Main  string            `json:"main"`
	Langs map[string]string `json:"langs"`
}

// FetchBundle requests the bundle for a project and validates it. The
// request is retried with linear backoff; context cancellation stops the
// retry loop immediately. Validation failures are not retried since the
// service would return the same payload again.
func (c *Client) FetchBundle(ctx context.Context, project, token string) (*bundle.Bundle, error) {
	body, err := json.Marshal(bundleRequest{ProjectID: project, Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal bundle request: %w", err)
	}

	var decoded *bundleResponse
	var lastErr error
	maxRetries := 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.retryDelay
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying bundle fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		decoded, lastErr = c.doRequest(ctx, body)
		if lastErr == nil {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("bundle fetch failed after %d retries: %w", maxRetries, lastErr)
	}

	b, err := bundle.New(decoded.Main, decoded.Langs)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("main", b.Main).Int("languages", len(b.Langs)).Msg("Bundle fetched")
	return b, nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*bundleResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("retryable error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var decoded bundleResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}
	return &decoded, nil
}
