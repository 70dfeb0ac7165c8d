package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/logging/types"
	"jobsearch-api/pkg/utils"
)

// HTTPClient implements Provider against the scrape service's REST API
type HTTPClient struct {
	config     *config.Config
	httpClient *http.Client
	logger     types.Logger
}

// NewHTTPClient creates a Provider backed by the configured scrape service
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	return &HTTPClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Source.Timeout.Std(),
		},
		logger: logging.GetGlobalLogger(),
	}
}

// Name returns the provider name
func (c *HTTPClient) Name() string {
	return "scrape-service"
}

// Search posts the parameter bag to the scrape service and decodes the
// tabular result. Transient transport failures are retried with linear
// backoff up to the configured retry budget; HTTP 429 is surfaced as a
// rate-limit failure without retrying.
func (c *HTTPClient) Search(ctx context.Context, params Params) (*Result, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search params: %w", err)
	}

	url := c.config.Source.BaseURL + "/search"

	var lastErr error
	for attempt := 0; attempt <= c.config.Source.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("Retrying source search", map[string]any{
				"attempt": attempt + 1,
				"url":     url,
			})

			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.doSearch(ctx, url, body)
		if err == nil {
			return result, nil
		}

		if se, ok := utils.AsSearchError(err); ok && se.Code == "RATE_LIMIT_EXCEEDED" {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("source search failed after %d attempts: %w",
		c.config.Source.MaxRetries+1, lastErr)
}

func (c *HTTPClient) doSearch(ctx context.Context, url string, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, utils.NewNetworkError("Network error occurred while contacting the scrape service", url, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 300
		if h := resp.Header.Get("Retry-After"); h != "" {
			if secs, perr := time.ParseDuration(h + "s"); perr == nil {
				retryAfter = int(secs.Seconds())
			}
		}
		return nil, utils.NewRateLimitError(c.Name(), retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("scrape service returned %d: %s", resp.StatusCode, string(payload))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode scrape service response: %w", err)
	}

	return &result, nil
}
