// Package push delivers batch inspection results to an HTTP collector.
package push

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"device-inspection/internal/config"
	"device-inspection/internal/model"
)

const sourceName = "device-inspection"

// Client posts batch results to the configured endpoint.
type Client struct {
	endpoint   string             // Collector URL
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new push client.
func NewClient(cfg *config.PushConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", sourceName).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "push-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	return false
}

// Push posts the batch result. A non-2xx status or an explicit rejection
// in the response body is an error.
func (c *Client) Push(ctx context.Context, batch *model.BatchResult) (*Response, error) {
	if batch == nil {
		return nil, fmt.Errorf("batch result is nil")
	}

	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Str("run_id", batch.RunID).
		Int("reports", len(batch.Reports)).
		Msg("pushing batch result")

	var result Response

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(&Payload{Source: sourceName, Batch: batch}).
		SetResult(&result).
		Post(c.endpoint)

	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", c.endpoint).Msg("failed to push batch result")
		return nil, fmt.Errorf("failed to push batch result: %w", err)
	}

	if !resp.IsSuccess() {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("collector returned non-2xx status")
		return nil, fmt.Errorf("collector returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if result.IsRejected() {
		c.logger.Error().
			Str("status", result.Status).
			Str("message", result.Message).
			Msg("collector rejected batch result")
		return &result, fmt.Errorf("collector rejected batch result: %s", result.Message)
	}

	c.logger.Info().
		Str("run_id", batch.RunID).
		Int("status_code", resp.StatusCode()).
		Msg("batch result pushed")

	return &result, nil
}
