// Package paystack provides a client for submitting mobile-money charges to
// the Paystack API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.paystack.co"
	// DefaultTimeout bounds a single charge request.
	DefaultTimeout = 10 * time.Second

	chargePath      = "/charge"
	maxResponseSize = 1 << 20
)

// Config holds Paystack API configuration.
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: paystack secret key is required", common.ErrMissingConfig)
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: paystack base URL must be http or https: %q", common.ErrInvalidConfig, c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: paystack timeout cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

// Client implements service.ChargeDispatcher against the Paystack API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	timeout    time.Duration
}

// NewClient creates a new Paystack client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	// The secret key is sent as a bearer token on every request.
	tokens := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.SecretKey,
		TokenType:   "Bearer",
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: tokens,
				Base:   http.DefaultTransport,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  slog.Default().With("component", "paystack"),
	}, nil
}

// chargeResponse is the envelope Paystack wraps every reply in.
type chargeResponse struct {
	Message string `json:"message"`
	Data    struct {
		Reference   string `json:"reference"`
		Status      string `json:"status"`
		DisplayText string `json:"display_text"`
	} `json:"data"`
	Status bool `json:"status"`
}

// Dispatch submits a charge. It makes exactly one attempt. A charge the
// gateway refused returns an outcome with Accepted false and an error
// wrapping common.ErrGatewayRejected; transport faults and 5xx replies wrap
// common.ErrGatewayUnavailable.
func (c *Client) Dispatch(ctx context.Context, req model.ChargeRequest) (service.ChargeOutcome, error) {
	outcome := service.ChargeOutcome{Reference: req.Reference}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return outcome, fmt.Errorf("failed to marshal charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chargePath, bytes.NewReader(body))
	if err != nil {
		return outcome, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return outcome, fmt.Errorf("%w: %w", common.ErrGatewayUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return outcome, fmt.Errorf("%w: failed to read response: %w", common.ErrGatewayUnavailable, err)
	}

	c.logger.DebugContext(ctx, "Charge response received",
		"reference", req.Reference,
		"status_code", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode >= http.StatusInternalServerError {
		return outcome, fmt.Errorf("%w: status %d: %s", common.ErrGatewayUnavailable, resp.StatusCode, truncate(respBody))
	}

	var parsed chargeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			outcome.Message = truncate(respBody)
			return outcome, fmt.Errorf("%w: status %d: %s", common.ErrGatewayRejected, resp.StatusCode, outcome.Message)
		}
		return outcome, fmt.Errorf("%w: failed to decode response: %w", common.ErrGatewayUnavailable, err)
	}

	outcome.Message = parsed.Message
	outcome.GatewayStatus = parsed.Data.Status
	if parsed.Data.Reference != "" {
		outcome.Reference = parsed.Data.Reference
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Status {
		return outcome, fmt.Errorf("%w: status %d: %s", common.ErrGatewayRejected, resp.StatusCode, parsed.Message)
	}

	outcome.Accepted = true
	return outcome, nil
}

func truncate(b []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

var _ service.ChargeDispatcher = (*Client)(nil)
