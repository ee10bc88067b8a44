// Package tui implements the interactive handset simulator used to dial a
// running callback server.
package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/rentflow/internal/ussd"
)

// DefaultRequestTimeout bounds one simulated carrier request.
const DefaultRequestTimeout = 15 * time.Second

// Sender delivers one callback and returns the screen to show.
type Sender interface {
	Send(ctx context.Context, req ussd.Request) (ussd.Prompt, error)
}

// CallbackClient posts callbacks the way a carrier gateway does.
type CallbackClient struct {
	httpClient *http.Client
	url        string
}

// NewCallbackClient creates a client for the callback endpoint at callbackURL.
func NewCallbackClient(callbackURL string, timeout time.Duration) *CallbackClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &CallbackClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        callbackURL,
	}
}

// Send implements Sender.
func (c *CallbackClient) Send(ctx context.Context, req ussd.Request) (ussd.Prompt, error) {
	form := url.Values{
		"sessionId":   {req.SessionID},
		"serviceCode": {req.ServiceCode},
		"phoneNumber": {req.PhoneNumber},
		"text":        {req.Text},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return ussd.Prompt{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ussd.Prompt{}, fmt.Errorf("callback request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ussd.Prompt{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return ussd.Prompt{}, fmt.Errorf("callback returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return ussd.ParsePrompt(string(body))
}
