// Package callapi is the HTTP client for the external call-placement service.
package callapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/outreach/internal/ports/secondary"
)

// DefaultTimeout bounds one call-placement request.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements secondary.CallPlacer over HTTP. Requests are not retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a call-placement client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
	}
}

type placeCallResponse struct {
	Success *bool  `json:"success"`
	CallID  string `json:"call_id"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// PlaceCall dispatches one outbound call. A 2xx reply counts as success unless its
// body carries "success": false; transport errors and non-2xx replies are errors.
func (c *Client) PlaceCall(ctx context.Context, req secondary.CallRequest) (*secondary.CallResponse, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("call service base URL is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build call request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read call service response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("call service returned status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed placeCallResponse
	if len(bytes.TrimSpace(respBody)) > 0 {
		// Unparseable 2xx bodies still count as accepted.
		_ = json.Unmarshal(respBody, &parsed)
	}

	out := &secondary.CallResponse{
		Success: parsed.Success == nil || *parsed.Success,
		CallID:  parsed.CallID,
		Message: parsed.Message,
	}
	if out.CallID == "" {
		out.CallID = parsed.ID
	}
	if out.Message == "" {
		out.Message = parsed.Error
	}
	return out, nil
}

// Ensure Client implements the interface
var _ secondary.CallPlacer = (*Client)(nil)
