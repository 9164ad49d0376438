// Package provider talks to the upstream social-outreach API. One Client carries the
// transport; the per-platform types on top of it localize identifier handling.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/outreach/internal/ports/secondary"
)

// DefaultTimeout bounds one upstream request.
const DefaultTimeout = 20 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	AccountID  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is the shared upstream transport.
type Client struct {
	baseURL    string
	apiKey     string
	accountID  string
	httpClient *http.Client
}

// NewClient creates an upstream client.
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
		accountID:  strings.TrimSpace(opts.AccountID),
		httpClient: httpClient,
	}
}

// APIError is a non-2xx upstream reply.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status=%d message=%s", e.StatusCode, e.Message)
}

// Is reports a 404 reply as secondary.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == secondary.ErrNotFound && e.StatusCode == http.StatusNotFound
}

type userResponse struct {
	ProviderID       string `json:"provider_id"`
	PublicIdentifier string `json:"public_identifier"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	FullName         string `json:"full_name"`
	Headline         string `json:"headline"`
	ProfileURL       string `json:"profile_url"`
}

type actionResponse struct {
	Object       string `json:"object"`
	InvitationID string `json:"invitation_id"`
	ChatID       string `json:"chat_id"`
	MessageID    string `json:"message_id"`
}

func (c *Client) getUser(ctx context.Context, identifier string) (*userResponse, error) {
	var out userResponse
	path := "/api/v1/users/" + url.PathEscape(identifier)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) invite(ctx context.Context, providerID, message string) (*actionResponse, error) {
	body := map[string]any{
		"provider_id": providerID,
		"account_id":  c.accountID,
	}
	if message != "" {
		body["message"] = message
	}
	var out actionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/invite", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) startChat(ctx context.Context, attendeeID, text string) (*actionResponse, error) {
	body := map[string]any{
		"account_id":    c.accountID,
		"attendees_ids": []string{attendeeID},
		"text":          text,
	}
	var out actionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chats", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("provider base URL is not configured")
	}

	endpoint := c.baseURL + path
	if c.accountID != "" && method == http.MethodGet {
		endpoint += "?account_id=" + url.QueryEscape(c.accountID)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode provider request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(string(respBody))
		var parsed struct {
			Title   string `json:"title"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if json.Unmarshal(respBody, &parsed) == nil {
			for _, candidate := range []string{parsed.Detail, parsed.Message, parsed.Title} {
				if candidate != "" {
					message = candidate
					break
				}
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}
