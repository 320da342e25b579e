// Package client talks to the briefhub API. Each resource function is a
// stateless one-shot round trip: no retries, no caching, errors normalized
// into a single shape the commands can print directly.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Token domains. The mapping from endpoint to domain is fixed: admin
// management endpoints always send the admin token, self-service endpoints
// always send the user token.
const (
	DomainUser  = "user"
	DomainAdmin = "admin"
	domainNone  = ""
)

// TokenSource yields the current bearer token for a session domain, or ""
// when logged out.
type TokenSource interface {
	Token() string
}

// APIError carries the backend's human-readable message for a failed call.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Client is the HTTP client for the briefhub API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	user       TokenSource
	admin      TokenSource
}

// New creates an API client. user and admin supply the bearer tokens for
// their respective domains; either may be nil for a client that only serves
// the other domain.
func New(baseURL string, user, admin TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		user:       user,
		admin:      admin,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API base URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// applyHeaders sets the standard header set plus the bearer token for the
// given domain when one is present. A missing token means no Authorization
// header at all: the backend's 401 comes back as the error, which is more
// useful than failing locally.
func (c *Client) applyHeaders(req *http.Request, domain string) {
	// Bypasses a tunneling provider's interstitial page in development;
	// harmless everywhere else.
	req.Header.Set("ngrok-skip-browser-warning", "true")

	var source TokenSource
	switch domain {
	case DomainUser:
		source = c.user
	case DomainAdmin:
		source = c.admin
	default:
		return
	}
	if source == nil {
		return
	}
	if token := source.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do runs one JSON round trip. body is marshaled when non-nil, out is
// decoded into when non-nil and the call succeeds.
func (c *Client) do(method, path, domain string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyHeaders(req, domain)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// doForm posts an application/x-www-form-urlencoded body. The login
// endpoints take credentials this way.
func (c *Client) doForm(path string, form url.Values, out any) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.applyHeaders(req, domainNone)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parseAPIError extracts the backend's {"detail": "..."} message, falling
// back to a status-derived message when the body is unparsable or lacks the
// field.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Detail:     fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
