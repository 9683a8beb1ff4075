// Package overtime is the Go client for the Overtime admin API. It wraps
// every call with bearer authentication and a single transparent token
// refresh on 401.
package overtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

const defaultRefreshPath = "/v1/auth/refresh"

// APIError is returned for any non-2xx response. Details carries the decoded
// JSON error body when the server sent one.
type APIError struct {
	Status     int
	StatusText string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api error: %d %s: %v", e.Status, e.StatusText, e.Details)
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.StatusText)
}

type Config struct {
	HTTPClient  *http.Client
	BaseURL     string
	RefreshPath string
	TokenStore  TokenStore
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	refreshPath string
	tokens      TokenStore
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.TokenStore == nil {
		return nil, fmt.Errorf("token store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	refreshPath := strings.TrimSpace(cfg.RefreshPath)
	if refreshPath == "" {
		refreshPath = defaultRefreshPath
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		refreshPath: refreshPath,
		tokens:      cfg.TokenStore,
	}, nil
}

type requestOptions struct {
	skipAuth    bool
	contentType string
}

type RequestOption func(*requestOptions)

// WithoutAuth sends the request without an Authorization header and without
// the refresh-and-retry behavior.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) { o.skipAuth = true }
}

// WithContentType overrides the Content-Type header, mainly for io.Reader
// bodies that are not JSON.
func WithContentType(ct string) RequestOption {
	return func(o *requestOptions) { o.contentType = ct }
}

// Do performs an API call. Plain values are serialized to JSON; io.Reader
// bodies are sent as-is. On 401 it refreshes the token pair once and retries
// the original request; a failed refresh clears the stored tokens and the
// original 401 is returned. The response is decoded into out unless the
// server replied 204 or out is nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	payload, contentType, err := encodeBody(body, options.contentType)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, payload, contentType, options.skipAuth)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !options.skipAuth {
		originalErr := readAPIError(resp)

		if refreshErr := c.refresh(ctx); refreshErr != nil {
			_ = c.tokens.ClearTokens(ctx)
			return originalErr
		}

		resp, err = c.send(ctx, method, path, payload, contentType, false)
		if err != nil {
			return err
		}
	}

	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, contentType string, skipAuth bool) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if !skipAuth {
		tokens, err := c.tokens.Tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("read tokens: %w", err)
		}
		if tokens.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", method, path, err)
	}

	return resp, nil
}

func (c *Client) refresh(ctx context.Context) error {
	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}
	if tokens.RefreshToken == "" {
		return fmt.Errorf("no refresh token available")
	}

	payload, err := sonic.Marshal(map[string]string{"refreshToken": tokens.RefreshToken})
	if err != nil {
		return fmt.Errorf("encode refresh payload: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, c.refreshPath, payload, "application/json", true)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var refreshed Tokens
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if refreshed.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	return c.tokens.SetTokens(ctx, refreshed)
}

func encodeBody(body any, contentType string) ([]byte, string, error) {
	if body == nil {
		return nil, contentType, nil
	}

	if reader, ok := body.(io.Reader); ok {
		// Buffered so the request can be replayed after a token refresh.
		raw, err := io.ReadAll(reader)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return raw, contentType, nil
	}

	raw, err := sonic.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	if contentType == "" {
		contentType = "application/json"
	}
	return raw, contentType, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIErrorBody(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func readAPIError(resp *http.Response) *APIError {
	err := readAPIErrorBody(resp)
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return &APIError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
}

func readAPIErrorBody(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(raw) > 0 {
		var details map[string]any
		if sonic.Unmarshal(raw, &details) == nil {
			apiErr.Details = details
		}
	}

	return apiErr
}
