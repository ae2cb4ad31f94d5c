// Package api is the client for the tournament platform's auth endpoints.
//
// Requests go through whatever *http.Client the caller supplies; in the
// shell that client is built by the transport package, so credentials are
// attached there and never here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/models"
)

const (
	apiLogin    = "/auth/login"
	apiRegister = "/auth/register"
	apiMe       = "/users/me"
)

// Client talks to the auth API rooted at a base URL such as http://localhost:8000/api.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New returns a Client. A nil httpClient means http.DefaultClient; a nil log discards logs.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Login exchanges credentials for an access token. The body is form-encoded
// as username=<identifier>&password=<secret>, the contract of the login endpoint.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
	body := "username=" + url.QueryEscape(identifier) + "&password=" + url.QueryEscape(secret)

	data, err := c.do(ctx, http.MethodPost, apiLogin, "application/x-www-form-urlencoded", strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("decode login response: missing access_token")
	}
	return &resp, nil
}

// Register creates an account. Any 2xx status counts as success; the response
// body is handed back unvalidated.
func (c *Client) Register(ctx context.Context, email, displayName, secret string) (json.RawMessage, error) {
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	err := enc.Encode(models.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Secret:      secret,
	})
	if err != nil {
		return nil, fmt.Errorf("encode register request: %w", err)
	}

	body := bytes.TrimSuffix(payload.Bytes(), []byte("\n"))
	data, err := c.do(ctx, http.MethodPost, apiRegister, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Me fetches the profile of the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*models.UserProfile, error) {
	data, err := c.do(ctx, http.MethodGet, apiMe, "", nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: parseDetail(data)}
		c.log.Info("request rejected",
			zap.String("op", op),
			zap.Int("status", apiErr.Status),
			zap.String("detail", apiErr.Detail),
		)
		return nil, apiErr
	}
	return data, nil
}
