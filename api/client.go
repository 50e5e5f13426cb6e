// Package api provides the shared HTTP client for the membership backend.
// Every request carries the bearer token from the vault; a 401 triggers a
// single refresh-and-retry before the session is declared expired.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
	"github.com/thmoreiracosta/uacl/vault"
)

const refreshTokenPath = "/auth/refresh-token"

// Client talks to the external membership REST API.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	vault            vault.Vault
	log              zerolog.Logger
	onSessionExpired func()
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSessionExpiredHook registers the callback invoked after a failed
// token refresh, once stored tokens have been cleared. The portal uses it
// to force navigation to the login entry point.
func WithSessionExpiredHook(fn func()) ClientOption {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL string, v vault.Vault, timeout time.Duration, options ...ClientOption) (*Client, error) {
	if v == nil {
		return nil, errors.New("[NewClient] vault is required")
	}
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}

	c := &Client{
		baseURL:          baseURL,
		httpClient:       &http.Client{Timeout: timeout},
		vault:            v,
		log:              zerolog.Nop(),
		onSessionExpired: func() {},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, false)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, retried bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken, ok := c.vault.Get(vault.KeyToken); ok {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrBackendUnavailable, "[Client.do] %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	// A 401 triggers the refresh-retry cycle only when a refresh token is
	// stored. Without one there is no session to expire (a failed login,
	// for instance) and the status falls through like any other rejection.
	if resp.StatusCode == http.StatusUnauthorized && !retried {
		if _, ok := c.vault.Get(vault.KeyRefreshToken); ok {
			if refreshErr := c.refresh(ctx); refreshErr != nil {
				c.expireSession()
				return apperrors.ErrSessionExpired
			}
			return c.do(ctx, method, path, body, out, true)
		}
	}

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("backend rejected request")
		return apperrors.Wrapf(apperrors.ErrBackendRejected, "%s %s: status %d: %s", method, path, resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "[Client.do] decode response body")
		}
	}
	return nil
}

// refresh performs the one-shot token refresh. It does not recurse through
// do, so a 401 on the refresh endpoint itself cannot loop.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken, ok := c.vault.Get(vault.KeyRefreshToken)
	if !ok {
		return errors.New("[Client.refresh] no refresh token stored")
	}

	encoded, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return errors.Wrap(err, "[Client.refresh] encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshTokenPath, bytes.NewReader(encoded))
	if err != nil {
		return errors.Wrap(err, "[Client.refresh] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Client.refresh] request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("[Client.refresh] status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return errors.Wrap(err, "[Client.refresh] decode response")
	}
	if payload.Token == "" {
		return errors.New("[Client.refresh] empty token in response")
	}
	return c.vault.Set(vault.KeyToken, payload.Token)
}

func (c *Client) expireSession() {
	_ = c.vault.Delete(vault.KeyToken)
	_ = c.vault.Delete(vault.KeyRefreshToken)
	c.log.Info().Msg("token refresh failed, session expired")
	c.onSessionExpired()
}
