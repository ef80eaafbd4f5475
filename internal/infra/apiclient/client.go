// Package apiclient implements the remote API surface of the app,
// including authentication headers, token refresh and error mapping.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	domainerrors "ciquest/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://localhost:8000"
	defaultTimeout = 10 * time.Second

	// Access tokens expiring within this window are refreshed before
	// the request instead of waiting for the 401.
	expirySkew = 30 * time.Second

	refreshPath = "/api/token/refresh/"

	apiKeyHeader    = "phone-API-key"
	requestIDHeader = "X-Request-Id"
)

// stampCooldownDetail is the server's detail message for a stamp scan
// inside the cooldown window.
const stampCooldownDetail = "Already stamped within 4 hours"

// NormalizeBaseURL validates and canonicalizes the API base URL. An
// empty value falls back to the default; plain http is rejected;
// trailing slashes are stripped.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultBaseURL, nil
	}
	if strings.HasPrefix(trimmed, "http://") {
		return "", errors.New("API base URL must use https://")
	}

	return strings.TrimRight(trimmed, "/"), nil
}

// Client talks to the remote API. It owns the token pair and refreshes
// the access token transparently; a failed refresh fires the expired
// handler so the session layer can log the user out.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	mu             sync.Mutex
	access         string
	refresh        string
	expiredHandler func()

	// refreshMu serializes token refreshes so concurrent 401s trigger
	// a single refresh call.
	refreshMu sync.Mutex
}

// New creates a Client. timeout <= 0 selects the default.
func New(baseURL string, apiKey string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    normalized,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthTokens replaces the token pair. Empty strings clear it.
func (c *Client) SetAuthTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.access = access
	c.refresh = refresh
}

// SetAuthExpiredHandler registers the callback fired when a token
// refresh fails. The handler runs on the calling goroutine.
func (c *Client) SetAuthExpiredHandler(handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expiredHandler = handler
}

func (c *Client) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.access, c.refresh
}

// do performs one API call. body (when non-nil) is JSON-encoded; out
// (when non-nil) receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	access, refresh := c.tokens()

	if access != "" && refresh != "" && accessExpiringSoon(access, time.Now()) {
		refreshed, err := c.refreshAccessToken(ctx)
		if err != nil {
			c.logger.Warn("Proactive token refresh failed, proceeding with current token",
				slog.Any("error", err),
			)
		} else {
			access = refreshed
		}
	}

	resp, raw, err := c.send(ctx, method, path, query, body, access)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && refresh != "" {
		refreshed, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			c.fireExpiredHandler()

			return domainerrors.ErrTokenRefreshFailed.WrapMessage(refreshErr.Error())
		}

		resp, raw, err = c.send(ctx, method, path, query, body, refreshed)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domainerrors.NewAPIResponseError(resp.StatusCode, errorDetail(raw))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "failed to decode API response")
		}
	}

	return nil
}

// send performs one HTTP round trip and drains the body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, access string) (*http.Response, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "API request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read API response")
	}

	return resp, raw, nil
}

// refreshAccessToken exchanges the refresh token for a new access
// token. Concurrent callers share one exchange.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	before := c.access
	refresh := c.refresh
	c.mu.Unlock()

	if refresh == "" {
		return "", errors.New("refresh token is missing")
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited.
	c.mu.Lock()
	current := c.access
	c.mu.Unlock()
	if current != "" && current != before {
		return current, nil
	}

	resp, raw, err := c.send(ctx, http.MethodPost, refreshPath, nil, map[string]string{"refresh": refresh}, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domainerrors.NewAPIResponseError(resp.StatusCode, errorDetail(raw))
	}

	var payload struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", errors.Wrap(err, "failed to decode refresh response")
	}
	if payload.Access == "" {
		return "", errors.New("refresh response did not contain an access token")
	}

	c.mu.Lock()
	c.access = payload.Access
	c.mu.Unlock()

	c.logger.Debug("Access token refreshed")

	return payload.Access, nil
}

func (c *Client) fireExpiredHandler() {
	c.mu.Lock()
	handler := c.expiredHandler
	c.mu.Unlock()

	if handler != nil {
		handler()
	}
}

// accessExpiringSoon inspects the token's exp claim without verifying
// the signature; verification is the server's job.
func accessExpiringSoon(access string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.Before(now.Add(expirySkew))
}

// errorDetail extracts the server's detail message from a failure body.
func errorDetail(raw []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	return payload.Detail
}

// IsStampCooldown reports whether the error is the server rejecting a
// stamp scan inside the per-store cooldown window.
func IsStampCooldown(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), stampCooldownDetail)
}
