package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"civic-cli/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client issues authenticated requests against the reporting service.
// Build one at startup and thread it through; it owns nothing global.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session session.Store
	Log     *zap.Logger
}

func New(baseURL string, sess session.Store, timeout time.Duration, log *zap.Logger) *Client {
	// The cookie jar carries the server-side session cookie (and its CSRF
	// token) for the non-JWT channel.
	jar, _ := cookiejar.New(nil)
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout, Jar: jar},
		Session: sess,
		Log:     log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, token string, hdr http.Header) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	// Caller headers win on key collision.
	for k, vs := range hdr {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// Do sends an authenticated request.
//
//  1. No access token: the session is cleared and ErrNoSession returned;
//     nothing is sent.
//  2. On a 401, exactly one token refresh and one resend are attempted.
//     The resend's response is returned whatever its status.
//  3. A failed refresh returns (nil, nil): absent response, session left
//     intact, caller decides.
//
// Every other response comes back unmodified, body unread.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, hdr http.Header) (*http.Response, error) {
	token := strings.TrimSpace(c.Session.AccessToken())
	if token == "" {
		_ = c.Session.Clear()
		return nil, ErrNoSession
	}

	req, err := c.newRequest(ctx, method, path, body, token, hdr)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.Log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()

	newToken, err := c.refresh(ctx)
	if err != nil {
		// Do not force a logout: a server-side session may remain valid
		// through the cookie channel. Absent result, caller decides.
		c.Log.Debug("refresh failed", zap.String("path", path), zap.Error(err))
		return nil, nil
	}

	req, err = c.newRequest(ctx, method, path, body, newToken, hdr)
	if err != nil {
		return nil, err
	}
	resp, err = c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s (retried): %w", method, path, err)
	}
	c.Log.Debug("request retried after refresh",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

// refresh mints a new access token from the refresh token and persists
// it. Called at most once per Do.
func (c *Client) refresh(ctx context.Context) (string, error) {
	rt := strings.TrimSpace(c.Session.RefreshToken())
	if rt == "" {
		return "", fmt.Errorf("no refresh token")
	}
	payload, err := json.Marshal(map[string]string{"refresh": rt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("refresh failed: %s", resp.Status)
	}
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return "", err
	}
	if strings.TrimSpace(pair.Access) == "" {
		return "", fmt.Errorf("refresh returned no access token")
	}
	// Some servers rotate the refresh token too; SetTokens keeps the old
	// one when the response omits it.
	if err := c.Session.SetTokens(pair.Access, pair.Refresh); err != nil {
		return "", err
	}
	return pair.Access, nil
}

// doJSON runs an authenticated request and decodes a 2xx JSON body into
// out. Non-2xx responses become typed errors via ReadError; an absent
// response (failed refresh) becomes ErrAuthExpired.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}
	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrAuthExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReadError(resp)
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postUnauth is the unauthenticated channel (login, register, session
// login). A CSRF token from the cookie jar is attached when present:
// state-mutating calls outside the JWT path require it.
func (c *Client) postUnauth(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if csrf := c.csrfToken(); csrf != "" {
		req.Header.Set("X-CSRFToken", csrf)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReadError(resp)
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) csrfToken() string {
	if c.HTTP.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	for _, ck := range c.HTTP.Jar.Cookies(u) {
		if ck.Name == "csrftoken" {
			return ck.Value
		}
	}
	return ""
}
