package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/rubiane-edu/finedu-web/internal/config"
)

// TokenType is the authorization scheme expected by the backend
const TokenType = "Token"

const maxErrorBody = 64 * 1024

// Client is the REST client for the backend service
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	log       zerolog.Logger
}

// Verify interface compliance
var _ Provider = (*Client)(nil)

// New creates a Client for the configured backend
func New(cfg config.BackendConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		transport: http.DefaultTransport,
		log:       log.With().Str("component", "backend").Logger(),
	}
}

// WithTransport replaces the base round tripper, used by tests
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	cp := *c
	cp.transport = rt
	return &cp
}

// For returns the endpoint groups authorized with token
func (c *Client) For(token string) *API {
	cn := &conn{
		baseURL: c.baseURL,
		http:    c.httpClient(token),
		log:     c.log,
	}
	return &API{
		Auth:    &authAPI{cn},
		Courses: &courseAPI{cn},
		Lessons: &lessonAPI{cn},
		Admin:   &adminAPI{cn},
		Copilot: &copilotAPI{cn},
	}
}

// httpClient attaches "Authorization: Token <token>" through an oauth2
// transport. oauth2 keeps non-bearer token types as given.
func (c *Client) httpClient(token string) *http.Client {
	if token == "" {
		return &http.Client{Timeout: c.timeout, Transport: c.transport}
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: TokenType})
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Base:   c.transport,
			Source: src,
		},
	}
}

// conn performs requests for one token
type conn struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func (c *conn) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends body as JSON (when not nil) and decodes the response into out (when not nil)
func (c *conn) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, contentType, reader, out)
}

func (c *conn) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(method, path, resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// doMultipart posts the upload as the "file" part plus extra form fields
func (c *conn) doMultipart(ctx context.Context, path string, file Upload, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", file.Filename)
	if err != nil {
		return fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("multipart: copy file: %w", err)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("multipart: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("multipart: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, w.FormDataContentType(), &buf, out)
}
