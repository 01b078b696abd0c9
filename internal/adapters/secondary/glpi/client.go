package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// maxLoggedBody bounds how much of a raw response ends up in logs and errors.
const maxLoggedBody = 500

// Fetch modes for FetchTickets.
const (
	FetchModeServer = "server"
	FetchModeClient = "client"
)

// Config holds GLPI client configuration
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables pacing
	FetchMode         string  // server or client
	PageSize          int
	DateField         string // search option used by the server-side between criterion
	DefaultStart      string
	DefaultEnd        string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("glpi %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return apperrors.ErrUpstream
}

// Client talks to the GLPI REST API on behalf of a Session.
type Client struct {
	cfg        Config
	baseURL    string
	session    *Session
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a GLPI client bound to session.
func NewClient(cfg Config, session *Session, logger *slog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.FetchMode == "" {
		cfg.FetchMode = FetchModeServer
	}
	if cfg.DateField == "" {
		cfg.DateField = "date"
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		session:    session,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "glpi_client"),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// SessionOpen reports whether InitSession obtained a token that has not
// been killed since.
func (c *Client) SessionOpen() bool {
	return c.session.Token() != ""
}

// FetchMode returns how FetchTickets queries GLPI.
func (c *Client) FetchMode() string {
	return c.cfg.FetchMode
}

// InitSession opens a GLPI session and stores the token on the Session.
func (c *Client) InitSession(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodGet, "initSession", nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSessionInit, err)
	}

	token := gjson.GetBytes(body, "session_token").String()
	if token == "" {
		return fmt.Errorf("%w: session_token missing from response: %s", apperrors.ErrSessionInit, truncate(body))
	}
	c.session.setToken(token)

	c.logger.Info("glpi session opened", "token_prefix", truncateString(token, 10)+"...")
	return nil
}

// KillSession closes the current GLPI session, if any.
func (c *Client) KillSession(ctx context.Context) error {
	if c.session.Token() == "" {
		return nil
	}
	if _, err := c.do(ctx, http.MethodGet, "killSession", nil, nil); err != nil {
		return err
	}
	c.session.setToken("")
	c.logger.Info("glpi session closed")
	return nil
}

// Ping checks that the session is still accepted by GLPI.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "getActiveProfile", nil, nil)
	return err
}

// do performs one request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}
	c.session.apply(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "glpi call failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorContext(ctx, "glpi call returned error status",
			"method", method,
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"body", truncate(body),
		)
		return nil, &StatusError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       truncate(body),
		}
	}

	return body, nil
}

// parseJSON validates body and logs non-JSON payloads.
func (c *Client) parseJSON(ctx context.Context, endpoint string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		c.logger.WarnContext(ctx, "glpi response is not valid JSON",
			"endpoint", endpoint,
			"raw", truncate(body),
		)
		return gjson.Result{}, apperrors.ErrNotJSON
	}
	return gjson.ParseBytes(body), nil
}

func truncate(body []byte) string {
	return truncateString(string(body), maxLoggedBody)
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
