package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cascaessama/MobileConectaEdu/internal/client/session"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// SessionStore is the persistence the client needs for the bearer token.
type SessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, token string, role models.Role) error
	Clear(ctx context.Context) error
}

// Client performs one HTTP request per portal operation.
type Client struct {
	baseURL      string
	http         *http.Client
	sessions     SessionStore
	logger       *log.Logger
	newID        func() string
	now          func() time.Time
	loginTimeout time.Duration
	pageSize     int
	maxPages     int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithLoginTimeout(d time.Duration) Option { return func(c *Client) { c.loginTimeout = d } }

func WithPageSize(n int) Option { return func(c *Client) { c.pageSize = n } }

func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// WithIDGenerator sets how placeholder ids for posts without one are made.
func WithIDGenerator(f func() string) Option { return func(c *Client) { c.newID = f } }

func New(baseURL string, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         http.DefaultClient,
		sessions:     sessions,
		logger:       log.New(io.Discard, "", 0),
		newID:        uuid.NewString,
		now:          time.Now,
		loginTimeout: 15 * time.Second,
		pageSize:     DefaultPageSize,
		maxPages:     DefaultMaxPages,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type response struct {
	status int
	header http.Header
	text   string
}

func (c *Client) token(ctx context.Context) (string, error) {
	s, err := c.sessions.Load(ctx)
	if err != nil {
		c.logger.Printf("session load failed: %v", err)
		return "", ErrAuthRequired
	}
	if !s.Authenticated() {
		return "", ErrAuthRequired
	}
	return s.Token, nil
}

// send issues the request and reads the whole body as text.
func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*response, error) {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, method, path, err)
	}
	c.logger.Printf("%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(raw))
	return &response{status: resp.StatusCode, header: resp.Header, text: string(raw)}, nil
}

func (c *Client) transportError(ctx context.Context, method, path string, err error) error {
	c.logger.Printf("%s %s failed: %v", method, path, err)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: ErrTimeout.Message, Err: err}
	}
	return networkError(err)
}

// authed runs an authenticated request. A 401 clears the session before the
// failure is returned.
func (c *Client) authed(ctx context.Context, method, path string, body any) (*response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized {
		if err := c.sessions.Clear(ctx); err != nil {
			c.logger.Printf("clear session: %v", err)
		}
		return nil, ErrSessionExpired
	}
	if !statusOK(resp.status) {
		return nil, backendError(resp.status, errorMessage(resp.text))
	}
	return resp, nil
}

// decode parses a success body. Anything that is not JSON becomes nil.
func (c *Client) decode(resp *response) any {
	if strings.TrimSpace(resp.text) == "" {
		return nil
	}
	v, err := parseJSON(resp.text)
	if err != nil {
		c.logger.Printf("ignoring non-JSON body: %v", err)
		return nil
	}
	return v
}

// errorMessage prefers a JSON message field, then the raw text.
func errorMessage(text string) string {
	if v, err := parseJSON(text); err == nil {
		if m := messageField(v); m != "" {
			return m
		}
	}
	return strings.TrimSpace(text)
}

func messageField(v any) string {
	if m, ok := v.(map[string]any); ok {
		switch msg := m["message"].(type) {
		case string:
			return strings.TrimSpace(msg)
		case []any:
			parts := make([]string, 0, len(msg))
			for _, p := range msg {
				if s, ok := p.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, "; ")
		}
	}
	return ""
}
