package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/cascaessama/MobileConectaEdu/internal/client/session"
)

// tokenFields are the login body keys that may carry the token, in precedence order.
var tokenFields = []string{"access_token", "token", "accessToken", "jwt"}

var (
	bearerPrefix       = regexp.MustCompile(`(?i)^bearer\s+`)
	invalidCredentials = regexp.MustCompile(`(?i)invalid credentials`)
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates, decodes the role from the returned token and persists
// the session. The request is bounded by the login timeout.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return session.Session{}, validationError("username and password are required")
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()
	resp, err := c.send(reqCtx, http.MethodPost, "/users/login", loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return session.Session{}, err
	}

	var parsed any = map[string]any{}
	var parseErr error
	if strings.TrimSpace(resp.text) != "" {
		parsed, parseErr = parseJSON(resp.text)
	}

	if !statusOK(resp.status) {
		msg := messageField(parsed)
		if msg == "" {
			msg = fmt.Sprintf("authentication failed (HTTP %d)", resp.status)
		}
		if invalidCredentials.MatchString(msg) {
			msg = "incorrect username or password"
		}
		return session.Session{}, &Error{Kind: KindBackend, Status: resp.status, Message: msg}
	}
	if parseErr != nil {
		return session.Session{}, &Error{Kind: KindNotJSON, Message: ErrNotJSON.Message, Err: parseErr}
	}

	token := extractToken(parsed, resp.header.Get("Authorization"))
	if token == "" {
		return session.Session{}, ErrNoAccessToken
	}
	s := session.Session{Token: token, Role: session.RoleFromToken(token)}
	if err := c.sessions.Save(ctx, s.Token, s.Role); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	c.logger.Printf("logged in as %s (token %s...)", s.Role, prefix(token, 8))
	return s, nil
}

// Logout forgets the cached session.
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

// extractToken returns the first non-empty body token, else the token of a
// "Bearer <token>" header.
func extractToken(body any, authHeader string) string {
	if m, ok := body.(map[string]any); ok {
		for _, k := range tokenFields {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	if bearerPrefix.MatchString(authHeader) {
		return strings.TrimSpace(bearerPrefix.ReplaceAllString(authHeader, ""))
	}
	return ""
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
