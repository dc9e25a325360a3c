package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

type userPayload struct {
	Username string      `json:"username"`
	Password string      `json:"password,omitempty"`
	UserType models.Role `json:"userType"`
}

// ListUsers aggregates every page of the user listing.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	return Aggregate[models.User](ctx, c.pageSize, c.maxPages, c.ListUsersPage)
}

func (c *Client) ListUsersPage(ctx context.Context, page, limit int) ([]models.User, error) {
	resp, err := c.authed(ctx, http.MethodGet, fmt.Sprintf("/users?page=%d&limit=%d", page, limit), nil)
	if err != nil {
		return nil, err
	}
	return NormalizeUsers(c.decode(resp)), nil
}

// CreateUser registers a teacher or student account.
func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	p := userPayload{
		Username: strings.TrimSpace(in.Username),
		Password: strings.TrimSpace(in.Password),
		UserType: in.Role,
	}
	if p.Username == "" || p.Password == "" || (p.UserType != models.RoleTeacher && p.UserType != models.RoleStudent) {
		return models.User{}, validationError("username, password and user type (teacher or student) are required")
	}
	resp, err := c.authed(ctx, http.MethodPost, "/users/register", p)
	if err != nil {
		return models.User{}, err
	}
	return c.userFrom(resp), nil
}

// UpdateUser changes username and role; the password only when in.Password is set.
func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.User{}, validationError("user has no identifier")
	}
	p := userPayload{
		Username: strings.TrimSpace(in.Username),
		Password: strings.TrimSpace(in.Password),
		UserType: in.Role,
	}
	if p.Username == "" {
		return models.User{}, validationError("username is required")
	}
	if !p.UserType.Valid() {
		return models.User{}, validationError("invalid user type")
	}
	resp, err := c.authed(ctx, http.MethodPut, "/users/"+url.PathEscape(id), p)
	if err != nil {
		return models.User{}, err
	}
	return c.userFrom(resp), nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("user has no identifier")
	}
	_, err := c.authed(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) userFrom(resp *response) models.User {
	if obj, ok := c.decode(resp).(map[string]any); ok {
		return normalizeUser(obj)
	}
	return models.User{}
}
