package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// Claims is the token payload the portal issues. It is decoded for routing
// and display only; the signature is never checked here, the backend is the
// authority on every request.
type Claims struct {
	Username string `json:"username,omitempty"`
	UserType string `json:"userType,omitempty"`
	jwt.RegisteredClaims
}

func DecodeClaims(token string) (Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Claims{}, err
	}
	return c, nil
}

// RoleFromToken returns the role carried by token, falling back to student
// when the token cannot be decoded or names no known role.
func RoleFromToken(token string) models.Role {
	c, err := DecodeClaims(token)
	if err != nil {
		return models.RoleStudent
	}
	return models.ParseRole(c.UserType)
}
