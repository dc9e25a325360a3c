package session

import (
	"context"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// Landing is the first screen shown after start-up or login.
type Landing string

const (
	LandingLogin Landing = "login"
	LandingAdmin Landing = "admin"
	LandingPosts Landing = "posts"
)

type Loader interface {
	Load(ctx context.Context) (Session, error)
}

// LandingFor maps a role to its home screen.
func LandingFor(role models.Role) Landing {
	if models.ParseRole(string(role)).CanManage() {
		return LandingAdmin
	}
	return LandingPosts
}

// Bootstrap decides the landing screen from the cached session. fromMenu is
// set when the user navigated to login explicitly; the cached session is then
// ignored.
func Bootstrap(ctx context.Context, l Loader, fromMenu bool) Landing {
	if fromMenu {
		return LandingLogin
	}
	s, err := l.Load(ctx)
	if err != nil || !s.Authenticated() {
		return LandingLogin
	}
	return LandingFor(s.Role)
}
