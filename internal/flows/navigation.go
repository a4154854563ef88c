package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goBioLogin/session"
)

// Route is a flow-local entry screen.
type Route uint8

const (
	RoutePasswordLogin Route = iota
	RouteBiometricLogin
	RouteHome
)

// NavigationDeps captures what the entry-screen policy consults.
type NavigationDeps struct {
	LoadSession         func(context.Context) (*session.Session, error)
	RemoteSessionActive func(context.Context) bool
	BiometricEnabled    func(context.Context, string) bool
	Warn                func(string, ...any)
}

// RunStartRoute picks the screen shown at application start.
func RunStartRoute(ctx context.Context, deps NavigationDeps) Route {
	sess := loadForNavigation(ctx, deps)
	if sess.IsLoggedIn() && deps.RemoteSessionActive != nil && deps.RemoteSessionActive(ctx) {
		return RouteHome
	}
	return unauthenticatedRoute(ctx, sess, deps)
}

// RunPostLogoutRoute picks the screen shown right after a logout.
func RunPostLogoutRoute(ctx context.Context, deps NavigationDeps) Route {
	return unauthenticatedRoute(ctx, loadForNavigation(ctx, deps), deps)
}

func unauthenticatedRoute(ctx context.Context, sess *session.Session, deps NavigationDeps) Route {
	if sess.HasIdentity() && deps.BiometricEnabled != nil && deps.BiometricEnabled(ctx, sess.UserID) {
		return RouteBiometricLogin
	}
	return RoutePasswordLogin
}

func loadForNavigation(ctx context.Context, deps NavigationDeps) *session.Session {
	if deps.LoadSession == nil {
		return nil
	}
	sess, err := deps.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) && deps.Warn != nil {
			deps.Warn("navigation: session load failed", "error", err)
		}
		return nil
	}
	return sess
}
