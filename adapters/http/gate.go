package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satriahrh/lumi/adapters/session"
	"github.com/satriahrh/lumi/utils/log"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"

	claimsKey = "session_claims"
)

var (
	publicPrefixes = []string{loginPath}

	ungatedPrefixes = []string{"/static/", "/_next/static", "/_next/image", "/favicon.ico", "/health"}
	imageExts       = map[string]bool{".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}
)

type GateAction int

const (
	GatePass GateAction = iota
	GateToLogin
	GateToDashboard
)

// GateDecision is the whole redirect policy. It looks at nothing but the
// path and whether the request carries a valid session.
func GateDecision(p string, authenticated bool) GateAction {
	public := false
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			public = true
			break
		}
	}

	switch {
	case public && authenticated:
		return GateToDashboard
	case !public && p != "/" && !authenticated:
		return GateToLogin
	}
	return GatePass
}

func gated(p string) bool {
	for _, prefix := range ungatedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}
	return !imageExts[strings.ToLower(path.Ext(p))]
}

// accessGate redirects between public and protected routes. On pass-through
// a verified session is put in the echo and request contexts.
func accessGate(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			p := req.URL.Path
			if !gated(p) {
				return next(c)
			}

			claims, err := sessions.FromRequest(req)
			authenticated := err == nil

			switch GateDecision(p, authenticated) {
			case GateToDashboard:
				return c.Redirect(http.StatusTemporaryRedirect, dashboardPath)
			case GateToLogin:
				return c.Redirect(http.StatusTemporaryRedirect, loginPath)
			}

			if authenticated {
				c.Set(claimsKey, claims)
				c.SetRequest(req.WithContext(log.WithUserID(req.Context(), claims.UserID())))
			}
			return next(c)
		}
	}
}

func sessionClaims(c echo.Context) (*session.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*session.Claims)
	return claims, ok && claims != nil
}
