package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sa-matric/connect/internal/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

const loginPage = "/login.html"

type Auth struct {
	Secret []byte
	Secure bool
}

func NewAuth(secret []byte, secure bool) *Auth {
	return &Auth{Secret: secret, Secure: secure}
}

// extractToken prefers the session cookie and falls back to a bearer header
// for non-browser clients.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(tokens.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (m *Auth) authenticate(c echo.Context) (*tokens.SessionClaims, error) {
	raw := extractToken(c)
	if raw == "" {
		return nil, tokens.ErrMissing
	}
	return tokens.Parse(raw, m.Secret)
}

// RequireAuth guards JSON API routes. Failures answer 401 with a stable
// error string; a bad cookie is cleared so the browser stops resending it.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.authenticate(c)
		if err != nil {
			if !errors.Is(err, tokens.ErrMissing) {
				c.SetCookie(tokens.DeleteCookie(m.Secure))
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
		}

		userID, err := claims.UserID()
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(m.Secure))
			return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		return next(c)
	}
}

// RequireLogin guards HTML routes. Same verification as RequireAuth, but a
// browser without a valid session lands on the login page instead of a
// JSON error.
func (m *Auth) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.authenticate(c)
		if err != nil {
			if !errors.Is(err, tokens.ErrMissing) {
				c.SetCookie(tokens.DeleteCookie(m.Secure))
			}
			return c.Redirect(http.StatusFound, loginPage)
		}

		userID, err := claims.UserID()
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(m.Secure))
			return c.Redirect(http.StatusFound, loginPage)
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		return next(c)
	}
}

// UserID reads the identity a middleware attached to the context.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserID).(uint)
	return id, ok
}
