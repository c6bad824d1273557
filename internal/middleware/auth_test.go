package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa-matric/connect/internal/tokens"
)

var testSecret = []byte("test-session-secret")

func newContext(t *testing.T, cookie *http.Cookie, bearer string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	t.Parallel()

	token, _, err := tokens.Issue(7, "a@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	c, rec := newContext(t, &http.Cookie{Name: tokens.CookieName, Value: token}, "")
	mw := NewAuth(testSecret, false)

	require.NoError(t, mw.RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	id, ok := UserID(c)
	require.True(t, ok)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "a@example.com", c.Get(CtxEmail))
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	t.Parallel()

	token, _, err := tokens.Issue(9, "b@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	c, rec := newContext(t, nil, token)
	mw := NewAuth(testSecret, false)

	require.NoError(t, mw.RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	c, _ := newContext(t, nil, "")
	mw := NewAuth(testSecret, false)

	err := mw.RequireAuth(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_InvalidTokenClearsCookie(t *testing.T) {
	t.Parallel()

	c, rec := newContext(t, &http.Cookie{Name: tokens.CookieName, Value: "garbage"}, "")
	mw := NewAuth(testSecret, false)

	err := mw.RequireAuth(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.CookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected the session cookie to be cleared")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	token, _, err := tokens.Issue(7, "a@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	c, _ := newContext(t, &http.Cookie{Name: tokens.CookieName, Value: token}, "")
	mw := NewAuth(testSecret, false)

	err = mw.RequireAuth(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLogin_RedirectsToLoginPage(t *testing.T) {
	t.Parallel()

	mw := NewAuth(testSecret, false)

	c, rec := newContext(t, nil, "")
	require.NoError(t, mw.RequireLogin(okHandler)(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginPage, rec.Header().Get(echo.HeaderLocation))

	c, rec = newContext(t, &http.Cookie{Name: tokens.CookieName, Value: "garbage"}, "")
	require.NoError(t, mw.RequireLogin(okHandler)(c))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequireLogin_ValidSessionContinues(t *testing.T) {
	t.Parallel()

	token, _, err := tokens.Issue(3, "c@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	c, rec := newContext(t, &http.Cookie{Name: tokens.CookieName, Value: token}, "")
	mw := NewAuth(testSecret, false)

	require.NoError(t, mw.RequireLogin(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
