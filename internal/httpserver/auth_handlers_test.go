package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa-matric/connect/internal/tokens"
)

// Full session lifecycle: register, login, read the profile through the
// cookie, log out, and get rejected afterwards.
func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	recReg := registerAlice(env)
	require.Equal(t, http.StatusCreated, recReg.Code)
	body := decodeBody(t, recReg)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	sessionCookie(t, recReg)

	recLogin := env.do(http.MethodPost, "/api/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, recLogin.Code)
	ck := sessionCookie(t, recLogin)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	recMe := env.do(http.MethodGet, "/api/me", nil, ck)
	require.Equal(t, http.StatusOK, recMe.Code)
	me := decodeBody(t, recMe)["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotZero(t, me["id"])

	recLogout := env.do(http.MethodPost, "/api/logout", nil, ck)
	require.Equal(t, http.StatusOK, recLogout.Code)
	cleared := false
	for _, c := range recLogout.Result().Cookies() {
		if c.Name == tokens.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must clear the session cookie")

	// The old cookie is self-contained and still verifies, but a client that
	// honored the deletion no longer sends it.
	recAfter := env.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, recAfter.Code)
	assert.Equal(t, "not_authenticated", decodeBody(t, recAfter)["error"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, registerAlice(env).Code)

	rec := env.do(http.MethodPost, "/api/register", map[string]string{
		"email":     "ALICE@example.com",
		"password":  "DifferentPass1",
		"firstName": "Alice",
		"lastName":  "Doe",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email_taken", decodeBody(t, rec)["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/register", map[string]string{
		"email": "incomplete@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeBody(t, rec)["error"])
}

func TestLogin_InvalidCredentialsShape(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, registerAlice(env).Code)

	recWrong := env.do(http.MethodPost, "/api/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	recUnknown := env.do(http.MethodPost, "/api/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Secret123!",
	})

	require.Equal(t, http.StatusUnauthorized, recWrong.Code)
	require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	// Identical body for both failures: no user enumeration.
	assert.Equal(t, recWrong.Body.String(), recUnknown.Body.String())
}

func TestMe_BearerHeaderFallback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	recReg := registerAlice(env)
	require.Equal(t, http.StatusCreated, recReg.Code)
	ck := sessionCookie(t, recReg)

	req := env.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, req.Code)

	rec := env.doBearer(http.MethodGet, "/api/me", ck.Value)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
