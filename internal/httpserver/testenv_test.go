package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sa-matric/connect/internal/middleware"
	"github.com/sa-matric/connect/internal/models"
	"github.com/sa-matric/connect/internal/repo"
	"github.com/sa-matric/connect/internal/service"
	"github.com/sa-matric/connect/internal/tokens"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.ActivityEntry{},
		&models.Deadline{},
	))

	gormRepo := &repo.GormRepo{DB: db}
	secret := []byte("test-session-secret")

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(false)

	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:       gormRepo,
				Secret:     secret,
				SessionTTL: time.Hour,
			},
		},
		DashboardHandler: &DashboardHTTP{
			Svc: &service.DashboardService{Repo: gormRepo},
		},
		Auth:      middleware.NewAuth(secret, false),
		StaticDir: t.TempDir(),
	})

	return &testEnv{T: t, E: e, Repo: gormRepo}
}

func (env *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doBearer(method, path, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerAlice(env *testEnv) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, "/api/register", map[string]string{
		"email":     "alice@example.com",
		"password":  "Secret123!",
		"firstName": "Alice",
		"lastName":  "Doe",
	})
}
