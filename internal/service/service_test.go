package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sa-matric/connect/internal/models"
	"github.com/sa-matric/connect/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.ActivityEntry{},
		&models.Deadline{},
	))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:       newTestRepo(t),
		Secret:     []byte("test-session-secret"),
		SessionTTL: time.Hour,
	}
}
