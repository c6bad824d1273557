package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sa-matric/connect/internal/events"
	"github.com/sa-matric/connect/internal/hash"
	"github.com/sa-matric/connect/internal/logging"
	"github.com/sa-matric/connect/internal/models"
	"github.com/sa-matric/connect/internal/repo"
	"github.com/sa-matric/connect/internal/tokens"
)

type AuthService struct {
	Repo       *repo.GormRepo
	Producer   *events.Producer
	Secret     []byte
	SessionTTL time.Duration
}

type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	MatricNumber string
	Province     string
	School       string
}

type LoginResult struct {
	User     *models.User
	Token    string
	TokenExp time.Time
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("email, password, first and last name are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		MatricNumber: in.MatricNumber,
		Province:     in.Province,
		School:       in.School,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "status", 400, "reason", "email already registered")
			return nil, ErrEmailTaken
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	token, exp, err := tokens.Issue(user.ID, user.Email, s.Secret, s.SessionTTL)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publishUserEvent(ctx, "user_registered", user)
	l.Info("register_successful", "user_id", user.ID)

	return &LoginResult{User: user, Token: token, TokenExp: exp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Same failure as a wrong password so the response never
			// reveals whether the address is registered.
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := tokens.Issue(user.ID, user.Email, s.Secret, s.SessionTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publishUserEvent(ctx, "user_logged_in", user)
	l.Info("login_successful", "user_id", user.ID)

	return &LoginResult{User: user, Token: token, TokenExp: exp}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publishUserEvent(ctx context.Context, kind string, user *models.User) {
	event := map[string]any{
		"type":    kind,
		"user_id": user.ID,
		"email":   user.Email,
	}
	if err := s.Producer.Publish(ctx, events.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", kind, "error", err)
	}
}
