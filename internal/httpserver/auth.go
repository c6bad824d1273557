package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sa-matric/connect/internal/logging"
	"github.com/sa-matric/connect/internal/middleware"
	"github.com/sa-matric/connect/internal/service"
	"github.com/sa-matric/connect/internal/tokens"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Secure bool
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MatricNumber string `json:"matricNumber"`
	Province     string `json:"province"`
	School       string `json:"school"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MatricNumber: req.MatricNumber,
		Province:     req.Province,
		School:       req.School,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
		case errors.Is(err, service.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "email_taken")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
		}
	}

	c.SetCookie(tokens.NewCookie(res.Token, res.TokenExp, h.Secure))
	return c.JSON(http.StatusCreated, echo.Map{"user": res.User})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid_credentials")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
		}
	}

	c.SetCookie(tokens.NewCookie(res.Token, res.TokenExp, h.Secure))
	return c.JSON(http.StatusOK, echo.Map{"user": res.User})
}

// Logout only clears the cookie; tokens are self-contained and expire on
// their own, there is nothing to revoke server-side.
func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(h.Secure))
	logging.FromContext(c.Request().Context()).Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
	}

	user, err := h.Svc.CurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.SetCookie(tokens.DeleteCookie(h.Secure))
			return echo.NewHTTPError(http.StatusNotFound, "user_not_found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
