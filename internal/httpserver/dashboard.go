package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sa-matric/connect/internal/logging"
	"github.com/sa-matric/connect/internal/middleware"
	"github.com/sa-matric/connect/internal/service"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

type updateApplicationRequest struct {
	ApplicationID uint `json:"applicationId"`
	Completed     bool `json:"completed"`
}

func (h *DashboardHTTP) Data(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.data")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
	}

	summary, err := h.Svc.GetSummary(ctx, userID)
	if err != nil {
		l.Error("summary_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *DashboardHTTP) Applications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.applications")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
	}

	apps, err := h.Svc.ListApplications(ctx, userID)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}

	return c.JSON(http.StatusOK, echo.Map{"applications": apps})
}

func (h *DashboardHTTP) UpdateApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.update_application")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
	}

	var req updateApplicationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
	}
	if req.ApplicationID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "validation_error")
	}

	if err := h.Svc.SetApplicationStatus(ctx, userID, req.ApplicationID, req.Completed); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "application_not_found")
		}
		l.Error("update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal_error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
