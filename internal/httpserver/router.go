package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/sa-matric/connect/internal/middleware"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	DashboardHandler *DashboardHTTP
	SearchHandler    *SearchHTTP
	Auth             *middleware.Auth
	StaticDir        string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.POST("/api/register", d.AuthHandler.Register)
	e.POST("/api/login", d.AuthHandler.Login)
	e.POST("/api/logout", d.AuthHandler.Logout)

	api := e.Group("/api", d.Auth.RequireAuth)
	api.GET("/me", d.AuthHandler.Me)
	api.GET("/dashboard/data", d.DashboardHandler.Data)
	api.GET("/dashboard/applications", d.DashboardHandler.Applications)
	api.POST("/dashboard/application/update", d.DashboardHandler.UpdateApplication)

	if d.SearchHandler != nil {
		api.GET("/deadlines/search", d.SearchHandler.Deadlines)
	}

	pages := e.Group("", d.Auth.RequireLogin)
	pages.GET("/home", func(c echo.Context) error {
		return c.File(filepath.Join(d.StaticDir, "home.html"))
	})

	e.Static("/", d.StaticDir)
}
