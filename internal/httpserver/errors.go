package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sa-matric/connect/internal/logging"
)

// ErrorHandler renders every failure as {"error": "<stable string>"}.
// Anything that is not an echo.HTTPError is an infrastructure failure;
// its detail stays in the log outside development mode.
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal_error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		} else {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
			if development {
				msg = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
