package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

const ctxKeyLogger = "revlines-logger"

// setLogger stores a request-scoped logger carrying the request id, the
// route and, for file routes, the file name.
func setLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			attrs := []any{
				slog.String("req_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("route", c.Path()),
			}
			if name := c.Param("name"); name != "" {
				attrs = append(attrs, slog.String("file", name))
			}
			c.Set(ctxKeyLogger, logger.With(attrs...))
			return next(c)
		}
	}
}

func getLogger(c echo.Context) *slog.Logger {
	l, ok := c.Get(ctxKeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}
