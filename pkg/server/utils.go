package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ustclug/revlines/pkg/fs"
)

func (s *Server) getDB(c echo.Context) *gorm.DB {
	return s.db.WithContext(c.Request().Context())
}

func getRequiredParamFromEchoContext(c echo.Context, name string) (string, error) {
	val := c.Param(name)
	if len(val) == 0 {
		return "", badRequest(name + " is required")
	}
	return val, nil
}

// openFile maps fs errors onto HTTP errors.
func (s *Server) openFile(l *slog.Logger, name string) (*fs.File, error) {
	f, err := fs.Open(s.config.LogDir, name)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, fs.ErrInvalidName):
		return nil, badRequest(err.Error())
	case errors.Is(err, os.ErrNotExist):
		return nil, notFound("File not found")
	default:
		const msg = "Fail to open file"
		l.Error(msg, slogErrAttr(err), slog.String("file", name))
		return nil, newHTTPError(http.StatusInternalServerError, msg)
	}
}

func slogErrAttr(err error) slog.Attr {
	return slog.Any("err", err)
}

func bindAndValidate[T any](c echo.Context, input *T) error {
	err := c.Bind(input)
	if err != nil {
		return err
	}
	return c.Validate(input)
}

func badRequest(msg string) error {
	return &echo.HTTPError{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

func notFound(msg string) error {
	return &echo.HTTPError{
		Code:    http.StatusNotFound,
		Message: msg,
	}
}

func newHTTPError(code int, msg string) error {
	return &echo.HTTPError{
		Code:    code,
		Message: msg,
	}
}
