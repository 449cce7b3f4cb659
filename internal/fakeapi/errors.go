package fakeapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// detailResponse is the error envelope every failure is rendered with.
type detailResponse struct {
	Detail string `json:"detail"`
}

func detail(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, msg)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := http.StatusInternalServerError, "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
	} else {
		s.log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
	}
	_ = c.JSON(code, detailResponse{Detail: msg})
}
