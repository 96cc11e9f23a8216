// Package handler contains the HTTP layer: request binding, input
// validation and the mapping of workflow results onto the uniform response
// envelope. Business rules live below, in internal/auth and the
// repositories.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform response shape: {ok, result?, error?}. Domain
// failures keep their message identity in Error while the HTTP status
// carries the class of failure.
type envelope struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func respondOK(c echo.Context, result any) error {
	return c.JSON(http.StatusOK, envelope{OK: true, Result: result})
}

func respondErr(c echo.Context, status int, err error) error {
	return c.JSON(status, envelope{OK: false, Error: err.Error()})
}
