package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness. It deliberately touches no dependency so
// orchestrators can distinguish a dead process from a degraded one.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
