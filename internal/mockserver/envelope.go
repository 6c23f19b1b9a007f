package mockserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// The contract allows two envelope shapes. The user and session handlers
// answer in the legacy numeric-status shape, everything else in the success
// shape, so clients keep tolerating both.

func respondSuccess(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondSuccessMessage(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondError(c echo.Context, code int, message, hint string) error {
	body := map[string]any{
		"success": false,
		"message": message,
	}
	if hint != "" {
		body["error"] = map[string]string{"message": message, "hint": hint}
	}
	return c.JSON(code, body)
}

func respondLegacy(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  0,
		"message": message,
		"data":    data,
	})
}

func respondLegacyError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]any{
		"status":  1,
		"message": message,
	})
}
