package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
)

// ListUsers returns every registered user. Admin only; the route is guarded
// by the role middleware.
//
// GET /api/v1/user/admin/users
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.store.List(c.Request().Context())
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Failed to fetch users")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}
