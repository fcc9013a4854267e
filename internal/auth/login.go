package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login verifies the credentials and issues a session token. Every failure
// collapses into the same generic message so the response never reveals
// whether the email or the password was wrong.
//
// POST /api/v1/user/login
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil || req.Email == "" || req.Password == "" {
		return apperr.New(http.StatusBadRequest, "Invalid credentials")
	}

	u, err := h.store.GetByEmail(c.Request().Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return apperr.New(http.StatusBadRequest, "Invalid credentials")
	}
	if !VerifyPassword(req.Password, u.PasswordHash) {
		return apperr.New(http.StatusBadRequest, "Invalid credentials")
	}

	token, err := h.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Token generation failed")
	}
	c.SetCookie(h.cfg.SessionCookie(token))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

// Logout clears the client-held token; the token itself stays valid until
// expiry, there is no server-side revocation beyond deleting the user.
//
// GET /api/v1/user/logout
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.cfg.ExpiredSessionCookie())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged out successfully",
	})
}

// Me returns the authenticated user's record.
//
// GET /api/v1/user/me
func (h *Handler) Me(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User details",
		"user":    u,
	})
}
