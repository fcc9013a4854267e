package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// ForgotPassword starts the reset flow: a one-time random token is generated,
// its hash stored with an expiry, and the plaintext mailed to the user. If the
// mail cannot be sent the stored token is rolled back before the failure is
// surfaced, so no unreachable token stays outstanding.
//
// POST /api/v1/user/reset
func (h *Handler) ForgotPassword(c echo.Context) error {
	req := new(ForgotPasswordRequest)
	if err := c.Bind(req); err != nil || req.Email == "" {
		return apperr.New(http.StatusBadRequest, "Email is required")
	}

	ctx := c.Request().Context()
	u, err := h.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return apperr.New(http.StatusBadRequest, "Email not registered")
	}

	token, tokenHash, err := GenerateResetToken()
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}

	expiry := time.Now().Add(h.cfg.ResetTokenTTL)
	if err := h.store.SetResetToken(ctx, u.ID, tokenHash, expiry); err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}

	resetURL := fmt.Sprintf("%s/user/profile/reset-password/%s", h.cfg.ClientURL, token)
	subject := "Reset Password"
	message := fmt.Sprintf("You can reset your password by clicking %s.\n"+
		"If the above link does not work, copy-paste this link into a new tab %s.\n"+
		"If you did not request this, kindly ignore.", resetURL, resetURL)

	if err := h.mail.Send(u.Email, subject, message); err != nil {
		if clearErr := h.store.ClearResetToken(ctx, u.ID); clearErr != nil {
			c.Logger().Errorf("clear reset token for %s: %v", u.ID, clearErr)
		}
		return apperr.New(http.StatusInternalServerError, "Failed to send reset email, please try again")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("Reset password token has been sent to %s", u.Email),
	})
}

type ResetPasswordRequest struct {
	Password string `json:"password" form:"password"`
}

// ResetPassword exchanges a reset token for a password change. The lookup
// requires both a hash match and an unexpired window; the completing update
// clears the token so a second attempt with the same token fails.
//
// POST /api/v1/user/reset/:resetToken
func (h *Handler) ResetPassword(c echo.Context) error {
	resetToken := c.Param("resetToken")
	req := new(ResetPasswordRequest)
	if err := c.Bind(req); err != nil || req.Password == "" {
		return apperr.New(http.StatusBadRequest, "Password is required")
	}

	ctx := c.Request().Context()
	u, err := h.store.GetByResetToken(ctx, HashResetToken(resetToken))
	if err != nil {
		return apperr.New(http.StatusBadRequest, "Token is invalid or expired, please try again")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}
	if err := h.store.CompleteReset(ctx, u.ID, hashed); err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// ChangePassword rotates the password of the authenticated user after
// re-verifying the old one.
//
// POST /api/v1/user/change-password
func (h *Handler) ChangePassword(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
	}

	req := new(ChangePasswordRequest)
	if err := c.Bind(req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return apperr.New(http.StatusBadRequest, "All fields are required")
	}

	if !VerifyPassword(req.OldPassword, u.PasswordHash) {
		return apperr.New(http.StatusBadRequest, "Invalid old password")
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}
	if err := h.store.UpdatePassword(c.Request().Context(), u.ID, hashed); err != nil {
		return apperr.New(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}
