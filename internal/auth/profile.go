package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
)

type UpdateUserRequest struct {
	FullName string `json:"fullName" form:"fullName"`
}

// UpdateUser changes the authenticated user's name and/or avatar. Avatar
// replacement uploads the new asset first and only then swaps the reference
// and deletes the old one, so a failed upload never strips the existing
// avatar. The trailing delete is best-effort; a leaked object costs storage,
// not correctness.
//
// POST /api/v1/user/update/:id
func (h *Handler) UpdateUser(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
	}

	req := new(UpdateUserRequest)
	if err := c.Bind(req); err != nil {
		return apperr.New(http.StatusBadRequest, "Invalid request")
	}

	ctx := c.Request().Context()
	if req.FullName != "" {
		if err := h.store.UpdateFullName(ctx, u.ID, req.FullName); err != nil {
			return apperr.New(http.StatusInternalServerError, "Failed to update user")
		}
		u.FullName = req.FullName
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		asset, err := h.uploadAvatar(c, file)
		if err != nil {
			return err
		}

		oldPublicID := u.Avatar.PublicID
		hadAsset := u.Avatar.URL != ""

		u.Avatar.PublicID = asset.PublicID
		u.Avatar.URL = asset.URL
		if err := h.store.UpdateAvatar(ctx, u.ID, u.Avatar); err != nil {
			return apperr.New(http.StatusInternalServerError, "Failed to update user")
		}

		if hadAsset && oldPublicID != "" && oldPublicID != asset.PublicID {
			if err := h.media.Destroy(ctx, oldPublicID); err != nil {
				c.Logger().Errorf("destroy old avatar %s: %v", oldPublicID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    u,
	})
}
