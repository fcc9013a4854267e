package auth

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
	"github.com/learnhubhq/learnhub/internal/config"
	"github.com/learnhubhq/learnhub/internal/mailer"
	"github.com/learnhubhq/learnhub/internal/media"
	"github.com/learnhubhq/learnhub/internal/user"
)

// Handler orchestrates the credential store, hashing, token issuance, mail
// and media collaborators behind the /user endpoints.
type Handler struct {
	store  user.Store
	tokens *Tokens
	mail   mailer.Sender
	media  media.Uploader
	cfg    *config.Config
}

func NewHandler(store user.Store, tokens *Tokens, mail mailer.Sender, uploader media.Uploader, cfg *config.Config) *Handler {
	return &Handler{store: store, tokens: tokens, mail: mail, media: uploader, cfg: cfg}
}

type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register creates the user, optionally stores an uploaded avatar, and logs
// the user in by issuing a session token.
//
// POST /api/v1/user/register
func (h *Handler) Register(c echo.Context) error {
	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		return apperr.New(http.StatusBadRequest, "All fields are required")
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperr.New(http.StatusBadRequest, "All fields are required")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "User registration failed, please try again")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u := &user.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: hashed,
		Role:         user.RoleUser,
		Avatar:       user.Avatar{PublicID: email},
	}

	ctx := c.Request().Context()
	if err := h.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return apperr.New(http.StatusBadRequest, "Email already exists, please login")
		}
		return apperr.New(http.StatusInternalServerError, "User registration failed, please try again")
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		asset, err := h.uploadAvatar(c, file)
		if err != nil {
			return err
		}
		u.Avatar = user.Avatar{PublicID: asset.PublicID, URL: asset.URL}
		if err := h.store.UpdateAvatar(ctx, u.ID, u.Avatar); err != nil {
			return apperr.New(http.StatusInternalServerError, "User registration failed, please try again")
		}
	}

	token, err := h.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return apperr.New(http.StatusInternalServerError, "Token generation failed")
	}
	c.SetCookie(h.cfg.SessionCookie(token))

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    u,
	})
}

func (h *Handler) uploadAvatar(c echo.Context, file *multipart.FileHeader) (media.Asset, error) {
	src, err := file.Open()
	if err != nil {
		return media.Asset{}, apperr.New(http.StatusInternalServerError, "File not uploaded, please try again")
	}
	defer src.Close()

	asset, err := h.media.Upload(c.Request().Context(), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		return media.Asset{}, apperr.New(http.StatusInternalServerError, "File not uploaded, please try again")
	}
	return asset, nil
}
