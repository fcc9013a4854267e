package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/apperr"
	"github.com/learnhubhq/learnhub/internal/auth"
	"github.com/learnhubhq/learnhub/internal/user"
)

// RequireAuth validates the session token carried by the `token` cookie or a
// bearer Authorization header. Verification always re-resolves the user from
// the store, so removing a record revokes every outstanding token for it.
func RequireAuth(tokens *auth.Tokens, store user.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := tokenFromRequest(c)
			if tokenString == "" {
				return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
			}

			u, err := store.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
			}

			auth.SetCurrentUser(c, u)
			return next(c)
		}
	}
}

// RequireRoles allows the request through only when the authenticated user's
// role is in the allow set. Must run after RequireAuth.
func RequireRoles(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := auth.CurrentUser(c)
			if u == nil {
				return apperr.New(http.StatusUnauthorized, "Unauthenticated, please login again")
			}
			for _, r := range roles {
				if u.Role == r {
					return next(c)
				}
			}
			return apperr.New(http.StatusForbidden, "You do not have permission to access this route")
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
