package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub/internal/user"
)

const userContextKey = "auth.user"

// SetCurrentUser stores the resolved identity on the request context.
func SetCurrentUser(c echo.Context, u *user.User) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the identity resolved by the auth middleware, or nil.
func CurrentUser(c echo.Context) *user.User {
	u, _ := c.Get(userContextKey).(*user.User)
	return u
}
