package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/models"
)

// currentUser reads the identity the auth middleware stored in the context.
// The boolean is false for anonymous requests (optional-auth routes).
func currentUser(c echo.Context) (models.User, bool) {
	uid, ok := c.Get("firebaseUID").(string)
	if !ok || uid == "" {
		return models.User{}, false
	}
	email, _ := c.Get("firebaseEmail").(string)
	return models.User{UID: uid, Email: email}, true
}
