package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// FirebaseAuthMiddleware creates an Echo middleware to verify Firebase ID
// tokens. On success the Firebase UID and email are stored in the context;
// without a valid token the request is rejected.
func FirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			setIdentity(c, token)
			return next(c)
		}
	}
}

// OptionalFirebaseAuthMiddleware verifies a Firebase ID token when one is
// present but lets anonymous requests through. With no identified user the
// like set is empty and no per-user writes happen downstream.
func OptionalFirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}
			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			setIdentity(c, token)
			return next(c)
		}
	}
}

// DevAuthMiddleware substitutes for Firebase in development: the identity is
// taken verbatim from the X-Debug-UID / X-Debug-Email headers. Never wired in
// production; the router only selects it when no Firebase client exists.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := c.Request().Header.Get("X-Debug-UID")
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "X-Debug-UID header is missing")
			}
			c.Set("firebaseUID", uid)
			c.Set("firebaseEmail", c.Request().Header.Get("X-Debug-Email"))
			return next(c)
		}
	}
}

// OptionalDevAuthMiddleware is the anonymous-friendly variant of
// DevAuthMiddleware.
func OptionalDevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := c.Request().Header.Get("X-Debug-UID"); uid != "" {
				c.Set("firebaseUID", uid)
				c.Set("firebaseEmail", c.Request().Header.Get("X-Debug-Email"))
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return tokenParts[1], nil
}

func setIdentity(c echo.Context, token *auth.Token) {
	c.Set("firebaseUID", token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		c.Set("firebaseEmail", email)
	}
}
