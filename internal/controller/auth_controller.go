package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shorturl-go/internal/auth"
)

// AuthController exposes the token endpoints for the management surface.
// Nothing on the shorten/redirect/analytics paths requires a token.
type AuthController struct {
	tokens *auth.TokenService
}

func NewAuthController(e *echo.Echo, tokens *auth.TokenService) *AuthController {
	controller := &AuthController{tokens: tokens}

	group := e.Group("/api/v1/auth")
	group.POST("/login", controller.Login)
	group.POST("/refresh", controller.Refresh)
	group.POST("/logout", controller.Logout)
	group.GET("/me", controller.Me)

	return controller
}

func (c *AuthController) Login(ctx echo.Context) error {
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	pair, err := c.tokens.Login(ctx.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, pair)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	refreshToken := ctx.FormValue("refresh_token")

	pair, err := c.tokens.Refresh(ctx.Request().Context(), refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return ctx.JSON(http.StatusForbidden, map[string]string{"error": "Invalid or expired refresh token"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, pair)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	username := ctx.FormValue("username")
	if err := c.tokens.Logout(ctx.Request().Context(), username); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (c *AuthController) Me(ctx echo.Context) error {
	token := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing bearer token"})
	}

	username, err := c.tokens.Authenticate(token)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
	}

	return ctx.JSON(http.StatusOK, map[string]string{"username": username})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
