package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shorturl-go/internal/ratelimit"
	"shorturl-go/internal/service"
)

// LinkController exposes the shorten, redirect and analytics endpoints.
type LinkController struct {
	links     service.LinkService
	analytics service.AnalyticsService
}

// NewLinkController registers the routes on e. The redirect route sits at
// the root so short URLs stay short.
func NewLinkController(e *echo.Echo, links service.LinkService, analytics service.AnalyticsService) *LinkController {
	controller := &LinkController{
		links:     links,
		analytics: analytics,
	}

	e.POST("/shorten", controller.Shorten)
	e.GET("/analytics/:shortCode", controller.Analytics)
	e.GET("/:shortCode", controller.Redirect)

	return controller
}

// Shorten creates a short link for the submitted URL.
func (c *LinkController) Shorten(ctx echo.Context) error {
	var req ShortenRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.OriginalURL == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "original_url is required"})
	}

	shortURL, err := c.links.CreateShortLink(ctx.Request().Context(), req.OriginalURL, req.CustomAlias)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAliasConflict):
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Custom alias already in use"})
		case errors.Is(err, service.ErrInvalidURL):
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "original_url must be an absolute http(s) URL"})
		default:
			return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"short_url": shortURL})
}

// Redirect resolves a short code and issues a temporary redirect.
func (c *LinkController) Redirect(ctx echo.Context) error {
	shortCode := ctx.Param("shortCode")

	originalURL, err := c.links.ResolveShortLink(
		ctx.Request().Context(),
		shortCode,
		ctx.RealIP(),
		ctx.Request().Referer(),
		ctx.Request().UserAgent(),
	)
	if err != nil {
		var rlErr *ratelimit.Error
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Short code not found"})
		case errors.As(err, &rlErr):
			// Alias and client scopes look identical to the caller.
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
		default:
			return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return ctx.Redirect(http.StatusTemporaryRedirect, originalURL)
}

// Analytics returns the aggregate click breakdowns for a short code.
func (c *LinkController) Analytics(ctx echo.Context) error {
	shortCode := ctx.Param("shortCode")

	summary, err := c.analytics.Summarize(ctx.Request().Context(), shortCode)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "Short URL not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, summary)
}
