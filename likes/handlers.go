package likes

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/kudos/ratelimit"
)

// Handler exposes the like API over HTTP.
type Handler struct {
	service *Service
	gate    *ratelimit.Window
}

// NewHandler creates a like handler. Both endpoints share a quota of 30
// requests per client per minute.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		gate:    ratelimit.NewWindow(30, time.Minute),
	}
}

// Close stops the rate limiter's sweeper.
func (h *Handler) Close() {
	h.gate.Close()
}

// clientKey buckets requests by the first forwarded address. Requests
// without the header all share one "unknown" bucket, so traffic reaching
// the service without a proxy in front shares a single quota.
func clientKey(c echo.Context) string {
	fwd := c.Request().Header.Get("X-Forwarded-For")
	if fwd == "" {
		return "unknown"
	}
	if i := strings.IndexByte(fwd, ','); i >= 0 {
		fwd = fwd[:i]
	}
	return strings.TrimSpace(fwd)
}

// ToggleRequest is the POST body for the toggle endpoint.
type ToggleRequest struct {
	Slug   string `json:"slug"`
	UserID string `json:"userId"`
}

// Get reports the like count for a post and whether the given user has
// liked it. The quota check runs before validation, and validation runs
// before any store access.
func (h *Handler) Get(c echo.Context) error {
	if !h.gate.Allow(clientKey(c)) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
	}

	slug := c.QueryParam("slug")
	if !ValidSlug(slug) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid slug"})
	}
	userID := c.QueryParam("userId")
	if userID != "" && !ValidUserID(userID) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	if !h.service.Enabled() {
		return c.JSON(http.StatusOK, LikeStatus{Disabled: true})
	}

	status, err := h.service.Status(c.Request().Context(), slug, userID)
	if err != nil {
		c.Logger().Errorf("likes: status %s: %v", slug, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load likes"})
	}
	return c.JSON(http.StatusOK, status)
}

// Toggle flips the calling user's like on a post and reports the new
// count and membership.
func (h *Handler) Toggle(c echo.Context) error {
	if !h.gate.Allow(clientKey(c)) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
	}

	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if !ValidSlug(req.Slug) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid slug"})
	}
	if !ValidUserID(req.UserID) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	if !h.service.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Likes are disabled"})
	}

	status, err := h.service.Toggle(c.Request().Context(), req.Slug, req.UserID)
	if err != nil {
		c.Logger().Errorf("likes: toggle %s: %v", req.Slug, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save like"})
	}
	return c.JSON(http.StatusOK, status)
}

// RegisterRoutes registers the like API on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/likes", h.Get)
	g.POST("/likes", h.Toggle)
}
