package vitals

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler exposes the vitals API over HTTP.
type Handler struct {
	buffer *Buffer
}

func NewHandler(buffer *Buffer) *Handler {
	return &Handler{buffer: buffer}
}

// CollectRequest is the beacon body sent by the client script.
type CollectRequest struct {
	URL       string             `json:"url" validate:"required,max=2048"`
	Vitals    map[string]float64 `json:"vitals" validate:"required,min=1"`
	Timestamp int64              `json:"timestamp" validate:"required"`
	UserAgent string             `json:"userAgent" validate:"omitempty,max=512"`
}

// Collect records one beacon. The user agent falls back to the request
// header when the body omits it.
func (h *Handler) Collect(c echo.Context) error {
	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	ua := req.UserAgent
	if ua == "" {
		ua = c.Request().UserAgent()
	}

	h.buffer.Add(Sample{
		URL:       req.URL,
		Vitals:    req.Vitals,
		Timestamp: req.Timestamp,
		UserAgent: ua,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Stats serves the 24-hour aggregate.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buffer.Summarize(time.Now()))
}

// RegisterRoutes registers the vitals API on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/analytics/vitals", h.Collect)
	g.GET("/analytics/vitals", h.Stats)
}
