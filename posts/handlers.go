package posts

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the post feed.
type Handler struct {
	cache *Cache
}

func NewHandler(cache *Cache) *Handler {
	return &Handler{cache: cache}
}

// Feed serves the ordered list of published posts.
func (h *Handler) Feed(c echo.Context) error {
	posts, err := h.cache.List()
	if err != nil {
		c.Logger().Errorf("posts: list: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load posts"})
	}
	return c.JSON(http.StatusOK, posts)
}

// RegisterRoutes registers the feed on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/posts.json", h.Feed)
}
