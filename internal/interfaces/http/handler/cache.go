package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
)

// CacheHandler exposes result cache administration.
type CacheHandler struct {
	BaseHandler
	cache scamcheck.ResultCache
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(cache scamcheck.ResultCache) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// RegisterRoutes registers the cache admin routes
func (h *CacheHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cache := rg.Group("/cache")
	cache.GET("/stats", h.Stats)
	cache.DELETE("/clear", h.Clear)
}

// Stats handles GET /cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	stats, err := h.cache.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ClearResponse reports how many cache entries were removed.
type ClearResponse struct {
	Cleared int    `json:"cleared"`
	Pattern string `json:"pattern,omitempty"`
}

// Clear handles DELETE /cache/clear?pattern=. An empty pattern clears the
// whole lookup namespace.
func (h *CacheHandler) Clear(c *gin.Context) {
	pattern := c.Query("pattern")

	cleared, err := h.cache.ClearPattern(c.Request.Context(), pattern)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ClearResponse{Cleared: cleared, Pattern: pattern})
}
