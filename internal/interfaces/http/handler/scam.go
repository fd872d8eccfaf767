package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appscamcheck "github.com/tradesphere/antiscam/internal/application/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
)

// ScamHandler serves the scam lookup API.
type ScamHandler struct {
	BaseHandler
	search *appscamcheck.SearchService
}

// NewScamHandler creates a new ScamHandler
func NewScamHandler(search *appscamcheck.SearchService) *ScamHandler {
	return &ScamHandler{search: search}
}

// RegisterRoutes registers the scam lookup routes
func (h *ScamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scams := rg.Group("/scams")
	scams.GET("/search", h.Search)
}

// SearchRequest is the scam lookup query.
type SearchRequest struct {
	Keyword string `form:"keyword" binding:"required,keyword"`
	Type    string `form:"type" binding:"omitempty,oneof=all admin checkscam scam chongluadao"`
}

// SearchResponse wraps the aggregate result with lookup metadata.
type SearchResponse struct {
	Keyword        string                    `json:"keyword"`
	Type           string                    `json:"type"`
	Cached         bool                      `json:"cached"`
	ResponseTimeMs int64                     `json:"response_time_ms"`
	Result         scamcheck.AggregateResult `json:"result"`
}

// Search handles GET /scams/search?keyword=&type=
func (h *ScamHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Type == "" {
		req.Type = scamcheck.ScopeAll
	}

	start := time.Now()
	result, cached, err := h.search.Search(c.Request.Context(), req.Keyword, req.Type, scamcheck.ChannelAPI, "")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SearchResponse{
		Keyword:        result.Keyword,
		Type:           req.Type,
		Cached:         cached,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Result:         *result,
	})
}
