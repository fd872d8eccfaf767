package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tradesphere/antiscam/internal/application/notify"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
)

// NotificationHandler serves the operator broadcast endpoint.
type NotificationHandler struct {
	BaseHandler
	broadcast *notify.BroadcastService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(broadcast *notify.BroadcastService) *NotificationHandler {
	return &NotificationHandler{broadcast: broadcast}
}

// RegisterRoutes registers the notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/notifications")
	group.POST("/broadcast", h.Broadcast)
}

// BroadcastRequest is an operator-initiated follower broadcast.
type BroadcastRequest struct {
	Title    string `json:"title" binding:"omitempty,max=255"`
	Message  string `json:"message" binding:"required,max=2000"`
	Audience string `json:"audience" binding:"omitempty,oneof=all tips alert"`
}

// BroadcastResponse reports delivery tallies.
type BroadcastResponse struct {
	Recipients int `json:"recipients"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
}

// Broadcast handles POST /notifications/broadcast
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	report, err := h.broadcast.Broadcast(c.Request.Context(), req.Title, req.Message, req.Audience)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, BroadcastResponse{
		Recipients: len(report.Outcomes),
		Succeeded:  report.Succeeded,
		Failed:     report.Failed,
	})
}
