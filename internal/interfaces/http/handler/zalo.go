package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tradesphere/antiscam/internal/application/chat"
	"github.com/tradesphere/antiscam/internal/application/notify"
	"github.com/tradesphere/antiscam/internal/domain/shared"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
	"github.com/tradesphere/antiscam/internal/interfaces/http/dto"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
)

// SignatureHeader carries the webhook payload signature.
const SignatureHeader = "X-Zalo-Signature"

// FollowerLister fetches follower pages from the messaging platform.
type FollowerLister interface {
	GetFollowers(ctx context.Context, offset, count int) (*zalo.FollowerPage, error)
}

// ZaloHandler serves the webhook and the direct messaging endpoints.
type ZaloHandler struct {
	BaseHandler
	webhook       *chat.WebhookService
	broadcast     *notify.BroadcastService
	followers     FollowerLister
	webhookSecret string
	logger        *zap.Logger
}

// NewZaloHandler creates a new ZaloHandler. An empty webhookSecret skips
// signature verification.
func NewZaloHandler(
	webhook *chat.WebhookService,
	broadcast *notify.BroadcastService,
	followers FollowerLister,
	webhookSecret string,
	logger *zap.Logger,
) *ZaloHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZaloHandler{
		webhook:       webhook,
		broadcast:     broadcast,
		followers:     followers,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// RegisterRoutes registers the messaging routes
func (h *ZaloHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/zalo")
	group.POST("/webhook", h.Webhook)
	group.POST("/send", h.Send)
	group.GET("/followers", h.Followers)
}

// Webhook handles POST /zalo/webhook. The platform treats any non-2xx
// answer as undelivered and retries, so handler failures are logged and
// the endpoint still answers ok.
func (h *ZaloHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if h.webhookSecret != "" {
		signature := c.GetHeader(SignatureHeader)
		if !zalo.VerifySignature(h.webhookSecret, payload, signature) {
			h.logger.Warn("webhook signature rejected", zap.String("remote", c.ClientIP()))
			h.Unauthorized(c, dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
			return
		}
	}

	var event zalo.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed webhook payload")
		return
	}

	if err := h.webhook.HandleEvent(c.Request.Context(), &event); err != nil {
		h.logger.Error("webhook event handling failed",
			zap.String("event", event.EventName),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SendRequest is a direct message to one platform user.
type SendRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required,max=2000"`
}

// SendResponse reports the delivery outcome.
type SendResponse struct {
	UserID    string `json:"user_id"`
	Delivered bool   `json:"delivered"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error,omitempty"`
}

// Send handles POST /zalo/send
func (h *ZaloHandler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	outcome := h.broadcast.SendDirect(c.Request.Context(), req.UserID, req.Message)

	resp := SendResponse{
		UserID:    outcome.RecipientID,
		Delivered: outcome.Succeeded(),
		Attempts:  outcome.Attempts,
		Error:     outcome.ErrorReason,
	}
	if !outcome.Succeeded() {
		c.JSON(http.StatusBadGateway, dto.Response{
			Success: false,
			Data:    resp,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeDeliveryFailed,
				Message:   "Message could not be delivered",
				RequestID: getRequestID(c),
			},
		})
		return
	}
	h.Success(c, resp)
}

// Followers handles GET /zalo/followers?offset=&count=
func (h *ZaloHandler) Followers(c *gin.Context) {
	var query struct {
		Offset int `form:"offset" binding:"omitempty,gte=0"`
		Count  int `form:"count" binding:"omitempty,gte=1,max=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.followers.GetFollowers(c.Request.Context(), query.Offset, query.Count)
	if err != nil {
		h.HandleError(c, zaloError(err))
		return
	}
	h.Success(c, page)
}

// zaloError maps gateway errors onto domain errors so HandleError picks
// the right status.
func zaloError(err error) error {
	var gatewayErr *zalo.GatewayError
	if !errors.As(err, &gatewayErr) {
		return err
	}
	if gatewayErr.Code == zalo.CodeQuotaExceeded {
		return shared.ErrUpstreamRateLimited
	}
	return shared.ErrDeliveryFailed
}
