package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appreport "github.com/tradesphere/antiscam/internal/application/report"
	"github.com/tradesphere/antiscam/internal/domain/report"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// ReportHandler serves community report intake and moderation.
type ReportHandler struct {
	BaseHandler
	reports *appreport.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appreport.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/reports")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/stats", h.Stats)
	group.GET("/:id", h.Get)
	group.POST("/:id/verify", h.Verify)
	group.POST("/:id/reject", h.Reject)
}

// CreateReportRequest is a community report submission.
type CreateReportRequest struct {
	ScamType      string  `json:"scam_type" binding:"required,max=100"`
	ScammerName   string  `json:"scammer_name" binding:"omitempty,max=200"`
	PhoneNumber   string  `json:"phone_number" binding:"omitempty,max=20"`
	BankAccount   string  `json:"bank_account" binding:"omitempty,max=32"`
	BankName      string  `json:"bank_name" binding:"omitempty,max=100"`
	Amount        float64 `json:"amount" binding:"omitempty,gte=0"`
	Description   string  `json:"description" binding:"omitempty,max=5000"`
	ReporterPhone string  `json:"reporter_phone" binding:"omitempty,max=20"`
}

// Create handles POST /reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	rec, err := h.reports.Submit(c.Request.Context(), appreport.SubmitInput{
		ScamType:      req.ScamType,
		ScammerName:   req.ScammerName,
		PhoneNumber:   req.PhoneNumber,
		BankAccount:   req.BankAccount,
		BankName:      req.BankName,
		Description:   req.Description,
		ReporterPhone: req.ReporterPhone,
		Amount:        decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// ListReportsRequest filters the moderation queue.
type ListReportsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING VERIFIED REJECTED"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,max=200"`
}

// List handles GET /reports?status=&limit=
func (h *ReportHandler) List(c *gin.Context) {
	var req ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Status == "" {
		req.Status = report.ReportStatusPending.String()
	}

	records, err := h.reports.List(c.Request.Context(), report.ReportStatus(req.Status), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Get handles GET /reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	rec, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Verify handles POST /reports/:id/verify
func (h *ReportHandler) Verify(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	rec, err := h.reports.Verify(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Reject handles POST /reports/:id/reject
func (h *ReportHandler) Reject(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	rec, err := h.reports.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Stats handles GET /reports/stats
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

func (h *ReportHandler) reportID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}
