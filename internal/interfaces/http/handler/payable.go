package handler

import (
	"github.com/eletroerp/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PayableHandler handles payable account endpoints
type PayableHandler struct {
	BaseHandler
	payables *finance.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payables *finance.PayableService) *PayableHandler {
	return &PayableHandler{payables: payables}
}

// RegisterRoutes registers all payable routes
func (h *PayableHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payables := rg.Group("/payables")
	{
		payables.GET("/open", h.ListOpen)
		payables.GET("/purchase/:id", h.GetByPurchase)
		payables.POST(":id/pay", h.MarkPaid)
	}
}

// ListOpen handles GET /payables/open
func (h *PayableHandler) ListOpen(c *gin.Context) {
	responses, err := h.payables.ListOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// GetByPurchase handles GET /payables/purchase/:id
func (h *PayableHandler) GetByPurchase(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	responses, err := h.payables.GetByPurchase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// MarkPaid handles POST /payables/:id/pay
func (h *PayableHandler) MarkPaid(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payable ID")
		return
	}

	var req finance.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	response, err := h.payables.MarkPaid(c.Request.Context(), id, req.PaidAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}
