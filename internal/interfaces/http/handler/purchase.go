package handler

import (
	"strconv"

	"github.com/eletroerp/backend/internal/application/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase endpoints
type PurchaseHandler struct {
	BaseHandler
	registration *purchasing.RegistrationService
	receiving    *purchasing.ReceivingService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(registration *purchasing.RegistrationService, receiving *purchasing.ReceivingService) *PurchaseHandler {
	return &PurchaseHandler{
		registration: registration,
		receiving:    receiving,
	}
}

// Register handles POST /purchases
func (h *PurchaseHandler) Register(c *gin.Context) {
	var req purchasing.RegisterPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// GetByID handles GET /purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	response, err := h.receiving.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	filter := buildFilter(c)

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID")
			return
		}
		filter.Filters["supplier_id"] = id
	}

	result, err := h.receiving.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Receive handles POST /purchases/:id/receive
func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	var req purchasing.ReceiveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	response, err := h.receiving.Receive(c.Request.Context(), id, req.ReceivedDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// ReceivePartial handles POST /purchases/:id/receive-partial
func (h *PurchaseHandler) ReceivePartial(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	var req purchasing.ReceivePartialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.receiving.ReceivePartial(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// ReceiveWithAssociations handles POST /purchases/:id/receive-with-associations
func (h *PurchaseHandler) ReceiveWithAssociations(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	var req purchasing.ReceiveWithAssociationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.receiving.ReceiveWithAssociations(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Cancel handles POST /purchases/:id/cancel
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	var req purchasing.CancelPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.receiving.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.GET("", h.List)
		purchases.GET(":id", h.GetByID)
		purchases.POST("", h.Register)
		purchases.POST(":id/receive", h.Receive)
		purchases.POST(":id/receive-partial", h.ReceivePartial)
		purchases.POST(":id/receive-with-associations", h.ReceiveWithAssociations)
		purchases.POST(":id/cancel", h.Cancel)
	}
}

// buildFilter builds a shared.Filter from common query parameters
func buildFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	filter.Search = c.Query("search")
	return filter
}
