package handler

import (
	"github.com/eletroerp/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ReconciliationHandler exposes the fractioning reconciliation endpoint
type ReconciliationHandler struct {
	BaseHandler
	fractioning *inventory.FractioningService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(fractioning *inventory.FractioningService) *ReconciliationHandler {
	return &ReconciliationHandler{fractioning: fractioning}
}

// RegisterRoutes registers all reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.POST("/fractioning/reconcile", h.Reconcile)
	}
}

// Reconcile handles POST /inventory/fractioning/reconcile. The operation is
// idempotent, so it can be invoked freely between scheduled runs.
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	result, err := h.fractioning.ReconcilePending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
