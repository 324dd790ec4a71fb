package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// FairnessHandler serves the fairness ledger endpoints.
type FairnessHandler struct {
	fairnessSvc service.FairnessService
}

// NewFairnessHandler constructs a FairnessHandler.
func NewFairnessHandler(fairnessSvc service.FairnessService) *FairnessHandler {
	return &FairnessHandler{fairnessSvc: fairnessSvc}
}

// ListByMember returns one member's current ledger counts.
// GET /api/v1/members/:id/fairness
func (h *FairnessHandler) ListByMember(c *gin.Context) {
	result, err := h.fairnessSvc.ListByMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Recompute discards and rebuilds the ledger snapshot from assignment
// history as of the given date.
// POST /api/v1/fairness/recompute
func (h *FairnessHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeFairnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	n, err := h.fairnessSvc.Recompute(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"rows_written": n})
}
