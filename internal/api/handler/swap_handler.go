package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/scheduling"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// SwapHandler serves the swap/reassign workflow endpoints.
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler constructs a SwapHandler.
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// Create proposes replacing the assignee of an active assignment.
// POST /api/v1/swaps
func (h *SwapHandler) Create(c *gin.Context) {
	requestedBy, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.swapSvc.Create(c.Request.Context(), &req, requestedBy)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotActive) {
			response.BadRequest(c, 15001, "assignment is not active")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// DecideAsPeer records the proposed member's accept/reject decision.
// POST /api/v1/swaps/:id/peer-decision
func (h *SwapHandler) DecideAsPeer(c *gin.Context) {
	var req dto.SwapDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.swapSvc.DecideAsPeer(c.Request.Context(), c.Param("id"), req.Accept)
	if err != nil {
		h.handleDecisionError(c, err)
		return
	}
	response.OK(c, result)
}

// DecideAsAdmin records the admin's accept/reject decision. If both
// sides accepted, applying the swap runs eligibility checks against the
// same rules a generation uses.
// POST /api/v1/swaps/:id/admin-decision
func (h *SwapHandler) DecideAsAdmin(c *gin.Context) {
	adminID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.SwapDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.swapSvc.DecideAsAdmin(c.Request.Context(), c.Param("id"), req.Accept, adminID)
	if err != nil {
		var violation *scheduling.ConstraintViolation
		if errors.As(err, &violation) {
			response.BadRequest(c, 15005, "proposed member fails eligibility: "+violation.Constraint)
			return
		}
		h.handleDecisionError(c, err)
		return
	}
	response.OK(c, result)
}

// ListPending paginates swaps awaiting a decision.
// GET /api/v1/swaps
func (h *SwapHandler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	swaps, total, err := h.swapSvc.ListPending(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, swaps, total, page, pageSize)
}

func (h *SwapHandler) handleDecisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSwapNotFound):
		response.NotFound(c, 20004, "swap not found")
	case errors.Is(err, service.ErrSwapAlreadyTerminal):
		response.BadRequest(c, 15002, "swap has already reached a terminal state")
	case errors.Is(err, service.ErrSwapNotAwaitingPeer):
		response.BadRequest(c, 15003, "swap is not awaiting a peer decision")
	case errors.Is(err, service.ErrSwapNotAwaitingAdmin):
		response.BadRequest(c, 15004, "swap is not awaiting an admin decision")
	case errors.Is(err, service.ErrAssignmentNotActive):
		response.BadRequest(c, 15001, "assignment is not active")
	default:
		response.InternalError(c)
	}
}
