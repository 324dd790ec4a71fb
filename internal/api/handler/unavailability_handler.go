package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// UnavailabilityHandler serves the unavailable-period endpoints.
type UnavailabilityHandler struct {
	svc service.UnavailabilityService
}

// NewUnavailabilityHandler constructs an UnavailabilityHandler.
func NewUnavailabilityHandler(svc service.UnavailabilityService) *UnavailabilityHandler {
	return &UnavailabilityHandler{svc: svc}
}

// Create registers a whole-day unavailability window for a member.
// POST /api/v1/unavailable-periods
func (h *UnavailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateUnavailablePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnavailablePeriodInverted):
			response.BadRequest(c, 13001, "start_date must not be after end_date")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 20001, "member not found")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListByMember lists a member's unavailability windows.
// GET /api/v1/members/:id/unavailable-periods
func (h *UnavailabilityHandler) ListByMember(c *gin.Context) {
	result, err := h.svc.ListByMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Delete removes an unavailability window.
// DELETE /api/v1/unavailable-periods/:id
func (h *UnavailabilityHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUnavailablePeriodNotFound) {
			response.NotFound(c, 20002, "unavailable period not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
