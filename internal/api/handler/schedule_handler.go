package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/scheduling"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// ScheduleHandler serves generation/publish/archive and the schedule index.
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Generate runs one scheduling pass over [start_date, end_date] and
// persists the result as a draft.
// POST /api/v1/schedules
func (h *ScheduleHandler) Generate(c *gin.Context) {
	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.scheduleSvc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrEndBeforeStart):
			response.BadRequest(c, 14001, "end_date must not be before start_date")
		case errors.Is(err, service.ErrGenerationLocked):
			response.Error(c, 423, 14002, "a generation is already in progress")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Get returns one schedule with its assignments.
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	result, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 20003, "schedule not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List paginates the schedule index.
// GET /api/v1/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	schedules, total, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, schedules, total, req.GetPage(), req.GetPageSize())
}

// Publish promotes a draft schedule to published.
// POST /api/v1/schedules/:id/publish
func (h *ScheduleHandler) Publish(c *gin.Context) {
	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Publish(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			response.NotFound(c, 20003, "schedule not found")
		case errors.Is(err, service.ErrScheduleNotDraft):
			response.BadRequest(c, 14003, "schedule is not in draft status")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// AuditLog returns every selection decision recorded for a schedule's
// generation: every candidate considered, the one chosen, and why.
// GET /api/v1/schedules/:id/audit-log
func (h *ScheduleHandler) AuditLog(c *gin.Context) {
	entries, err := h.scheduleSvc.AuditLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 20003, "schedule not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, entries)
}

// Archive retires a published schedule.
// POST /api/v1/schedules/:id/archive
func (h *ScheduleHandler) Archive(c *gin.Context) {
	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Archive(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			response.NotFound(c, 20003, "schedule not found")
		case errors.Is(err, service.ErrScheduleNotLive):
			response.BadRequest(c, 14004, "schedule is not published")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}
