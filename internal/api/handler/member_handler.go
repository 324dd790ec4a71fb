package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// MemberHandler serves the roster CRUD endpoints.
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// Create adds a roster member and returns their temporary password.
// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.memberSvc.CreateMember(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.BadRequest(c, 12001, "a member with this email already exists")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get returns one member's profile.
// GET /api/v1/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	result, err := h.memberSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.NotFound(c, 20001, "member not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List returns the roster, optionally filtered to active members.
// GET /api/v1/members
func (h *MemberHandler) List(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	members, total, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, members, total, req.GetPage(), req.GetPageSize())
}

// Update edits a member's roster attributes.
// PUT /api/v1/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.memberSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 20001, "member not found")
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, 12001, "a member with this email already exists")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Deactivate marks a member inactive, excluding them from future
// eligibility without deleting their history.
// DELETE /api/v1/members/:id
func (h *MemberHandler) Deactivate(c *gin.Context) {
	callerID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	err := h.memberSvc.Deactivate(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 20001, "member not found")
		case errors.Is(err, service.ErrSelfDeactivate):
			response.BadRequest(c, 12002, "cannot deactivate your own account")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
