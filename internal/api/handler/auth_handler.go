package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/jwt"
	"github.com/opsroster/scheduler/pkg/redis"
	"github.com/opsroster/scheduler/pkg/response"
)

// AuthHandler serves login/refresh/password/me/logout.
type AuthHandler struct {
	authSvc service.AuthService
	jwtMgr  *jwt.Manager
	rdb     *redis.Client
}

// NewAuthHandler constructs an AuthHandler. rdb may be nil, in which
// case Logout becomes a no-op (no blacklist to write the jti to).
func NewAuthHandler(authSvc service.AuthService, jwtMgr *jwt.Manager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, jwtMgr: jwtMgr, rdb: rdb}
}

// Login authenticates a member and issues a token pair.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid email or password")
		case errors.Is(err, service.ErrMemberInactive):
			response.Forbidden(c, 11002, "member is deactivated")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new token pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, 11003, "refresh token invalid or expired")
		return
	}

	response.OK(c, result)
}

// Me returns the authenticated member's own profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	memberID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.GetCurrentMember(c.Request.Context(), memberID)
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

// ChangePassword rotates the authenticated member's own password.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	memberID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), memberID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordWrong):
			response.BadRequest(c, 11004, "old password is incorrect")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 11005, "new password does not meet strength requirements")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 20001, "member not found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Logout blacklists the bearer access token's jti until it would have
// expired anyway, so a stolen token can't be replayed after logout.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.rdb == nil {
		response.OK(c, nil)
		return
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.OK(c, nil)
		return
	}

	claims, err := h.jwtMgr.ParseToken(parts[1])
	if err != nil {
		response.OK(c, nil)
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.rdb.BlacklistToken(c.Request.Context(), claims.ID, ttl); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
