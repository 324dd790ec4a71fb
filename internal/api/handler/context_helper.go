package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/pkg/response"
)

// MustGetMemberID safely extracts member_id injected by JWTAuth. Writes
// a 401 and returns ok=false if it's missing; callers should return
// immediately when ok is false.
func MustGetMemberID(c *gin.Context) (string, bool) {
	v, exists := c.Get("member_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetRole safely extracts role injected by JWTAuth.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}
