package handler

import (
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/jwt"
	"github.com/opsroster/scheduler/pkg/redis"
)

// Handler aggregates every HTTP handler, wired once at startup.
type Handler struct {
	Auth           *AuthHandler
	Member         *MemberHandler
	Unavailability *UnavailabilityHandler
	Schedule       *ScheduleHandler
	Swap           *SwapHandler
	Fairness       *FairnessHandler
	Export         *ExportHandler
}

// NewHandler constructs the Handler aggregate.
func NewHandler(svc *service.Service, jwtMgr *jwt.Manager, rdb *redis.Client) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth, jwtMgr, rdb),
		Member:         NewMemberHandler(svc.Member),
		Unavailability: NewUnavailabilityHandler(svc.Unavailability),
		Schedule:       NewScheduleHandler(svc.Schedule),
		Swap:           NewSwapHandler(svc.Swap),
		Fairness:       NewFairnessHandler(svc.Fairness),
		Export:         NewExportHandler(svc.Export),
	}
}
