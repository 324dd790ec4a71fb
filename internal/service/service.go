package service

import (
	"go.uber.org/zap"

	"github.com/opsroster/scheduler/config"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
	"github.com/opsroster/scheduler/internal/scheduling"
	"github.com/opsroster/scheduler/pkg/jwt"
	"github.com/opsroster/scheduler/pkg/redis"
)

// Service aggregates every business-logic service, wired once at
// startup and threaded through the handler layer.
type Service struct {
	Auth           AuthService
	Member         MemberService
	Unavailability UnavailabilityService
	Schedule       ScheduleService
	Swap           SwapService
	Fairness       FairnessService
	Export         ExportService
}

// NewService constructs the Service aggregate. redisClient may be nil
// (e.g. in tests), in which case the generation advisory lock is
// skipped rather than enforced.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	schedCfg := scheduling.SchedulingConfig{
		Timezone:                 cfg.Scheduling.Timezone,
		FairnessWindowDays:       cfg.Scheduling.FairnessWindowDays,
		ATMRestRuleEnabled:       cfg.Scheduling.ATMRestRuleEnabled,
		ATMCooldownDays:          cfg.Scheduling.ATMCooldownDays,
		SysAidWeekDays:           weekdaySetFromInts(cfg.Scheduling.SysAidWeekDays),
		SysAidRequiredOfficeDays: weekdaySetFromInts(cfg.Scheduling.SysAidRequiredOfficeDays),
		DefaultAggressiveness:    cfg.Scheduling.DefaultAggressiveness,
		Plan:                     scheduling.CanonicalDayShiftPlan(),
	}

	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, logger),
		Member:         NewMemberService(repo, logger),
		Unavailability: NewUnavailabilityService(repo, logger),
		Schedule:       NewScheduleService(repo, schedCfg, redisClient, cfg.Scheduling.GenerationLockTTL, logger),
		Swap:           NewSwapService(repo, schedCfg, logger),
		Fairness:       NewFairnessService(repo, schedCfg, logger),
		Export:         NewExportService(repo, logger),
	}
}

func weekdaySetFromInts(days []int) model.WeekdaySet {
	var set model.WeekdaySet
	for _, d := range days {
		set = set.Add(model.Weekday(d))
	}
	return set
}
