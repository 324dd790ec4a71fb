package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
	"github.com/opsroster/scheduler/internal/scheduling"
	roster "github.com/opsroster/scheduler/pkg/redis"
)

var (
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrScheduleNotDraft  = errors.New("schedule is not in draft status")
	ErrScheduleNotLive   = errors.New("schedule is not published")
	ErrGenerationLocked  = errors.New("a generation is already in progress")
)

// generationLockKey is the single advisory-lock key this module ever
// takes: every team shares one scheduling timeline, so there is only
// ever one in-flight generation to serialize against (spec.md §5).
const generationLockKey = "default"

// ScheduleService drives one generation end-to-end: load inputs, run the
// scheduling core, and persist the result as one transaction (spec.md
// §4.10, §5).
type ScheduleService interface {
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, int64, error)
	Publish(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error)
	Archive(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error)
	AuditLog(ctx context.Context, id string) ([]dto.AuditEntryResponse, error)
}

type scheduleService struct {
	repo      *repository.Repository
	assembler *scheduling.Assembler
	cfg       scheduling.SchedulingConfig
	lock      *roster.Client
	lockTTL   time.Duration
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService. lock may be nil in
// tests or single-process deployments, in which case the advisory lock
// is skipped.
func NewScheduleService(repo *repository.Repository, cfg scheduling.SchedulingConfig, lock *roster.Client, lockTTL time.Duration, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		assembler: scheduling.NewAssembler(cfg),
		cfg:       cfg,
		lock:      lock,
		lockTTL:   lockTTL,
		logger:    logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, scheduling.ErrEndBeforeStart
	}

	lockToken := callerID + ":" + fmt.Sprint(time.Now().UnixNano())
	if s.lock != nil {
		if err := s.lock.AcquireLock(ctx, generationLockKey, lockToken, s.lockTTL); err != nil {
			if errors.Is(err, roster.ErrLockHeld) {
				return nil, ErrGenerationLocked
			}
			return nil, err
		}
		defer func() {
			if err := s.lock.ReleaseLock(context.Background(), generationLockKey, lockToken); err != nil {
				s.logger.Warn("release generation lock failed", zap.Error(err))
			}
		}()
	}

	members, err := s.repo.Member.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	memberInputs := make([]scheduling.MemberInput, len(members))
	for i, m := range members {
		memberInputs[i] = scheduling.MemberInput{
			MemberID:   m.MemberID,
			Name:       m.Name,
			OfficeDays: model.WeekdaySet(m.OfficeDays),
			Active:     m.Active,
		}
	}

	windowStart := req.StartDate.AddDate(0, 0, -s.cfg.FairnessWindowDays)
	periods, err := s.repo.UnavailablePeriod.ListOverlapping(ctx, windowStart, req.EndDate)
	if err != nil {
		return nil, err
	}

	historyAssignments, err := s.repo.Assignment.ListActiveInWindow(ctx, windowStart, req.StartDate)
	if err != nil {
		return nil, err
	}
	history := make([]scheduling.AssignmentRecord, len(historyAssignments))
	for i, a := range historyAssignments {
		history[i] = scheduling.AssignmentRecord{MemberID: a.MemberID, Kind: a.TaskKind(), Date: a.Date}
	}

	cooldownSince := req.StartDate.AddDate(0, 0, -s.cfg.ATMCooldownDays)
	priorMidnight, err := s.repo.Assignment.ListActiveMidnightSince(ctx, cooldownSince)
	if err != nil {
		return nil, err
	}
	priorMidnightDates := make(map[string]time.Time, len(priorMidnight))
	for _, a := range priorMidnight {
		if existing, ok := priorMidnightDates[a.MemberID]; !ok || a.Date.After(existing) {
			priorMidnightDates[a.MemberID] = a.Date
		}
	}

	seed := req.Seed
	if seed == 0 {
		seed = req.StartDate.Unix()
	}

	result, err := s.assembler.Generate(scheduling.GenerationRequest{
		Start:          req.StartDate,
		End:            req.EndDate,
		Seed:           seed,
		Aggressiveness: req.Aggressiveness,
	}, memberInputs, periods, history, priorMidnightDates)
	if err != nil {
		return nil, err
	}

	var schedule *model.Schedule
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		schedule = &model.Schedule{
			StartDate:              req.StartDate,
			EndDate:                req.EndDate,
			Status:                 model.ScheduleDraft,
			Seed:                   result.Seed,
			FairnessAggressiveness: result.Aggressiveness,
			VersionedModel: model.VersionedModel{
				SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
			},
		}
		if err := txRepo.Schedule.Create(ctx, schedule); err != nil {
			return err
		}

		assignments := buildAssignments(schedule.ScheduleID, result)
		if err := txRepo.Assignment.BatchCreate(ctx, assignments); err != nil {
			return err
		}

		auditRows := buildAuditEntries(schedule.ScheduleID, result.Audit)
		if err := txRepo.AuditEntry.BatchCreate(ctx, auditRows); err != nil {
			return err
		}

		for _, row := range result.LedgerRows {
			fc := &model.FairnessCount{
				MemberID:    row.MemberID,
				Kind:        string(row.Kind),
				Count:       row.Count,
				WindowStart: windowStart,
				WindowEnd:   req.StartDate,
			}
			if err := txRepo.FairnessCount.Upsert(ctx, fc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("generation commit failed", zap.Error(err))
		return nil, err
	}

	resp := toScheduleResponse(schedule, result.Warnings, nil)
	return &resp, nil
}

func buildAssignments(scheduleID string, result *scheduling.GenerationResult) []model.Assignment {
	var out []model.Assignment
	for _, a := range result.ATM {
		out = append(out, model.Assignment{
			ScheduleID: scheduleID,
			Date:       a.Date,
			Kind:       string(a.Kind),
			ShiftLabel: a.ShiftLabel,
			MemberID:   a.MemberID,
			Status:     model.AssignmentActive,
		})
	}
	for _, a := range result.SysAid {
		out = append(out, model.Assignment{
			ScheduleID: scheduleID,
			Date:       a.Date,
			Kind:       string(a.Kind),
			ShiftLabel: string(a.Kind),
			MemberID:   a.MemberID,
			Status:     model.AssignmentActive,
		})
	}
	return out
}

func buildAuditEntries(scheduleID string, entries []scheduling.AuditEntry) []model.AuditEntry {
	out := make([]model.AuditEntry, len(entries))
	for i, e := range entries {
		ranks := make(model.CandidateRanks, len(e.Candidates))
		for j, c := range e.Candidates {
			ranks[j] = model.CandidateRank{MemberID: c.MemberID, Primary: c.Primary, Secondary: c.Secondary, TieBreak: c.TieBreak}
		}
		out[i] = model.AuditEntry{
			ScheduleID:     scheduleID,
			Date:           e.Date,
			WeekStart:      e.WeekStart,
			Kind:           string(e.Kind),
			ShiftLabel:     e.ShiftLabel,
			ChosenMemberID: e.ChosenMemberID,
			Candidates:     ranks,
			TieBreakReason: e.TieBreakReason,
			Warnings:       model.StringArray(e.Warnings),
		}
	}
	return out
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByIDWithAssignments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	resp := toScheduleResponse(schedule, nil, schedule.Assignments)
	return &resp, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, int64, error) {
	schedules, total, err := s.repo.Schedule.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		out[i] = toScheduleResponse(&schedules[i], nil, nil)
	}
	return out, total, nil
}

func (s *scheduleService) Publish(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if !schedule.CanEdit() {
		return nil, ErrScheduleNotDraft
	}

	now := time.Now()
	schedule.Status = model.SchedulePublished
	schedule.PublishedAt = &now
	schedule.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		return nil, err
	}
	resp := toScheduleResponse(schedule, nil, nil)
	return &resp, nil
}

func (s *scheduleService) Archive(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if schedule.Status != model.SchedulePublished {
		return nil, ErrScheduleNotLive
	}

	schedule.Status = model.ScheduleArchived
	schedule.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		return nil, err
	}
	resp := toScheduleResponse(schedule, nil, nil)
	return &resp, nil
}

// AuditLog returns every selection decision recorded for a schedule's
// generation, in the order the Assembler recorded them (spec.md §4.8),
// the read path the `inspect_db.py` diagnostic script covered upstream.
func (s *scheduleService) AuditLog(ctx context.Context, id string) ([]dto.AuditEntryResponse, error) {
	if _, err := s.repo.Schedule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	entries, err := s.repo.AuditEntry.ListBySchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toAuditEntryResponse(&e)
	}
	return out, nil
}

func toAuditEntryResponse(e *model.AuditEntry) dto.AuditEntryResponse {
	resp := dto.AuditEntryResponse{
		AuditEntryID:   e.AuditEntryID,
		Kind:           e.Kind,
		ShiftLabel:     e.ShiftLabel,
		TieBreakReason: e.TieBreakReason,
		Warnings:       e.Warnings,
		CreatedAt:      e.CreatedAt,
	}
	if e.Date != nil {
		resp.Date = e.Date.Format("2006-01-02")
	}
	if e.WeekStart != nil {
		resp.WeekStart = e.WeekStart.Format("2006-01-02")
	}
	if e.ChosenMemberID != nil {
		resp.ChosenMemberID = *e.ChosenMemberID
	}
	resp.Candidates = make([]dto.CandidateRankResponse, len(e.Candidates))
	for i, c := range e.Candidates {
		resp.Candidates[i] = dto.CandidateRankResponse{
			MemberID:  c.MemberID,
			Primary:   c.Primary,
			Secondary: c.Secondary,
			TieBreak:  c.TieBreak,
		}
	}
	return resp
}

func toScheduleResponse(schedule *model.Schedule, warnings []string, assignments []model.Assignment) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ScheduleID:             schedule.ScheduleID,
		StartDate:              schedule.StartDate.Format("2006-01-02"),
		EndDate:                schedule.EndDate.Format("2006-01-02"),
		Status:                 schedule.Status,
		Seed:                   schedule.Seed,
		FairnessAggressiveness: schedule.FairnessAggressiveness,
		Warnings:               warnings,
	}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			AssignmentID: a.AssignmentID,
			Date:         a.Date.Format("2006-01-02"),
			Kind:         a.Kind,
			ShiftLabel:   a.ShiftLabel,
			MemberID:     a.MemberID,
			MemberName:   memberName(&a),
			Status:       a.Status,
		})
	}
	return resp
}
