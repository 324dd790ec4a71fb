package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
	"github.com/opsroster/scheduler/internal/scheduling"
)

var (
	ErrSwapNotFound        = errors.New("swap not found")
	ErrSwapAlreadyTerminal = errors.New("swap has already reached a terminal state")
	ErrSwapNotAwaitingPeer = errors.New("swap is not awaiting a peer decision")
	ErrSwapNotAwaitingAdmin = errors.New("swap is not awaiting an admin decision")
	ErrAssignmentNotActive = errors.New("assignment is not active")
)

// SwapService runs the swap/reassign workflow of spec.md §4.9: a
// request to replace an Assignment's member, gated by an independent
// peer decision and admin decision, applied only once both favor it.
type SwapService interface {
	Create(ctx context.Context, req *dto.CreateSwapRequest, requestedBy string) (*dto.SwapResponse, error)
	DecideAsPeer(ctx context.Context, swapID string, accept bool) (*dto.SwapResponse, error)
	DecideAsAdmin(ctx context.Context, swapID string, accept bool, adminID string) (*dto.SwapResponse, error)
	ListPending(ctx context.Context, offset, limit int) ([]dto.SwapResponse, int64, error)
}

type swapService struct {
	repo   *repository.Repository
	cfg    scheduling.SchedulingConfig
	logger *zap.Logger
}

// NewSwapService constructs a SwapService.
func NewSwapService(repo *repository.Repository, cfg scheduling.SchedulingConfig, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, cfg: cfg, logger: logger}
}

func (s *swapService) Create(ctx context.Context, req *dto.CreateSwapRequest, requestedBy string) (*dto.SwapResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("assignment not found")
		}
		return nil, err
	}
	if assignment.Status != model.AssignmentActive {
		return nil, ErrAssignmentNotActive
	}

	swap := &model.Swap{
		AssignmentID:     req.AssignmentID,
		RequestedBy:      requestedBy,
		ProposedMemberID: req.ProposedMemberID,
		Reason:           req.Reason,
		PeerDecision:     model.DecisionPending,
		AdminDecision:    model.DecisionPending,
	}
	if err := s.repo.Swap.Create(ctx, swap); err != nil {
		s.logger.Error("create swap failed", zap.Error(err))
		return nil, err
	}

	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) DecideAsPeer(ctx context.Context, swapID string, accept bool) (*dto.SwapResponse, error) {
	swap, err := s.getSwapOrNotFound(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.IsTerminal() {
		return nil, ErrSwapAlreadyTerminal
	}
	if swap.PeerDecision != model.DecisionPending {
		return nil, ErrSwapNotAwaitingPeer
	}

	if accept {
		swap.PeerDecision = model.DecisionAccepted
	} else {
		swap.PeerDecision = model.DecisionRejected
	}
	if err := s.repo.Swap.Update(ctx, swap); err != nil {
		return nil, err
	}
	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) DecideAsAdmin(ctx context.Context, swapID string, accept bool, adminID string) (*dto.SwapResponse, error) {
	swap, err := s.getSwapOrNotFound(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.IsTerminal() {
		return nil, ErrSwapAlreadyTerminal
	}
	if swap.PeerDecision != model.DecisionAccepted || swap.AdminDecision != model.DecisionPending {
		return nil, ErrSwapNotAwaitingAdmin
	}

	if !accept {
		swap.AdminDecision = model.DecisionRejected
		swap.DecidedBy = &adminID
		if err := s.repo.Swap.Update(ctx, swap); err != nil {
			return nil, err
		}
		resp := toSwapResponse(swap)
		return &resp, nil
	}

	if err := s.apply(ctx, swap, adminID); err != nil {
		return nil, err
	}
	resp := toSwapResponse(swap)
	return &resp, nil
}

// apply validates the proposed member against the same eligibility
// rules a generation uses, then (on success) supersedes the old
// Assignment, inserts the replacement, and adjusts the Fairness Ledger,
// all inside one transaction (spec.md §4.9 step 3, §5).
func (s *swapService) apply(ctx context.Context, swap *model.Swap, adminID string) error {
	assignment, err := s.repo.Assignment.GetByID(ctx, swap.AssignmentID)
	if err != nil {
		return err
	}
	if assignment.Status != model.AssignmentActive {
		return ErrAssignmentNotActive
	}

	members, err := s.repo.Member.ListActive(ctx)
	if err != nil {
		return err
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

	windowStart := assignment.Date.AddDate(0, 0, -s.cfg.FairnessWindowDays)
	periods, err := s.repo.UnavailablePeriod.ListOverlapping(ctx, windowStart, assignment.Date)
	if err != nil {
		return err
	}
	availability := scheduling.NewAvailabilityStore(periods)

	cooldownSince := assignment.Date.AddDate(0, 0, -s.cfg.ATMCooldownDays)
	priorMidnight, err := s.repo.Assignment.ListActiveMidnightSince(ctx, cooldownSince)
	if err != nil {
		return err
	}
	priorMidnightDates := make(map[string]time.Time, len(priorMidnight))
	for _, a := range priorMidnight {
		if a.AssignmentID == assignment.AssignmentID {
			continue
		}
		if existing, ok := priorMidnightDates[a.MemberID]; !ok || a.Date.After(existing) {
			priorMidnightDates[a.MemberID] = a.Date
		}
	}
	rest := scheduling.NewRestCooldownMap(priorMidnightDates)
	filter := scheduling.NewEligibilityFilter(memberInputs, availability, rest, s.cfg)
	validator := scheduling.NewSwapValidator(filter, s.cfg)

	kind := assignment.TaskKind()
	if kind.IsATM() {
		sameDay, err := s.repo.Assignment.ListActiveInWindow(ctx, assignment.Date.AddDate(0, 0, -1), assignment.Date)
		if err != nil {
			return err
		}
		alreadyAssignedToday := make(map[string]bool)
		for _, a := range sameDay {
			if a.Date.Equal(assignment.Date) && a.AssignmentID != assignment.AssignmentID {
				alreadyAssignedToday[a.MemberID] = true
			}
		}
		existing := scheduling.ExistingAssignment{
			AssignmentID: assignment.AssignmentID,
			Date:         assignment.Date,
			Kind:         kind,
			ShiftLabel:   assignment.ShiftLabel,
			MemberID:     assignment.MemberID,
		}
		if err := validator.ValidateATM(existing, swap.ProposedMemberID, alreadyAssignedToday); err != nil {
			return err
		}
	} else {
		monday := mondayOf(assignment.Date)
		if err := validator.ValidateSysAid(monday, kind, swap.ProposedMemberID, ""); err != nil {
			return err
		}
	}

	now := time.Now()
	return s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		assignment.Status = model.AssignmentSuperseded
		assignment.UpdatedBy = &adminID
		if err := txRepo.Assignment.Update(ctx, assignment); err != nil {
			return err
		}

		replacement := &model.Assignment{
			ScheduleID: assignment.ScheduleID,
			Date:       assignment.Date,
			Kind:       assignment.Kind,
			ShiftLabel: assignment.ShiftLabel,
			MemberID:   swap.ProposedMemberID,
			Status:     model.AssignmentActive,
			VersionedModel: model.VersionedModel{
				SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &adminID}},
			},
		}
		if err := txRepo.Assignment.BatchCreate(ctx, []model.Assignment{*replacement}); err != nil {
			return err
		}

		if err := s.adjustLedger(ctx, txRepo, assignment.MemberID, swap.ProposedMemberID, kind, windowStart, assignment.Date); err != nil {
			return err
		}

		swap.AdminDecision = model.DecisionApproved
		swap.DecidedBy = &adminID
		swap.AppliedAt = &now
		return txRepo.Swap.Update(ctx, swap)
	})
}

// adjustLedger decrements the original assignee's count and increments
// the proposed member's count for kind within the window, per spec.md
// §4.9's "ledger.decrement(original, kind) and increment(M', kind)".
func (s *swapService) adjustLedger(ctx context.Context, txRepo *repository.Repository, originalMemberID, newMemberID string, kind model.TaskKind, windowStart, windowEnd time.Time) error {
	adjust := func(memberID string, delta int) error {
		rows, err := txRepo.FairnessCount.ListByMember(ctx, memberID)
		if err != nil {
			return err
		}
		var row *model.FairnessCount
		for i := range rows {
			if rows[i].Kind == string(kind) && rows[i].WindowStart.Equal(windowStart) && rows[i].WindowEnd.Equal(windowEnd) {
				row = &rows[i]
				break
			}
		}
		if row == nil {
			row = &model.FairnessCount{MemberID: memberID, Kind: string(kind), WindowStart: windowStart, WindowEnd: windowEnd}
		}
		row.Count += delta
		if row.Count < 0 {
			row.Count = 0
		}
		return txRepo.FairnessCount.Upsert(ctx, row)
	}

	if err := adjust(originalMemberID, -1); err != nil {
		return err
	}
	return adjust(newMemberID, 1)
}

func (s *swapService) ListPending(ctx context.Context, offset, limit int) ([]dto.SwapResponse, int64, error) {
	swaps, total, err := s.repo.Swap.ListPending(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SwapResponse, len(swaps))
	for i := range swaps {
		out[i] = toSwapResponse(&swaps[i])
	}
	return out, total, nil
}

func (s *swapService) getSwapOrNotFound(ctx context.Context, id string) (*model.Swap, error) {
	swap, err := s.repo.Swap.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	return swap, nil
}

func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func toSwapResponse(swap *model.Swap) dto.SwapResponse {
	return dto.SwapResponse{
		SwapID:           swap.SwapID,
		AssignmentID:     swap.AssignmentID,
		RequestedBy:      swap.RequestedBy,
		ProposedMemberID: swap.ProposedMemberID,
		Reason:           swap.Reason,
		PeerDecision:     swap.PeerDecision,
		AdminDecision:    swap.AdminDecision,
		EffectiveState:   swap.EffectiveState(),
	}
}
