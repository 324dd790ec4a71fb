package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
)

var (
	ErrUnavailablePeriodNotFound = errors.New("unavailable period not found")
	ErrUnavailablePeriodInverted = errors.New("start_date must not be after end_date")
)

// UnavailabilityService manages whole-day member unavailability
// windows. Windows are immutable once created (spec.md §3): a member
// who picked the wrong dates deletes the window and creates another.
type UnavailabilityService interface {
	Create(ctx context.Context, req *dto.CreateUnavailablePeriodRequest) (*dto.UnavailablePeriodResponse, error)
	ListByMember(ctx context.Context, memberID string) ([]dto.UnavailablePeriodResponse, error)
	Delete(ctx context.Context, id string) error
}

type unavailabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUnavailabilityService constructs an UnavailabilityService.
func NewUnavailabilityService(repo *repository.Repository, logger *zap.Logger) UnavailabilityService {
	return &unavailabilityService{repo: repo, logger: logger}
}

func (s *unavailabilityService) Create(ctx context.Context, req *dto.CreateUnavailablePeriodRequest) (*dto.UnavailablePeriodResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrUnavailablePeriodInverted
	}

	if _, err := s.repo.Member.GetByID(ctx, req.MemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	period := &model.UnavailablePeriod{
		MemberID:  req.MemberID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}
	if err := s.repo.UnavailablePeriod.Create(ctx, period); err != nil {
		s.logger.Error("create unavailable period failed", zap.Error(err))
		return nil, err
	}

	resp := toUnavailablePeriodResponse(period)
	return &resp, nil
}

func (s *unavailabilityService) ListByMember(ctx context.Context, memberID string) ([]dto.UnavailablePeriodResponse, error) {
	periods, err := s.repo.UnavailablePeriod.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnavailablePeriodResponse, len(periods))
	for i := range periods {
		out[i] = toUnavailablePeriodResponse(&periods[i])
	}
	return out, nil
}

func (s *unavailabilityService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.UnavailablePeriod.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnavailablePeriodNotFound
		}
		return err
	}
	return s.repo.UnavailablePeriod.Delete(ctx, id)
}

func toUnavailablePeriodResponse(p *model.UnavailablePeriod) dto.UnavailablePeriodResponse {
	return dto.UnavailablePeriodResponse{
		UnavailablePeriodID: p.UnavailablePeriodID,
		MemberID:            p.MemberID,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		Reason:              p.Reason,
	}
}
