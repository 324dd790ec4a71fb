package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
	"github.com/opsroster/scheduler/internal/scheduling"
)

// FairnessService exposes the Fairness Ledger as a persisted,
// recomputable snapshot: the cache (FairnessCount rows) is always
// derivable from Assignment history, so an operator can discard and
// rebuild it at any time (the operation the original Python tooling's
// recalculate_fairness script performed offline).
type FairnessService interface {
	ListByMember(ctx context.Context, memberID string) ([]dto.FairnessCountResponse, error)
	Recompute(ctx context.Context, req *dto.RecomputeFairnessRequest) (int, error)
}

type fairnessService struct {
	repo   *repository.Repository
	cfg    scheduling.SchedulingConfig
	logger *zap.Logger
}

// NewFairnessService constructs a FairnessService.
func NewFairnessService(repo *repository.Repository, cfg scheduling.SchedulingConfig, logger *zap.Logger) FairnessService {
	return &fairnessService{repo: repo, cfg: cfg, logger: logger}
}

func (s *fairnessService) ListByMember(ctx context.Context, memberID string) ([]dto.FairnessCountResponse, error) {
	rows, err := s.repo.FairnessCount.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FairnessCountResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.FairnessCountResponse{
			MemberID:    r.MemberID,
			Kind:        r.Kind,
			Count:       r.Count,
			WindowStart: r.WindowStart,
			WindowEnd:   r.WindowEnd,
		}
	}
	return out, nil
}

// Recompute discards every persisted FairnessCount row and rebuilds the
// snapshot from Assignment history within the rolling window ending at
// req.AsOf, returning the number of rows written.
func (s *fairnessService) Recompute(ctx context.Context, req *dto.RecomputeFairnessRequest) (int, error) {
	windowStart := req.AsOf.AddDate(0, 0, -s.cfg.FairnessWindowDays)

	assignments, err := s.repo.Assignment.ListActiveInWindow(ctx, windowStart, req.AsOf)
	if err != nil {
		return 0, err
	}
	records := make([]scheduling.AssignmentRecord, len(assignments))
	for i, a := range assignments {
		records[i] = scheduling.AssignmentRecord{MemberID: a.MemberID, Kind: a.TaskKind(), Date: a.Date}
	}

	ledger := scheduling.NewFairnessLedger(s.cfg.FairnessWindowDays, req.AsOf)
	ledger.RecomputeFromHistory(records, req.AsOf)
	rows := ledger.Snapshot()

	if err := s.repo.FairnessCount.DeleteAll(ctx); err != nil {
		return 0, err
	}
	for _, row := range rows {
		fc := &model.FairnessCount{
			MemberID:    row.MemberID,
			Kind:        string(row.Kind),
			Count:       row.Count,
			WindowStart: windowStart,
			WindowEnd:   req.AsOf,
		}
		if err := s.repo.FairnessCount.Upsert(ctx, fc); err != nil {
			return 0, err
		}
	}

	s.logger.Info("fairness ledger recomputed", zap.Int("rows", len(rows)), zap.Time("as_of", req.AsOf))
	return len(rows), nil
}
