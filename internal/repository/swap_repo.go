package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
	pkgerrors "github.com/opsroster/scheduler/pkg/errors"
)

// SwapRepository is the data-access interface for swap/reassign requests.
type SwapRepository interface {
	Create(ctx context.Context, swap *model.Swap) error
	GetByID(ctx context.Context, id string) (*model.Swap, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.Swap, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.Swap, int64, error)
	Update(ctx context.Context, swap *model.Swap) error
}

type swapRepo struct {
	db *gorm.DB
}

// NewSwapRepo constructs a SwapRepository backed by db.
func NewSwapRepo(db *gorm.DB) SwapRepository {
	return &swapRepo{db: db}
}

func (r *swapRepo) Create(ctx context.Context, swap *model.Swap) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *swapRepo) GetByID(ctx context.Context, id string) (*model.Swap, error) {
	var swap model.Swap
	err := r.db.WithContext(ctx).
		Preload("Assignment").Preload("Assignment.Member").
		Preload("ProposedMember").
		Where("swap_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.Swap, error) {
	var swaps []model.Swap
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRepo) ListPending(ctx context.Context, offset, limit int) ([]model.Swap, int64, error) {
	var swaps []model.Swap
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Swap{}).
		Where("peer_decision != ? AND admin_decision != ?", model.DecisionRejected, model.DecisionRejected).
		Where("NOT (peer_decision = ? AND admin_decision = ?)", model.DecisionAccepted, model.DecisionApproved)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Preload("Assignment").Preload("ProposedMember").
		Order("created_at ASC").
		Find(&swaps).Error
	return swaps, total, err
}

func (r *swapRepo) Update(ctx context.Context, swap *model.Swap) error {
	oldVersion := swap.Version
	result := r.db.WithContext(ctx).
		Model(swap).
		Where("swap_id = ? AND version = ?", swap.SwapID, oldVersion).
		Updates(map[string]interface{}{
			"peer_decision":  swap.PeerDecision,
			"admin_decision": swap.AdminDecision,
			"decided_by":     swap.DecidedBy,
			"applied_at":     swap.AppliedAt,
			"updated_by":     swap.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version = oldVersion + 1
	return nil
}
