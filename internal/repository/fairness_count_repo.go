package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsroster/scheduler/internal/model"
)

// FairnessCountRepository is the data-access interface for the
// persisted ledger snapshot.
type FairnessCountRepository interface {
	ListByWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]model.FairnessCount, error)
	ListByMember(ctx context.Context, memberID string) ([]model.FairnessCount, error)
	// Upsert replaces the row for (member_id, kind, window_start, window_end)
	// so a re-run of RecomputeFromHistory is idempotent.
	Upsert(ctx context.Context, row *model.FairnessCount) error
	DeleteAll(ctx context.Context) error
}

type fairnessCountRepo struct {
	db *gorm.DB
}

// NewFairnessCountRepo constructs a FairnessCountRepository backed by db.
func NewFairnessCountRepo(db *gorm.DB) FairnessCountRepository {
	return &fairnessCountRepo{db: db}
}

func (r *fairnessCountRepo) ListByWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]model.FairnessCount, error) {
	var rows []model.FairnessCount
	err := r.db.WithContext(ctx).
		Where("window_start = ? AND window_end = ?", windowStart, windowEnd).
		Find(&rows).Error
	return rows, err
}

func (r *fairnessCountRepo) ListByMember(ctx context.Context, memberID string) ([]model.FairnessCount, error) {
	var rows []model.FairnessCount
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Find(&rows).Error
	return rows, err
}

func (r *fairnessCountRepo) Upsert(ctx context.Context, row *model.FairnessCount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "kind"}, {Name: "window_start"}, {Name: "window_end"}},
			DoUpdates: clause.AssignmentColumns([]string{"count", "updated_at"}),
		}).
		Create(row).Error
}

func (r *fairnessCountRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.FairnessCount{}).Error
}
