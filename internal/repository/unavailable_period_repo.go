package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
)

// UnavailablePeriodRepository is the data-access interface for
// whole-day member unavailability windows.
type UnavailablePeriodRepository interface {
	Create(ctx context.Context, period *model.UnavailablePeriod) error
	GetByID(ctx context.Context, id string) (*model.UnavailablePeriod, error)
	ListByMember(ctx context.Context, memberID string) ([]model.UnavailablePeriod, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]model.UnavailablePeriod, error)
	Delete(ctx context.Context, id string) error
}

type unavailablePeriodRepo struct {
	db *gorm.DB
}

// NewUnavailablePeriodRepo constructs an UnavailablePeriodRepository backed by db.
func NewUnavailablePeriodRepo(db *gorm.DB) UnavailablePeriodRepository {
	return &unavailablePeriodRepo{db: db}
}

func (r *unavailablePeriodRepo) Create(ctx context.Context, period *model.UnavailablePeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *unavailablePeriodRepo) GetByID(ctx context.Context, id string) (*model.UnavailablePeriod, error) {
	var period model.UnavailablePeriod
	err := r.db.WithContext(ctx).Where("unavailable_period_id = ?", id).First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *unavailablePeriodRepo) ListByMember(ctx context.Context, memberID string) ([]model.UnavailablePeriod, error) {
	var periods []model.UnavailablePeriod
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

// ListOverlapping returns every period that touches [start, end], the
// shape a generation needs to seed its Availability Store.
func (r *unavailablePeriodRepo) ListOverlapping(ctx context.Context, start, end time.Time) ([]model.UnavailablePeriod, error) {
	var periods []model.UnavailablePeriod
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&periods).Error
	return periods, err
}

func (r *unavailablePeriodRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("unavailable_period_id = ?", id).Delete(&model.UnavailablePeriod{}).Error
}
