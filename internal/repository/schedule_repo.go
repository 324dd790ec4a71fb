package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
	pkgerrors "github.com/opsroster/scheduler/pkg/errors"
)

// ScheduleRepository is the data-access interface for Schedule records,
// adapted from the teacher's schedule repository to the draft/published/
// archived status machine of this domain.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	GetByIDWithAssignments(ctx context.Context, id string) (*model.Schedule, error)
	List(ctx context.Context, offset, limit int) ([]model.Schedule, int64, error)
	Update(ctx context.Context, schedule *model.Schedule) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo constructs a ScheduleRepository backed by db.
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).Where("schedule_id = ?", id).First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) GetByIDWithAssignments(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Assignments.Member").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) List(ctx context.Context, offset, limit int) ([]model.Schedule, int64, error) {
	var schedules []model.Schedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Schedule{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).Order("start_date DESC").Find(&schedules).Error
	return schedules, total, err
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *model.Schedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ? AND version = ?", schedule.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"status":                  schedule.Status,
			"fairness_aggressiveness": schedule.FairnessAggressiveness,
			"published_at":            schedule.PublishedAt,
			"updated_by":              schedule.UpdatedBy,
			"version":                 oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}
