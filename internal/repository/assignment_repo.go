package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
	pkgerrors "github.com/opsroster/scheduler/pkg/errors"
)

// AssignmentRepository is the data-access interface for Assignments.
type AssignmentRepository interface {
	BatchCreate(ctx context.Context, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.Assignment, error)
	ListByMember(ctx context.Context, memberID string, start, end time.Time) ([]model.Assignment, error)
	// ListActiveInWindow returns active assignments in (start, end], the
	// shape the Fairness Ledger rebuilds its counts from.
	ListActiveInWindow(ctx context.Context, start, end time.Time) ([]model.Assignment, error)
	ListActiveMidnightSince(ctx context.Context, since time.Time) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo constructs an AssignmentRepository backed by db.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("schedule_id = ? AND status = ?", scheduleID, model.AssignmentActive).
		Order("date ASC, kind ASC, shift_label ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByMember(ctx context.Context, memberID string, start, end time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ? AND date BETWEEN ? AND ?", memberID, model.AssignmentActive, start, end).
		Order("date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListActiveInWindow(ctx context.Context, start, end time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("status = ? AND date > ? AND date <= ?", model.AssignmentActive, start, end).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListActiveMidnightSince(ctx context.Context, since time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("status = ? AND kind = ? AND date >= ?", model.AssignmentActive, model.ATMMidnight, since).
		Order("member_id ASC, date DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	oldVersion := assignment.Version
	result := r.db.WithContext(ctx).
		Model(assignment).
		Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"member_id":  assignment.MemberID,
			"status":     assignment.Status,
			"updated_by": assignment.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version = oldVersion + 1
	return nil
}
