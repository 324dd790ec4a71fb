package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
)

// AuditEntryRepository is the data-access interface for the per-selection
// audit log persisted alongside a Schedule.
type AuditEntryRepository interface {
	BatchCreate(ctx context.Context, entries []model.AuditEntry) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.AuditEntry, error)
}

type auditEntryRepo struct {
	db *gorm.DB
}

// NewAuditEntryRepo constructs an AuditEntryRepository backed by db.
func NewAuditEntryRepo(db *gorm.DB) AuditEntryRepository {
	return &auditEntryRepo{db: db}
}

func (r *auditEntryRepo) BatchCreate(ctx context.Context, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *auditEntryRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
