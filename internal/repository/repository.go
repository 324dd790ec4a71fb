package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the aggregate of all data-access interfaces, wired once
// at startup and threaded through every service.
type Repository struct {
	db *gorm.DB

	Member            MemberRepository
	UnavailablePeriod UnavailablePeriodRepository
	Schedule          ScheduleRepository
	Assignment        AssignmentRepository
	FairnessCount     FairnessCountRepository
	Swap              SwapRepository
	AuditEntry        AuditEntryRepository
}

// NewRepository constructs a Repository backed by db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                db,
		Member:            NewMemberRepo(db),
		UnavailablePeriod: NewUnavailablePeriodRepo(db),
		Schedule:          NewScheduleRepo(db),
		Assignment:        NewAssignmentRepo(db),
		FairnessCount:     NewFairnessCountRepo(db),
		Swap:              NewSwapRepo(db),
		AuditEntry:        NewAuditEntryRepo(db),
	}
}

// BeginTx opens a transaction, returning the *gorm.DB handle a caller
// passes to WithTx once it decides to commit or roll back itself.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository whose data-access interfaces all read and
// write through tx instead of the pooled connection, so a generation's
// schedule/assignment/fairness/audit rows commit or roll back together
// (spec.md §5's atomic-commit requirement).
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside a transaction, committing on a nil return
// and rolling back otherwise (including on panic, which it re-panics
// after rollback). A Repository built directly from per-interface mocks
// (no db, as in unit tests) has nothing to open a transaction against,
// so fn just runs against r directly.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
