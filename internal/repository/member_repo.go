package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
	pkgerrors "github.com/opsroster/scheduler/pkg/errors"
)

// MemberRepository is the data-access interface for roster members.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	ListActive(ctx context.Context) ([]model.Member, error)
	List(ctx context.Context, offset, limit int) ([]model.Member, int64, error)
	Update(ctx context.Context, member *model.Member) error
	Deactivate(ctx context.Context, id, updatedBy string) error
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo constructs a MemberRepository backed by db.
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("member_id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) ListActive(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&members).Error
	return members, err
}

func (r *memberRepo) List(ctx context.Context, offset, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Member{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).Order("name ASC").Find(&members).Error
	return members, total, err
}

func (r *memberRepo) Update(ctx context.Context, member *model.Member) error {
	oldVersion := member.Version
	result := r.db.WithContext(ctx).
		Model(member).
		Where("member_id = ? AND version = ?", member.MemberID, oldVersion).
		Updates(map[string]interface{}{
			"name":          member.Name,
			"email":         member.Email,
			"password_hash": member.PasswordHash,
			"role":          member.Role,
			"office_days":   member.OfficeDays,
			"active":        member.Active,
			"updated_by":    member.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	member.Version = oldVersion + 1
	return nil
}

func (r *memberRepo) Deactivate(ctx context.Context, id, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("member_id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_by": updatedBy}).Error
}
