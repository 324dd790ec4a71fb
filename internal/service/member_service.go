package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
)

var (
	ErrEmailExists    = errors.New("a member with this email already exists")
	ErrSelfDeactivate = errors.New("cannot deactivate your own account")
)

// MemberService is the roster CRUD business interface. Members are
// always admin-created (spec.md §3); there is no self-registration.
type MemberService interface {
	CreateMember(ctx context.Context, req *dto.CreateMemberRequest, callerID string) (*dto.CreateMemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	Deactivate(ctx context.Context, id, callerID string) error
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService constructs a MemberService.
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

func (s *memberService) CreateMember(ctx context.Context, req *dto.CreateMemberRequest, callerID string) (*dto.CreateMemberResponse, error) {
	if _, err := s.repo.Member.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		s.logger.Error("generate temp password failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash temp password failed", zap.Error(err))
		return nil, err
	}

	email := req.Email
	member := &model.Member{
		Name:         req.Name,
		Email:        &email,
		PasswordHash: string(hash),
		Role:         req.Role,
		OfficeDays:   req.OfficeDays,
		Active:       true,
		VersionedModel: model.VersionedModel{
			SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
		},
	}

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("create member failed", zap.Error(err))
		return nil, err
	}

	return &dto.CreateMemberResponse{
		Member:       toMemberResponse(member),
		TempPassword: tempPassword,
	}, nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	resp := toMemberResponse(member)
	return &resp, nil
}

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	if req.ActiveOnly {
		members, err := s.repo.Member.ListActive(ctx)
		if err != nil {
			return nil, 0, err
		}
		return toMemberResponses(members), int64(len(members)), nil
	}

	members, total, err := s.repo.Member.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toMemberResponses(members), total, nil
}

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Email != nil {
		if existing, err := s.repo.Member.GetByEmail(ctx, *req.Email); err == nil && existing.MemberID != id {
			return nil, ErrEmailExists
		}
		member.Email = req.Email
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.OfficeDays != nil {
		member.OfficeDays = *req.OfficeDays
	}

	if err := s.repo.Member.Update(ctx, member); err != nil {
		return nil, err
	}
	resp := toMemberResponse(member)
	return &resp, nil
}

func (s *memberService) Deactivate(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrSelfDeactivate
	}
	if _, err := s.repo.Member.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return s.repo.Member.Deactivate(ctx, id, callerID)
}

func toMemberResponses(members []model.Member) []dto.MemberResponse {
	out := make([]dto.MemberResponse, len(members))
	for i := range members {
		out[i] = toMemberResponse(&members[i])
	}
	return out
}

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// generateTempPassword produces a 12-character random password handed
// to the admin once, out of band, for the new member to rotate at
// first login.
func generateTempPassword() (string, error) {
	const length = 12
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
