package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
)

func setupTestMemberService() (MemberService, *mockMemberRepo) {
	memberRepo := newMockMemberRepo()
	repo := &repository.Repository{Member: memberRepo}
	return NewMemberService(repo, zap.NewNop()), memberRepo
}

func TestCreateMemberSuccess(t *testing.T) {
	svc, _ := setupTestMemberService()

	result, err := svc.CreateMember(context.Background(), &dto.CreateMemberRequest{
		Name:       "Carol",
		Email:      "carol@example.com",
		Role:       "member",
		OfficeDays: int(model.WeekdaysMonFri),
	}, "admin-1")
	if err != nil {
		t.Fatalf("CreateMember should succeed: %v", err)
	}
	if result.TempPassword == "" {
		t.Error("TempPassword should not be empty")
	}
	if len(result.TempPassword) != 12 {
		t.Errorf("expected a 12-char temp password, got %d chars", len(result.TempPassword))
	}
	if result.Member.Email != "carol@example.com" {
		t.Errorf("expected email carol@example.com, got %s", result.Member.Email)
	}
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	svc, repo := setupTestMemberService()
	createTestMember(repo, "dupe@example.com", "whatever123")

	_, err := svc.CreateMember(context.Background(), &dto.CreateMemberRequest{
		Name:       "Someone Else",
		Email:      "dupe@example.com",
		Role:       "member",
		OfficeDays: int(model.WeekdaysMonFri),
	}, "admin-1")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestUpdateMemberSuccess(t *testing.T) {
	svc, repo := setupTestMemberService()
	member := createTestMember(repo, "dave@example.com", "whatever123")

	newName := "Dave Updated"
	result, err := svc.Update(context.Background(), member.MemberID, &dto.UpdateMemberRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if result.Name != "Dave Updated" {
		t.Errorf("expected updated name, got %s", result.Name)
	}
}

func TestUpdateMemberNotFound(t *testing.T) {
	svc, _ := setupTestMemberService()

	newName := "Nobody"
	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateMemberRequest{Name: &newName})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeactivateMemberSuccess(t *testing.T) {
	svc, repo := setupTestMemberService()
	member := createTestMember(repo, "eve@example.com", "whatever123")

	if err := svc.Deactivate(context.Background(), member.MemberID, "admin-1"); err != nil {
		t.Fatalf("Deactivate should succeed: %v", err)
	}
	if member.Active {
		t.Error("member should be inactive after Deactivate")
	}
}

func TestDeactivateSelfRejected(t *testing.T) {
	svc, repo := setupTestMemberService()
	member := createTestMember(repo, "frank@example.com", "whatever123")

	err := svc.Deactivate(context.Background(), member.MemberID, member.MemberID)
	if !errors.Is(err, ErrSelfDeactivate) {
		t.Errorf("expected ErrSelfDeactivate, got %v", err)
	}
}

func TestListActiveOnly(t *testing.T) {
	svc, repo := setupTestMemberService()
	active := createTestMember(repo, "active@example.com", "whatever123")
	inactive := createTestMember(repo, "inactive@example.com", "whatever123")
	inactive.Active = false

	members, total, err := svc.List(context.Background(), &dto.MemberListRequest{ActiveOnly: true})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 active member, got %d", total)
	}
	if len(members) != 1 || members[0].MemberID != active.MemberID {
		t.Error("expected only the active member to be returned")
	}
}
