package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
)

func setupTestExportService() (ExportService, *mockScheduleRepo, *mockAssignmentRepo) {
	schedRepo := newMockScheduleRepo()
	assignRepo := newMockAssignmentRepo()
	repo := &repository.Repository{
		Schedule:   schedRepo,
		Assignment: assignRepo,
	}
	logger := zap.NewNop()
	return NewExportService(repo, logger), schedRepo, assignRepo
}

func seedSchedule(t *testing.T, schedRepo *mockScheduleRepo, assignRepo *mockAssignmentRepo) *model.Schedule {
	t.Helper()
	schedule := &model.Schedule{
		ScheduleID: "sched-1",
		StartDate:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		Status:     model.SchedulePublished,
	}
	_ = schedRepo.Create(context.Background(), schedule)

	name := "Alice"
	items := []model.Assignment{
		{
			ScheduleID: schedule.ScheduleID,
			Date:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Kind:       string(model.ATMMorning),
			ShiftLabel: "morning",
			MemberID:   "member-1",
			Status:     model.AssignmentActive,
			Member:     &model.Member{MemberID: "member-1", Name: name},
		},
		{
			ScheduleID: schedule.ScheduleID,
			Date:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Kind:       string(model.ATMMidnight),
			ShiftLabel: "midnight",
			MemberID:   "member-2",
			Status:     model.AssignmentActive,
			Member:     &model.Member{MemberID: "member-2", Name: "Bob"},
		},
	}
	_ = assignRepo.BatchCreate(context.Background(), items)
	return schedule
}

func TestExportScheduleCSVNoSchedule(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportScheduleCSV(context.Background(), "nonexistent")
	if !errors.Is(err, ErrExportNoSchedule) {
		t.Errorf("expected ErrExportNoSchedule, got %v", err)
	}
}

func TestExportScheduleCSVNoItems(t *testing.T) {
	svc, schedRepo, _ := setupTestExportService()

	_ = schedRepo.Create(context.Background(), &model.Schedule{
		ScheduleID: "sched-empty",
		Status:     model.SchedulePublished,
	})

	_, _, err := svc.ExportScheduleCSV(context.Background(), "sched-empty")
	if !errors.Is(err, ErrExportNoItems) {
		t.Errorf("expected ErrExportNoItems, got %v", err)
	}
}

func TestExportScheduleCSVSuccess(t *testing.T) {
	svc, schedRepo, assignRepo := setupTestExportService()
	seedSchedule(t, schedRepo, assignRepo)

	buf, filename, err := svc.ExportScheduleCSV(context.Background(), "sched-1")
	if err != nil {
		t.Fatalf("ExportScheduleCSV should succeed: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("CSV buffer should not be empty")
	}
	if filename == "" {
		t.Error("filename should not be empty")
	}
	content := buf.String()
	if !bytes.Contains([]byte(content), []byte("date,weekday,kind,shift_label,member_id,member_name")) {
		t.Error("CSV should contain the canonical header row")
	}
	if !bytes.Contains([]byte(content), []byte("Alice")) {
		t.Error("CSV should contain member names")
	}
}

func TestExportScheduleExcelSuccess(t *testing.T) {
	svc, schedRepo, assignRepo := setupTestExportService()
	seedSchedule(t, schedRepo, assignRepo)

	buf, filename, err := svc.ExportScheduleExcel(context.Background(), "sched-1")
	if err != nil {
		t.Fatalf("ExportScheduleExcel should succeed: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("xlsx buffer should not be empty")
	}
	if filename == "" {
		t.Error("filename should not be empty")
	}
	if buf.Len() > 2 {
		header := buf.Bytes()[:2]
		if header[0] != 0x50 || header[1] != 0x4B {
			t.Error("output should be a valid xlsx file (PK header)")
		}
	}
}

func TestExportMemberCalendarSuccess(t *testing.T) {
	svc, schedRepo, assignRepo := setupTestExportService()
	seedSchedule(t, schedRepo, assignRepo)

	buf, filename, err := svc.ExportMemberCalendar(
		context.Background(), "member-1",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ExportMemberCalendar should succeed: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("ics buffer should not be empty")
	}
	if filename == "" {
		t.Error("filename should not be empty")
	}
	if !bytes.Contains(buf.Bytes(), []byte("BEGIN:VCALENDAR")) {
		t.Error("output should be a valid ics calendar")
	}
}

func TestExportMemberCalendarNoAssignments(t *testing.T) {
	svc, _, _ := setupTestExportService()

	buf, _, err := svc.ExportMemberCalendar(
		context.Background(), "member-nobody",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ExportMemberCalendar should succeed with zero assignments: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("BEGIN:VCALENDAR")) {
		t.Error("output should still be a valid (empty) ics calendar")
	}
}
