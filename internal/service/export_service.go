package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
	"github.com/opsroster/scheduler/internal/repository"
)

var (
	ErrExportNoSchedule = errors.New("schedule not found")
	ErrExportNoItems    = errors.New("schedule has no assignments")
)

// ExportService renders a published Schedule in the external formats
// the core delegates to (spec.md §1 treats rendering as an external
// collaborator): an .xlsx workbook for printing/filing, a flat CSV for
// spreadsheet ingestion, and a per-member .ics calendar feed.
type ExportService interface {
	ExportScheduleExcel(ctx context.Context, scheduleID string) (*bytes.Buffer, string, error)
	ExportScheduleCSV(ctx context.Context, scheduleID string) (*bytes.Buffer, string, error)
	ExportMemberCalendar(ctx context.Context, memberID string, start, end time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// csvColumns is the canonical flat-row shape for both CSV and sheet
// rendering: date, weekday, kind, shift_label, member_id, member_name.
func (s *exportService) loadRows(ctx context.Context, scheduleID string) (*model.Schedule, []model.Assignment, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrExportNoSchedule
		}
		s.logger.Error("lookup schedule failed", zap.Error(err))
		return nil, nil, err
	}

	assignments, err := s.repo.Assignment.ListBySchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, nil, err
	}
	if len(assignments) == 0 {
		return nil, nil, ErrExportNoItems
	}

	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].Date.Equal(assignments[j].Date) {
			return assignments[i].Date.Before(assignments[j].Date)
		}
		ki, kj := model.KindOrder(assignments[i].TaskKind()), model.KindOrder(assignments[j].TaskKind())
		if ki != kj {
			return ki < kj
		}
		return assignments[i].ShiftLabel < assignments[j].ShiftLabel
	})

	return schedule, assignments, nil
}

func memberName(a *model.Assignment) string {
	if a.Member != nil {
		return a.Member.Name
	}
	return a.MemberID
}

// ExportScheduleCSV renders the canonical flat row shape.
func (s *exportService) ExportScheduleCSV(ctx context.Context, scheduleID string) (*bytes.Buffer, string, error) {
	schedule, assignments, err := s.loadRows(ctx, scheduleID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"date", "weekday", "kind", "shift_label", "member_id", "member_name"})
	for _, a := range assignments {
		_ = w.Write([]string{
			a.Date.Format("2006-01-02"),
			a.Date.Weekday().String(),
			a.Kind,
			a.ShiftLabel,
			a.MemberID,
			memberName(&a),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("schedule_%s.csv", schedule.ScheduleID)
	return buf, filename, nil
}

// ExportScheduleExcel renders the same rows as a formatted workbook,
// one sheet, columns Date/Weekday/Kind/Shift/Member.
func (s *exportService) ExportScheduleExcel(ctx context.Context, scheduleID string) (*bytes.Buffer, string, error) {
	schedule, assignments, err := s.loadRows(ctx, scheduleID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	headers := []string{"Date", "Weekday", "Kind", "Shift", "Member ID", "Member Name"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, a := range assignments {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.Date.Weekday().String())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), a.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.ShiftLabel)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), a.MemberID)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), memberName(&a))
	}
	for _, col := range []string{"A", "B", "C", "D", "E", "F"} {
		f.SetColWidth(sheet, col, col, 18)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", schedule.ScheduleID)
	return buf, filename, nil
}

// ExportMemberCalendar renders one member's active assignments in
// [start, end] as an .ics feed, one VEVENT per assignment.
func (s *exportService) ExportMemberCalendar(ctx context.Context, memberID string, start, end time.Time) (*bytes.Buffer, string, error) {
	assignments, err := s.repo.Assignment.ListByMember(ctx, memberID, start, end)
	if err != nil {
		s.logger.Error("list member assignments failed", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//opsroster//scheduler//EN")

	for _, a := range assignments {
		event := cal.AddEvent(a.AssignmentID)
		event.SetSummary(fmt.Sprintf("%s (%s)", a.Kind, a.ShiftLabel))
		event.SetAllDayStartAt(a.Date)
		event.SetAllDayEndAt(a.Date.AddDate(0, 0, 1))
		event.SetDtStampTime(a.Date)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("member_%s.ics", memberID)
	return buf, filename, nil
}
