package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/opsroster/scheduler/internal/model"
)

// ── mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member // keyed by member_id
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = "member-" + member.Name
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if v, ok := m.members[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	for _, v := range m.members {
		if v.Email != nil && *v.Email == email {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListActive(_ context.Context) ([]model.Member, error) {
	var out []model.Member
	for _, v := range m.members {
		if v.Active {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockMemberRepo) List(_ context.Context, offset, limit int) ([]model.Member, int64, error) {
	var all []model.Member
	for _, v := range m.members {
		all = append(all, *v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	member.Version++
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Deactivate(_ context.Context, id, updatedBy string) error {
	if v, ok := m.members[id]; ok {
		v.Active = false
		v.UpdatedBy = &updatedBy
	}
	return nil
}

// ── mock UnavailablePeriodRepository ──

type mockUnavailablePeriodRepo struct {
	periods map[string]*model.UnavailablePeriod
}

func newMockUnavailablePeriodRepo() *mockUnavailablePeriodRepo {
	return &mockUnavailablePeriodRepo{periods: make(map[string]*model.UnavailablePeriod)}
}

func (m *mockUnavailablePeriodRepo) Create(_ context.Context, p *model.UnavailablePeriod) error {
	if p.UnavailablePeriodID == "" {
		p.UnavailablePeriodID = "uap-" + p.MemberID + "-" + p.StartDate.String()
	}
	m.periods[p.UnavailablePeriodID] = p
	return nil
}

func (m *mockUnavailablePeriodRepo) GetByID(_ context.Context, id string) (*model.UnavailablePeriod, error) {
	if v, ok := m.periods[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnavailablePeriodRepo) ListByMember(_ context.Context, memberID string) ([]model.UnavailablePeriod, error) {
	var out []model.UnavailablePeriod
	for _, v := range m.periods {
		if v.MemberID == memberID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockUnavailablePeriodRepo) ListOverlapping(_ context.Context, start, end time.Time) ([]model.UnavailablePeriod, error) {
	var out []model.UnavailablePeriod
	for _, v := range m.periods {
		if !v.StartDate.After(end) && !v.EndDate.Before(start) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockUnavailablePeriodRepo) Delete(_ context.Context, id string) error {
	delete(m.periods, id)
	return nil
}

// ── mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.Schedule) error {
	if s.ScheduleID == "" {
		s.ScheduleID = "schedule-" + s.StartDate.String()
	}
	m.schedules[s.ScheduleID] = s
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if v, ok := m.schedules[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByIDWithAssignments(ctx context.Context, id string) (*model.Schedule, error) {
	return m.GetByID(ctx, id)
}

func (m *mockScheduleRepo) List(_ context.Context, offset, limit int) ([]model.Schedule, int64, error) {
	var all []model.Schedule
	for _, v := range m.schedules {
		all = append(all, *v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.Before(all[j].StartDate) })
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, s *model.Schedule) error {
	s.Version++
	m.schedules[s.ScheduleID] = s
	return nil
}

// ── mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, items []model.Assignment) error {
	for i := range items {
		a := items[i]
		if a.AssignmentID == "" {
			a.AssignmentID = "assignment-" + a.Date.String() + "-" + a.Kind + "-" + a.ShiftLabel + "-" + a.MemberID
		}
		cp := a
		m.assignments[cp.AssignmentID] = &cp
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if v, ok := m.assignments[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, v := range m.assignments {
		if v.ScheduleID == scheduleID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ShiftLabel < out[j].ShiftLabel
	})
	return out, nil
}

func (m *mockAssignmentRepo) ListByMember(_ context.Context, memberID string, start, end time.Time) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, v := range m.assignments {
		if v.MemberID == memberID && !v.Date.Before(start) && !v.Date.After(end) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) ListActiveInWindow(_ context.Context, start, end time.Time) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, v := range m.assignments {
		if v.Status == model.AssignmentActive && v.Date.After(start) && !v.Date.After(end) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) ListActiveMidnightSince(_ context.Context, since time.Time) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, v := range m.assignments {
		if v.Status == model.AssignmentActive && v.Kind == string(model.ATMMidnight) && !v.Date.Before(since) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	a.Version++
	m.assignments[a.AssignmentID] = a
	return nil
}

// ── mock FairnessCountRepository ──

type mockFairnessCountRepo struct {
	rows map[string]*model.FairnessCount // keyed by member_id|kind|window_start
}

func newMockFairnessCountRepo() *mockFairnessCountRepo {
	return &mockFairnessCountRepo{rows: make(map[string]*model.FairnessCount)}
}

func fairnessKey(memberID, kind string, windowStart time.Time) string {
	return memberID + "|" + kind + "|" + windowStart.String()
}

func (m *mockFairnessCountRepo) ListByWindow(_ context.Context, windowStart, windowEnd time.Time) ([]model.FairnessCount, error) {
	var out []model.FairnessCount
	for _, v := range m.rows {
		if v.WindowStart.Equal(windowStart) && v.WindowEnd.Equal(windowEnd) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockFairnessCountRepo) ListByMember(_ context.Context, memberID string) ([]model.FairnessCount, error) {
	var out []model.FairnessCount
	for _, v := range m.rows {
		if v.MemberID == memberID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockFairnessCountRepo) Upsert(_ context.Context, fc *model.FairnessCount) error {
	key := fairnessKey(fc.MemberID, fc.Kind, fc.WindowStart)
	m.rows[key] = fc
	return nil
}

func (m *mockFairnessCountRepo) DeleteAll(_ context.Context) error {
	m.rows = make(map[string]*model.FairnessCount)
	return nil
}

// ── mock SwapRepository ──

type mockSwapRepo struct {
	swaps map[string]*model.Swap
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.Swap)}
}

func (m *mockSwapRepo) Create(_ context.Context, s *model.Swap) error {
	if s.SwapID == "" {
		s.SwapID = "swap-" + s.AssignmentID
	}
	m.swaps[s.SwapID] = s
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.Swap, error) {
	if v, ok := m.swaps[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.Swap, error) {
	var out []model.Swap
	for _, v := range m.swaps {
		if v.AssignmentID == assignmentID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockSwapRepo) ListPending(_ context.Context, offset, limit int) ([]model.Swap, int64, error) {
	var all []model.Swap
	for _, v := range m.swaps {
		if !v.IsTerminal() {
			all = append(all, *v)
		}
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockSwapRepo) Update(_ context.Context, s *model.Swap) error {
	s.Version++
	m.swaps[s.SwapID] = s
	return nil
}

// ── mock AuditEntryRepository ──

type mockAuditEntryRepo struct {
	entries map[string][]model.AuditEntry // keyed by schedule_id
}

func newMockAuditEntryRepo() *mockAuditEntryRepo {
	return &mockAuditEntryRepo{entries: make(map[string][]model.AuditEntry)}
}

func (m *mockAuditEntryRepo) BatchCreate(_ context.Context, entries []model.AuditEntry) error {
	for _, e := range entries {
		m.entries[e.ScheduleID] = append(m.entries[e.ScheduleID], e)
	}
	return nil
}

func (m *mockAuditEntryRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.AuditEntry, error) {
	return m.entries[scheduleID], nil
}
