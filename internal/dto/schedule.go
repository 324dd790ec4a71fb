package dto

import "time"

// GenerateScheduleRequest starts one generation over [start_date, end_date].
// Seed defaults to a server-chosen value when zero; aggressiveness
// defaults to the configured default when zero (spec.md §4.10).
type GenerateScheduleRequest struct {
	StartDate      time.Time `json:"start_date"      binding:"required"`
	EndDate        time.Time `json:"end_date"         binding:"required"`
	Seed           int64     `json:"seed,omitempty"`
	Aggressiveness int       `json:"aggressiveness,omitempty" binding:"omitempty,min=1,max=5"`
}

// AssignmentResponse is one filled or superseded slot.
type AssignmentResponse struct {
	AssignmentID string `json:"assignment_id"`
	Date         string `json:"date"`
	Kind         string `json:"kind"`
	ShiftLabel   string `json:"shift_label"`
	MemberID     string `json:"member_id"`
	MemberName   string `json:"member_name,omitempty"`
	Status       string `json:"status"`
}

// ScheduleResponse is one generation's persisted result.
type ScheduleResponse struct {
	ScheduleID             string                `json:"schedule_id"`
	StartDate              string                `json:"start_date"`
	EndDate                string                `json:"end_date"`
	Status                 string                `json:"status"`
	Seed                   int64                 `json:"seed"`
	FairnessAggressiveness int                   `json:"fairness_aggressiveness"`
	Warnings               []string              `json:"warnings,omitempty"`
	Assignments            []AssignmentResponse  `json:"assignments,omitempty"`
}

// ScheduleListRequest paginates the schedule index.
type ScheduleListRequest struct {
	PaginationRequest
}

// CandidateRankResponse is one candidate's rank-key breakdown as shown on
// the audit log.
type CandidateRankResponse struct {
	MemberID  string `json:"member_id"`
	Primary   int    `json:"primary"`
	Secondary int    `json:"secondary"`
	TieBreak  uint64 `json:"tiebreak"`
}

// AuditEntryResponse is one selection decision recorded during
// generation: every candidate considered, the one chosen, and why.
type AuditEntryResponse struct {
	AuditEntryID   string                  `json:"audit_entry_id"`
	Date           string                  `json:"date,omitempty"`
	WeekStart      string                  `json:"week_start,omitempty"`
	Kind           string                  `json:"kind"`
	ShiftLabel     string                  `json:"shift_label,omitempty"`
	ChosenMemberID string                  `json:"chosen_member_id,omitempty"`
	Candidates     []CandidateRankResponse `json:"candidates"`
	TieBreakReason string                  `json:"tie_break_reason,omitempty"`
	Warnings       []string                `json:"warnings,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}
