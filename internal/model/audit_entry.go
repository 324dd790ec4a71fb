package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CandidateRank is one candidate's rank-key breakdown as recorded in an
// audit entry (spec.md §4.5/§4.8): the ascending-sort fields plus the
// member it belongs to.
type CandidateRank struct {
	MemberID  string `json:"member_id"`
	Primary   int    `json:"primary"`
	Secondary int     `json:"secondary"`
	TieBreak  uint64  `json:"tiebreak"`
}

// CandidateRanks is a []CandidateRank stored as a JSON text column, same
// Scan/Value technique as model.IntArray but for structured data.
type CandidateRanks []CandidateRank

func (c *CandidateRanks) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return json.Unmarshal(nil, c) // unreachable type, surfaces a clear error below
	}
	if len(b) == 0 {
		*c = CandidateRanks{}
		return nil
	}
	return json.Unmarshal(b, c)
}

func (c CandidateRanks) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// AuditEntry — one selection decision, explaining every candidate
// considered and why the head of the ranking was chosen (spec.md §4.8).
type AuditEntry struct {
	AuditEntryID   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_entry_id"`
	ScheduleID     string         `gorm:"type:uuid;not null"                             json:"schedule_id"`
	Date           *time.Time     `gorm:"type:date"                                      json:"date,omitempty"`       // set for ATM (daily) decisions
	WeekStart      *time.Time     `gorm:"type:date"                                      json:"week_start,omitempty"` // set for SysAid (weekly) decisions
	Kind           string         `gorm:"type:varchar(20);not null"                      json:"kind"`
	ShiftLabel     string         `gorm:"type:varchar(30)"                               json:"shift_label,omitempty"`
	ChosenMemberID *string        `gorm:"type:uuid"                                      json:"chosen_member_id,omitempty"`
	Candidates     CandidateRanks `gorm:"type:text"                                      json:"candidates"`
	TieBreakReason string         `gorm:"type:varchar(100)"                              json:"tie_break_reason,omitempty"`
	Warnings       StringArray    `gorm:"type:text[]"                                    json:"warnings,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
