package model

import "time"

// Assignment status: a (member, date, kind, shift_label) tuple is unique
// while active (spec.md §3 invariant 2); a superseded row is kept for
// audit/history but excluded from eligibility and ledger counts.
const (
	AssignmentActive     = "active"
	AssignmentSuperseded = "superseded"
)

// Assignment — one member assigned to one (date, kind, shift_label) slot.
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ScheduleID   string    `gorm:"type:uuid;not null"                             json:"schedule_id"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	Kind         string    `gorm:"type:varchar(20);not null"                      json:"kind"`
	ShiftLabel   string    `gorm:"type:varchar(30);not null"                      json:"shift_label"`
	MemberID     string    `gorm:"type:uuid;not null"                             json:"member_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	VersionedModel

	Schedule *Schedule `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"schedule,omitempty"`
	Member   *Member   `gorm:"foreignKey:MemberID;references:MemberID"     json:"member,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }

// TaskKind returns the typed kind for this assignment's Kind column.
func (a *Assignment) TaskKind() TaskKind { return TaskKind(a.Kind) }
