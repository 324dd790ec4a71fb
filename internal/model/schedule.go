package model

import "time"

// Schedule status machine (spec.md §3 invariant 5): draft → published →
// archived. Only draft permits free editing; published permits swap/
// reassign; archived is read-only.
const (
	ScheduleDraft     = "draft"
	SchedulePublished = "published"
	ScheduleArchived  = "archived"
)

// Schedule — one generation's output for a date range.
type Schedule struct {
	ScheduleID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	StartDate           time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate             time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Status              string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	Seed                int64      `gorm:"not null"                                       json:"seed"`
	FairnessAggressiveness int     `gorm:"not null;default:1"                             json:"fairness_aggressiveness"`
	PublishedAt         *time.Time `json:"published_at,omitempty"`
	VersionedModel

	Assignments []Assignment `gorm:"foreignKey:ScheduleID" json:"assignments,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }

// CanEdit reports whether free editing of assignments is permitted.
func (s *Schedule) CanEdit() bool { return s.Status == ScheduleDraft }

// CanSwap reports whether the swap/reassign workflow is permitted.
func (s *Schedule) CanSwap() bool { return s.Status == SchedulePublished }
