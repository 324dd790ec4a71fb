package model

import "time"

// FairnessCount — the authoritative ledger row for one (member, kind)
// pair within a rolling window (spec.md §3/§4.3). Recomputable from
// Assignments at any time; persisted as a cache so reads don't have to
// rescan assignment history on every selection.
type FairnessCount struct {
	FairnessCountID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"fairness_count_id"`
	MemberID        string    `gorm:"type:uuid;not null"                             json:"member_id"`
	Kind            string    `gorm:"type:varchar(20);not null"                      json:"kind"`
	Count           int       `gorm:"not null;default:0"                             json:"count"`
	WindowStart     time.Time `gorm:"type:date;not null"                             json:"window_start"`
	WindowEnd       time.Time `gorm:"type:date;not null"                             json:"window_end"`
	BaseModel

	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

func (FairnessCount) TableName() string { return "fairness_counts" }
