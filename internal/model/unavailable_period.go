package model

import "time"

// UnavailablePeriod — a whole-day unavailability window for a member.
// Created by the member or an admin; immutable except by deletion, per
// spec.md §3. StartDate/EndDate are both inclusive, date-only.
type UnavailablePeriod struct {
	UnavailablePeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unavailable_period_id"`
	MemberID            string    `gorm:"type:uuid;not null"                             json:"member_id"`
	StartDate           time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate             time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason              string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	BaseModel

	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

func (UnavailablePeriod) TableName() string { return "unavailable_periods" }

// Overlaps reports whether the period covers date d (date-only comparison).
func (p *UnavailablePeriod) Overlaps(d time.Time) bool {
	start := p.StartDate.Truncate(24 * time.Hour)
	end := p.EndDate.Truncate(24 * time.Hour)
	day := d.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}
