package dto

import "time"

// CreateUnavailablePeriodRequest submits a whole-day unavailability
// window for a member. Windows are immutable except by deletion
// (spec.md §3).
type CreateUnavailablePeriodRequest struct {
	MemberID  string    `json:"member_id"  binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date"   binding:"required"`
	Reason    string    `json:"reason,omitempty"`
}

// UnavailablePeriodResponse mirrors the stored window.
type UnavailablePeriodResponse struct {
	UnavailablePeriodID string    `json:"unavailable_period_id"`
	MemberID            string    `json:"member_id"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	Reason              string    `json:"reason,omitempty"`
}
