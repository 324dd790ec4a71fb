package dto

import "time"

// FairnessCountResponse is one (member, kind) ledger row.
type FairnessCountResponse struct {
	MemberID    string    `json:"member_id"`
	Kind        string    `json:"kind"`
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// RecomputeFairnessRequest rebuilds the persisted ledger snapshot as of
// a given date, discarding whatever was there before.
type RecomputeFairnessRequest struct {
	AsOf time.Time `json:"as_of" binding:"required"`
}
