package model

import "time"

// Swap decision states (spec.md §4.9).
const (
	DecisionPending  = "pending"
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
	DecisionApproved = "approved"
)

// Swap — a request to replace the assignee of a single existing
// Assignment. Lifecycle: pending → peer decides → admin decides →
// terminal (spec.md §3, §4.9). Approval mutates the target Assignment
// and adjusts the Fairness Ledger; adapted from the teacher's
// SwapRequest (applicant/target/status) generalized to the two
// independent decision axes the spec requires.
type Swap struct {
	SwapID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_id"`
	AssignmentID     string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	RequestedBy      string     `gorm:"type:uuid;not null"                             json:"requested_by"`
	ProposedMemberID string     `gorm:"type:uuid;not null"                             json:"proposed_member_id"`
	Reason           *string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	PeerDecision     string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"peer_decision"`
	AdminDecision    string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"admin_decision"`
	DecidedBy        *string    `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	AppliedAt        *time.Time `json:"applied_at,omitempty"`
	VersionedModel

	Assignment     *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID"     json:"assignment,omitempty"`
	ProposedMember *Member     `gorm:"foreignKey:ProposedMemberID;references:MemberID"     json:"proposed_member,omitempty"`
}

func (Swap) TableName() string { return "swaps" }

// EffectiveState derives the combined workflow state from the two decision
// axes, per the table in spec.md §4.9.
func (s *Swap) EffectiveState() string {
	switch {
	case s.PeerDecision == DecisionRejected:
		return "rejected"
	case s.PeerDecision == DecisionPending:
		return "awaiting_peer"
	case s.PeerDecision == DecisionAccepted && s.AdminDecision == DecisionPending:
		return "awaiting_admin"
	case s.PeerDecision == DecisionAccepted && s.AdminDecision == DecisionApproved:
		return "applied"
	case s.PeerDecision == DecisionAccepted && s.AdminDecision == DecisionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further decisions can change the outcome.
func (s *Swap) IsTerminal() bool {
	switch s.EffectiveState() {
	case "rejected", "applied":
		return true
	default:
		return false
	}
}
