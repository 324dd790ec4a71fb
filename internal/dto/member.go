package dto

// CreateMemberRequest is submitted by an admin to add a roster member.
// Registration is never self-service (spec.md §3): members are always
// created by an admin and given a temporary password out of band.
type CreateMemberRequest struct {
	Name       string `json:"name"        binding:"required,min=1,max=100"`
	Email      string `json:"email"       binding:"required,email"`
	Role       string `json:"role"        binding:"required,oneof=admin member"`
	OfficeDays int    `json:"office_days" binding:"required"`
}

// CreateMemberResponse carries the generated temporary password back to
// the admin exactly once.
type CreateMemberResponse struct {
	Member       MemberResponse `json:"member"`
	TempPassword string         `json:"temp_password"`
}

// UpdateMemberRequest edits an existing member's roster attributes.
type UpdateMemberRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Role       *string `json:"role,omitempty"  binding:"omitempty,oneof=admin member"`
	OfficeDays *int    `json:"office_days,omitempty"`
}

// MemberListRequest filters the roster listing.
type MemberListRequest struct {
	PaginationRequest
	ActiveOnly bool `form:"active_only"`
}
