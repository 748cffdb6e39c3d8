package model

// MembershipStatus is the circulation standing of a member.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipSuspended MembershipStatus = "suspended"
)

type Member struct {
	ID int32 `json:"id"`

	// RegisterNumber is the human-facing member identifier, distinct from
	// the internal record id.
	RegisterNumber string           `json:"register_number"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Class          string           `json:"class"`
	MembershipType string           `json:"membership_type"`
	Status         MembershipStatus `json:"status"`
	CreatedTs      int64            `json:"created_ts"`
	UpdatedTs      int64            `json:"updated_ts"`
}

type FindMember struct {
	ID             *int32            `json:"id"`
	RegisterNumber *string           `json:"register_number"`
	Name           *string           `json:"name"`
	Email          *string           `json:"email"`
	Class          *string           `json:"class"`
	Status         *MembershipStatus `json:"status"`

	Limit *int `json:"limit"`
}

type MemberCreateRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Class          string `json:"class"`
	MembershipType string `json:"membership_type"`
	// RegisterNumber is assigned by the service when empty.
	RegisterNumber string `json:"register_number"`
}

type MemberUpdateRequest struct {
	Name           *string           `json:"name"`
	Email          *string           `json:"email" validate:"omitempty,email"`
	Phone          *string           `json:"phone"`
	Class          *string           `json:"class"`
	MembershipType *string           `json:"membership_type"`
	Status         *MembershipStatus `json:"status"`
}
