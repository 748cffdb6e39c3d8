package model

// Role is the type of a role.
type Role string

const (
	// RoleHost is the HOST role, held by the first account.
	RoleHost Role = "HOST"
	// RoleAdmin is the ADMIN role, held by librarians.
	RoleAdmin Role = "ADMIN"
	// RoleMember is the MEMBER role, held by registered readers.
	RoleMember Role = "MEMBER"
)

func (e Role) String() string {
	switch e {
	case RoleHost:
		return "HOST"
	case RoleAdmin:
		return "ADMIN"
	case RoleMember:
		return "MEMBER"
	}
	return "MEMBER"
}

// IsStaff reports whether the role can run circulation and admin operations.
func (e Role) IsStaff() bool {
	return e == RoleHost || e == RoleAdmin
}

type User struct {
	ID int32 `json:"id"`

	RowStatus RowStatus `json:"row_status"`
	CreatedTs int64     `json:"created_ts"`
	UpdatedTs int64     `json:"updated_ts"`

	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password_hash"`
	// MemberID links the account to a library member record, zero for
	// staff-only accounts.
	MemberID    int32 `json:"member_id,omitempty"`
	LastLoginTs int64 `json:"last_login_ts"`
}

type FindUser struct {
	ID        *int32     `json:"id"`
	RowStatus *RowStatus `json:"row_status"`
	Username  *string    `json:"username"`
	Role      *Role      `json:"role"`
	Email     *string    `json:"email"`
	MemberID  *int32     `json:"member_id"`

	// The maximum number of users to return.
	Limit *int
}

type UserSigninRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	NeverExpire bool   `json:"never_expire"`
}

type UserSignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" validate:"omitempty,email"`
	// Member registration details; a member record is created alongside
	// the account when Name is set.
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Class string `json:"class"`
}
