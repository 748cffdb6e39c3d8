package model

// CirculationStatus is the lifecycle state of a loan.
type CirculationStatus string

const (
	CirculationIssued   CirculationStatus = "issued"
	CirculationReturned CirculationStatus = "returned"
	CirculationOverdue  CirculationStatus = "overdue"
	CirculationLost     CirculationStatus = "lost"
)

// FineStatus is the payment state of a loan's fine.
type FineStatus string

const (
	FineNone   FineStatus = "none"
	FineUnpaid FineStatus = "unpaid"
	FinePaid   FineStatus = "paid"
)

// Circulation is a single loan transaction linking one book copy-slot to
// one member. ReturnTs is zero while the loan is open.
type Circulation struct {
	ID       int32 `json:"id"`
	BookID   int32 `json:"book_id"`
	MemberID int32 `json:"member_id"`

	IssueTs  int64 `json:"issue_ts"`
	DueTs    int64 `json:"due_ts"`
	ReturnTs int64 `json:"return_ts,omitempty"`

	Status     CirculationStatus `json:"status"`
	FineAmount int               `json:"fine_amount"`
	FineStatus FineStatus        `json:"fine_status"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`

	// Joined display fields, populated by list queries.
	BookTitle            string `json:"book_title,omitempty"`
	MemberName           string `json:"member_name,omitempty"`
	MemberRegisterNumber string `json:"member_register_number,omitempty"`
}

// IsOpen reports whether the book has not been returned yet.
func (c *Circulation) IsOpen() bool {
	return c.Status == CirculationIssued || c.Status == CirculationOverdue
}

type FindCirculation struct {
	ID       *int32             `json:"id"`
	BookID   *int32             `json:"book_id"`
	MemberID *int32             `json:"member_id"`
	Status   *CirculationStatus `json:"status"`

	FineStatus *FineStatus `json:"fine_status"`

	// OpenOnly restricts the result to loans without a return date.
	OpenOnly bool `json:"open_only"`
	// DueBefore restricts the result to loans due strictly before the
	// given timestamp, used by the overdue sweeper.
	DueBefore *int64 `json:"due_before"`

	Limit *int `json:"limit"`
}

type IssueBookRequest struct {
	BookID   int32 `json:"book_id" validate:"required"`
	MemberID int32 `json:"member_id" validate:"required"`
	// Days overrides the configured loan period when positive.
	Days int `json:"days" validate:"omitempty,min=1,max=90"`
}

type ReturnBookByBookRequest struct {
	BookID int32 `json:"book_id" validate:"required"`
}

type RenewBookRequest struct {
	// Days overrides the configured loan period when positive.
	Days int `json:"days" validate:"omitempty,min=1,max=90"`
}
