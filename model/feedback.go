package model

type FeedbackType string

const (
	FeedbackBookReview FeedbackType = "book_review"
	FeedbackSuggestion FeedbackType = "suggestion"
)

type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackApproved FeedbackStatus = "approved"
	FeedbackRejected FeedbackStatus = "rejected"
)

type Feedback struct {
	ID       int32 `json:"id"`
	MemberID int32 `json:"member_id"`
	// BookID is zero for general suggestions.
	BookID    int32          `json:"book_id,omitempty"`
	Type      FeedbackType   `json:"type"`
	Status    FeedbackStatus `json:"status"`
	Rating    int            `json:"rating"`
	Content   string         `json:"content"`
	CreatedTs int64          `json:"created_ts"`

	MemberName string `json:"member_name,omitempty"`
	BookTitle  string `json:"book_title,omitempty"`
}

type FindFeedback struct {
	ID       *int32          `json:"id"`
	MemberID *int32          `json:"member_id"`
	BookID   *int32          `json:"book_id"`
	Type     *FeedbackType   `json:"type"`
	Status   *FeedbackStatus `json:"status"`

	Limit *int `json:"limit"`
}

type FeedbackCreateRequest struct {
	BookID  int32        `json:"book_id"`
	Type    FeedbackType `json:"type" validate:"required,oneof=book_review suggestion"`
	Rating  int          `json:"rating" validate:"omitempty,min=1,max=5"`
	Content string       `json:"content" validate:"required"`
}

type FeedbackModerateRequest struct {
	Status FeedbackStatus `json:"status" validate:"required,oneof=approved rejected"`
}
