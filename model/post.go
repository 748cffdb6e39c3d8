package model

// Post is a community "Read With Us" article.
type Post struct {
	ID         int32     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Language   string    `json:"language"`
	LikeCount  int       `json:"like_count"`
	ReadCount  int       `json:"read_count"`
	ShareCount int       `json:"share_count"`
	ImagePath  string    `json:"image_path,omitempty"`
	RowStatus  RowStatus `json:"row_status"`
	CreatedTs  int64     `json:"created_ts"`
	UpdatedTs  int64     `json:"updated_ts"`
}

type FindPost struct {
	ID       *int32     `json:"id"`
	Category *string    `json:"category"`
	Language *string    `json:"language"`
	RowStatus *RowStatus `json:"row_status"`

	Limit *int `json:"limit"`
}

type PostCreateRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
	Language string `json:"language"`
}

type PostComment struct {
	ID         int32  `json:"id"`
	PostID     int32  `json:"post_id"`
	Author     string `json:"author"`
	Content    string `json:"content"`
	IsApproved bool   `json:"is_approved"`
	CreatedTs  int64  `json:"created_ts"`
}

type FindPostComment struct {
	ID     *int32 `json:"id"`
	PostID *int32 `json:"post_id"`
	// ApprovedOnly hides comments still waiting for moderation.
	ApprovedOnly bool `json:"approved_only"`
}

type PostCommentCreateRequest struct {
	Author  string `json:"author" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// PostLike deduplicates likes by client session.
type PostLike struct {
	ID        int32  `json:"id"`
	PostID    int32  `json:"post_id"`
	SessionID string `json:"session_id"`
	CreatedTs int64  `json:"created_ts"`
}

type PostLikeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}
