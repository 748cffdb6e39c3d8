package model

// BookReadCount is one row of the most-read-books report.
type BookReadCount struct {
	BookID    int32  `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ReadCount int    `json:"read_count"`
}

// MemberActivity is one row of the most-active-members report.
type MemberActivity struct {
	MemberID       int32  `json:"member_id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
	LoanCount      int    `json:"loan_count"`
}

// BookReader is one row of the readers-of-a-book report.
type BookReader struct {
	MemberID       int32  `json:"member_id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
	IssueTs        int64  `json:"issue_ts"`
}

// MemberBook is one row of the books-read-by-a-member report.
type MemberBook struct {
	BookID  int32  `json:"book_id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	IssueTs int64  `json:"issue_ts"`
	// ReturnTs is zero for open loans.
	ReturnTs int64 `json:"return_ts,omitempty"`
}

// ReportFilter narrows a report to a period and optionally a category.
type ReportFilter struct {
	SinceTs    *int64 `json:"since_ts"`
	UntilTs    *int64 `json:"until_ts"`
	CategoryID *int32 `json:"category_id"`
	Limit      *int   `json:"limit"`
}

// Summary is the dashboard snapshot.
type Summary struct {
	TotalBooks     int `json:"total_books"`
	TotalMembers   int `json:"total_members"`
	TotalCopies    int `json:"total_copies"`
	OpenLoans      int `json:"open_loans"`
	OverdueLoans   int `json:"overdue_loans"`
	PendingFines   int `json:"pending_fines"`
	CollectedFines int `json:"collected_fines"`
}
