package model //import "github.com/openshelf/openshelf/model"

type Book struct {
	ID              int32   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	DDCNumber       string  `json:"ddc_number"`
	CategoryID      int32   `json:"category_id"`
	CategoryName    string  `json:"category_name,omitempty"`
	Language        string  `json:"language"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	Price           float64 `json:"price"`
	Publisher       string  `json:"publisher"`
	ISBN            string  `json:"isbn"`
	CreatedTs       int64   `json:"created_ts"`
	UpdatedTs       int64   `json:"updated_ts"`
}

// IsAvailable reports whether the book can be issued.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

type FindBook struct {
	ID         *int32  `json:"id"`
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	DDCNumber  *string `json:"ddc_number"`
	ISBN       *string `json:"isbn"`
	CategoryID *int32  `json:"category_id"`
	Language   *string `json:"language"`

	// OnlyAvailable restricts the result to books with available copies,
	// used by the issue flow.
	OnlyAvailable bool `json:"only_available"`

	OrderBy *string `json:"order_by"`
	// The maximum number of books to return.
	Limit *int `json:"limit"`
}

type BookCreateRequest struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	DDCNumber       string  `json:"ddc_number"`
	CategoryID      int32   `json:"category_id" validate:"required"`
	Language        string  `json:"language"`
	TotalCopies     int     `json:"total_copies" validate:"required,min=1"`
	Price           float64 `json:"price" validate:"min=0"`
	Publisher       string  `json:"publisher"`
	ISBN            string  `json:"isbn"`
}

type BookUpdateRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	DDCNumber   *string  `json:"ddc_number"`
	CategoryID  *int32   `json:"category_id"`
	Language    *string  `json:"language"`
	TotalCopies *int     `json:"total_copies" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Publisher   *string  `json:"publisher"`
	ISBN        *string  `json:"isbn"`
}

type Category struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"created_ts"`
}

type FindCategory struct {
	ID   *int32  `json:"id"`
	Name *string `json:"name"`
}

// CategoryBookCount is one row of the categories-with-book-counts report.
type CategoryBookCount struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
	// Titles is a comma separated sample of book titles in the category,
	// built by the sortconcat aggregate in book id order.
	Titles string `json:"titles,omitempty"`
}
