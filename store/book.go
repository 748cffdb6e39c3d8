package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (s *Store) CreateBook(create *model.Book) (*model.Book, error) {
	if create.TotalCopies < 1 {
		return nil, errors.New("a book needs at least one copy")
	}
	if create.AvailableCopies == 0 {
		create.AvailableCopies = create.TotalCopies
	}

	stmt := `
	INSERT INTO book (
		title, author, ddc_number, category_id, language,
		total_copies, available_copies, price, publisher, isbn
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id, created_ts, updated_ts
	`
	args := []any{
		create.Title, create.Author, create.DDCNumber, create.CategoryID, create.Language,
		create.TotalCopies, create.AvailableCopies, create.Price, create.Publisher, create.ISBN,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if err := tx.QueryRow(stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Store(create.ID, create)
	return create, nil
}

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	if find.ID != nil {
		if cache, ok := s.BookCache.Load(*find.ID); ok {
			return cache.(*model.Book), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book.id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "book.title LIKE ?"), append(args, "%"+*v+"%")
	}
	if v := find.Author; v != nil {
		where, args = append(where, "book.author LIKE ?"), append(args, "%"+*v+"%")
	}
	if v := find.DDCNumber; v != nil {
		where, args = append(where, "book.ddc_number = ?"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "book.isbn = ?"), append(args, *v)
	}
	if v := find.CategoryID; v != nil {
		where, args = append(where, "book.category_id = ?"), append(args, *v)
	}
	if v := find.Language; v != nil {
		where, args = append(where, "book.language = ?"), append(args, *v)
	}
	if find.OnlyAvailable {
		where = append(where, "book.available_copies > 0")
	}

	orderBy := "book.title ASC"
	if v := find.OrderBy; v != nil {
		orderBy = *v
	}

	query := `
		SELECT
			book.id,
			book.title,
			book.author,
			book.ddc_number,
			book.category_id,
			IFNULL(category.name, '') AS category_name,
			book.language,
			book.total_copies,
			book.available_copies,
			book.price,
			book.publisher,
			book.isbn,
			book.created_ts,
			book.updated_ts
		FROM book
		LEFT JOIN category ON category.id = book.category_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderBy

	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookList := make([]*model.Book, 0)
	for rows.Next() {
		book := &model.Book{}
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.DDCNumber,
			&book.CategoryID,
			&book.CategoryName,
			&book.Language,
			&book.TotalCopies,
			&book.AvailableCopies,
			&book.Price,
			&book.Publisher,
			&book.ISBN,
			&book.CreatedTs,
			&book.UpdatedTs,
		); err != nil {
			return nil, err
		}
		bookList = append(bookList, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookList, nil
}

func (s *Store) UpdateBook(bookID int32, update *model.BookUpdateRequest) (*model.Book, error) {
	set, args := []string{"updated_ts = strftime('%s', 'now')"}, []any{}

	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Author; v != nil {
		set, args = append(set, "author = ?"), append(args, *v)
	}
	if v := update.DDCNumber; v != nil {
		set, args = append(set, "ddc_number = ?"), append(args, *v)
	}
	if v := update.CategoryID; v != nil {
		set, args = append(set, "category_id = ?"), append(args, *v)
	}
	if v := update.Language; v != nil {
		set, args = append(set, "language = ?"), append(args, *v)
	}
	if v := update.TotalCopies; v != nil {
		// Adjust the free copies by the same delta so open loans stay
		// accounted for.
		set = append(set, "available_copies = available_copies + (? - total_copies)", "total_copies = ?")
		args = append(args, *v, *v)
	}
	if v := update.Price; v != nil {
		set, args = append(set, "price = ?"), append(args, *v)
	}
	if v := update.Publisher; v != nil {
		set, args = append(set, "publisher = ?"), append(args, *v)
	}
	if v := update.ISBN; v != nil {
		set, args = append(set, "isbn = ?"), append(args, *v)
	}
	args = append(args, bookID)

	stmt := `UPDATE book SET ` + strings.Join(set, ", ") + ` WHERE id = ?`

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if _, err := tx.Exec(stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update book")
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Delete(bookID)
	return s.GetBook(&model.FindBook{ID: &bookID})
}

// DeleteBook removes a book that has no open loans.
func (s *Store) DeleteBook(bookID int32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var openLoans int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM circulation WHERE book_id = ? AND status IN ('issued', 'overdue')`,
		bookID,
	).Scan(&openLoans); err != nil {
		return err
	}
	if openLoans > 0 {
		return errors.Errorf("book %d still has %d open loans", bookID, openLoans)
	}

	result, err := tx.Exec(`DELETE FROM book WHERE id = ?`, bookID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("book %d not found", bookID)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.BookCache.Delete(bookID)
	return nil
}
