package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
)

func reportPeriod(filter *model.ReportFilter, column string) ([]string, []any) {
	where, args := []string{}, []any{}
	if v := filter.SinceTs; v != nil {
		where, args = append(where, column+" >= ?"), append(args, *v)
	}
	if v := filter.UntilTs; v != nil {
		where, args = append(where, column+" < ?"), append(args, *v)
	}
	return where, args
}

// ListMostReadBooks ranks books by how many loans they have seen in the
// period.
func (s *Store) ListMostReadBooks(filter *model.ReportFilter) ([]*model.BookReadCount, error) {
	where, args := []string{"1 = 1"}, []any{}
	periodWhere, periodArgs := reportPeriod(filter, "circulation.issue_ts")
	where, args = append(where, periodWhere...), append(args, periodArgs...)
	if v := filter.CategoryID; v != nil {
		where, args = append(where, "book.category_id = ?"), append(args, *v)
	}

	query := `
		SELECT
			book.id,
			book.title,
			book.author,
			COUNT(circulation.id) AS read_count
		FROM book
		JOIN circulation ON circulation.book_id = book.id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY book.id
		ORDER BY read_count DESC, book.title ASC`

	if v := filter.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.BookReadCount, 0)
	for rows.Next() {
		row := &model.BookReadCount{}
		if err := rows.Scan(&row.BookID, &row.Title, &row.Author, &row.ReadCount); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// ListMostActiveMembers ranks members by loan count in the period.
func (s *Store) ListMostActiveMembers(filter *model.ReportFilter) ([]*model.MemberActivity, error) {
	where, args := []string{"1 = 1"}, []any{}
	periodWhere, periodArgs := reportPeriod(filter, "circulation.issue_ts")
	where, args = append(where, periodWhere...), append(args, periodArgs...)

	query := `
		SELECT
			member.id,
			member.name,
			member.register_number,
			COUNT(circulation.id) AS loan_count
		FROM member
		JOIN circulation ON circulation.member_id = member.id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY member.id
		ORDER BY loan_count DESC, member.register_number ASC`

	if v := filter.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.MemberActivity, 0)
	for rows.Next() {
		row := &model.MemberActivity{}
		if err := rows.Scan(&row.MemberID, &row.Name, &row.RegisterNumber, &row.LoanCount); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// ListBookReaders returns every member who has borrowed the book, most
// recent loan first.
func (s *Store) ListBookReaders(bookID int32, filter *model.ReportFilter) ([]*model.BookReader, error) {
	where, args := []string{"circulation.book_id = ?"}, []any{bookID}
	periodWhere, periodArgs := reportPeriod(filter, "circulation.issue_ts")
	where, args = append(where, periodWhere...), append(args, periodArgs...)

	query := `
		SELECT
			member.id,
			member.name,
			member.register_number,
			circulation.issue_ts
		FROM circulation
		JOIN member ON member.id = circulation.member_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY circulation.issue_ts DESC`

	if v := filter.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.BookReader, 0)
	for rows.Next() {
		row := &model.BookReader{}
		if err := rows.Scan(&row.MemberID, &row.Name, &row.RegisterNumber, &row.IssueTs); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// ListMemberBooks returns the borrowing history of one member.
func (s *Store) ListMemberBooks(memberID int32, filter *model.ReportFilter) ([]*model.MemberBook, error) {
	where, args := []string{"circulation.member_id = ?"}, []any{memberID}
	periodWhere, periodArgs := reportPeriod(filter, "circulation.issue_ts")
	where, args = append(where, periodWhere...), append(args, periodArgs...)

	query := `
		SELECT
			book.id,
			book.title,
			book.author,
			circulation.issue_ts,
			circulation.return_ts
		FROM circulation
		JOIN book ON book.id = circulation.book_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY circulation.issue_ts DESC`

	if v := filter.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.MemberBook, 0)
	for rows.Next() {
		row := &model.MemberBook{}
		if err := rows.Scan(&row.BookID, &row.Title, &row.Author, &row.IssueTs, &row.ReturnTs); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// GetSummary builds the dashboard snapshot in one round trip per
// counter.
func (s *Store) GetSummary() (*model.Summary, error) {
	summary := &model.Summary{}

	counters := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM book`, &summary.TotalBooks},
		{`SELECT COUNT(*) FROM member`, &summary.TotalMembers},
		{`SELECT IFNULL(SUM(total_copies), 0) FROM book`, &summary.TotalCopies},
		{`SELECT COUNT(*) FROM circulation WHERE status IN ('issued', 'overdue')`, &summary.OpenLoans},
		{`SELECT COUNT(*) FROM circulation WHERE status = 'overdue'`, &summary.OverdueLoans},
		{`SELECT IFNULL(SUM(fine_amount), 0) FROM circulation WHERE fine_status = 'unpaid'`, &summary.PendingFines},
		{`SELECT IFNULL(SUM(fine_amount), 0) FROM circulation WHERE fine_status = 'paid'`, &summary.CollectedFines},
	}
	for _, counter := range counters {
		if err := s.db.QueryRow(counter.query).Scan(counter.dest); err != nil {
			return nil, err
		}
	}

	return summary, nil
}
