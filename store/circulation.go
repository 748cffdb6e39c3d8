package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openshelf/openshelf/circulation"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrBookUnavailable means every copy of the book is out on loan.
	ErrBookUnavailable = errors.New("no available copies of the book")
	// ErrMemberNotActive means the member cannot borrow in their current standing.
	ErrMemberNotActive = errors.New("member is not active")
	// ErrLoanLimitReached means the member already holds the maximum number of open loans.
	ErrLoanLimitReached = errors.New("member has reached the open loan limit")
	// ErrLoanNotFound means no matching loan exists.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrNoOpenLoan means the book has no open loan to act on.
	ErrNoOpenLoan = errors.New("book has no open loan")
	// ErrLoanNotRenewable means the loan is overdue or closed and cannot be extended.
	ErrLoanNotRenewable = errors.New("loan cannot be renewed")
)

// IssueBook opens a loan: it claims one available copy, checks the
// member's standing and open loan count, and records the due date. The
// copy decrement is a conditional update, so two issues racing for the
// last copy cannot both succeed.
func (s *Store) IssueBook(bookID, memberID int32, now time.Time, loanDays, maxBooks int) (*model.Circulation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	member := &model.Member{}
	if err := tx.QueryRow(
		`SELECT id, status FROM member WHERE id = ?`, memberID,
	).Scan(&member.ID, &member.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Errorf("member %d not found", memberID)
		}
		return nil, err
	}
	if member.Status != model.MembershipActive {
		return nil, ErrMemberNotActive
	}

	var openLoans int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM circulation WHERE member_id = ? AND status IN ('issued', 'overdue')`,
		memberID,
	).Scan(&openLoans); err != nil {
		return nil, err
	}
	if maxBooks > 0 && openLoans >= maxBooks {
		return nil, ErrLoanLimitReached
	}

	result, err := tx.Exec(
		`UPDATE book SET available_copies = available_copies - 1, updated_ts = strftime('%s', 'now')
		 WHERE id = ? AND available_copies > 0`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM book WHERE id = ?`, bookID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, errors.Errorf("book %d not found", bookID)
		}
		return nil, ErrBookUnavailable
	}

	loan := &model.Circulation{
		BookID:     bookID,
		MemberID:   memberID,
		IssueTs:    now.Unix(),
		DueTs:      circulation.DueDate(now, loanDays).Unix(),
		Status:     model.CirculationIssued,
		FineStatus: model.FineNone,
	}
	stmt := `
	INSERT INTO circulation (book_id, member_id, issue_ts, due_ts, status, fine_status)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id, created_ts, updated_ts
	`
	if err := tx.QueryRow(stmt,
		loan.BookID, loan.MemberID, loan.IssueTs, loan.DueTs, loan.Status, loan.FineStatus,
	).Scan(&loan.ID, &loan.CreatedTs, &loan.UpdatedTs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.BookCache.Delete(bookID)
	log.Debug("Book issued",
		zap.Int32("book_id", bookID),
		zap.Int32("member_id", memberID),
		zap.Int32("circulation_id", loan.ID))
	return loan, nil
}

// ReturnBook closes the loan with the given id, settles the fine amount
// against the due date and releases the copy.
func (s *Store) ReturnBook(circulationID int32, now time.Time, finePerDay int) (*model.Circulation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loan, err := s.returnLoanTx(tx, circulationID, now, finePerDay)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.BookCache.Delete(loan.BookID)
	return loan, nil
}

// ReturnBookByBook closes the oldest open loan of a book. Scanning a QR
// code resolves to a book, not a loan, so this is the return path the
// scanner uses.
func (s *Store) ReturnBookByBook(bookID int32, now time.Time, finePerDay int) (*model.Circulation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var circulationID int32
	if err := tx.QueryRow(
		`SELECT id FROM circulation
		 WHERE book_id = ? AND status IN ('issued', 'overdue')
		 ORDER BY issue_ts ASC LIMIT 1`,
		bookID,
	).Scan(&circulationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenLoan
		}
		return nil, err
	}

	loan, err := s.returnLoanTx(tx, circulationID, now, finePerDay)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.BookCache.Delete(loan.BookID)
	return loan, nil
}

func (s *Store) returnLoanTx(tx *sql.Tx, circulationID int32, now time.Time, finePerDay int) (*model.Circulation, error) {
	loan := &model.Circulation{}
	if err := tx.QueryRow(
		`SELECT id, book_id, member_id, issue_ts, due_ts, return_ts, status, fine_amount, fine_status
		 FROM circulation WHERE id = ?`,
		circulationID,
	).Scan(
		&loan.ID, &loan.BookID, &loan.MemberID, &loan.IssueTs, &loan.DueTs,
		&loan.ReturnTs, &loan.Status, &loan.FineAmount, &loan.FineStatus,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if !loan.IsOpen() {
		return nil, ErrNoOpenLoan
	}

	loan.ReturnTs = now.Unix()
	loan.Status = model.CirculationReturned
	loan.FineAmount = circulation.DynamicFine(time.Unix(loan.DueTs, 0), now, finePerDay)
	if loan.FineAmount > 0 {
		loan.FineStatus = model.FineUnpaid
	} else {
		loan.FineStatus = model.FineNone
	}

	if _, err := tx.Exec(
		`UPDATE circulation
		 SET return_ts = ?, status = ?, fine_amount = ?, fine_status = ?, updated_ts = strftime('%s', 'now')
		 WHERE id = ?`,
		loan.ReturnTs, loan.Status, loan.FineAmount, loan.FineStatus, loan.ID,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		`UPDATE book SET available_copies = available_copies + 1, updated_ts = strftime('%s', 'now')
		 WHERE id = ? AND available_copies < total_copies`,
		loan.BookID,
	); err != nil {
		return nil, err
	}

	log.Debug("Book returned",
		zap.Int32("circulation_id", loan.ID),
		zap.Int32("book_id", loan.BookID),
		zap.Int("fine_amount", loan.FineAmount))
	return loan, nil
}

// RenewBook extends an open, not yet overdue loan by the given period,
// counted from the old due date. Overdue loans have to be returned and
// settled first.
func (s *Store) RenewBook(circulationID int32, now time.Time, days int) (*model.Circulation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loan := &model.Circulation{}
	if err := tx.QueryRow(
		`SELECT id, book_id, member_id, issue_ts, due_ts, status FROM circulation WHERE id = ?`,
		circulationID,
	).Scan(&loan.ID, &loan.BookID, &loan.MemberID, &loan.IssueTs, &loan.DueTs, &loan.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if loan.Status != model.CirculationIssued {
		return nil, ErrLoanNotRenewable
	}
	if circulation.OverdueDays(time.Unix(loan.DueTs, 0), now) > 0 {
		return nil, ErrLoanNotRenewable
	}

	loan.DueTs = circulation.DueDate(time.Unix(loan.DueTs, 0), days).Unix()
	if _, err := tx.Exec(
		`UPDATE circulation SET due_ts = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`,
		loan.DueTs, loan.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetCirculation(&model.FindCirculation{ID: &circulationID})
}

// MarkFinePaid settles the stored fine of a returned loan. The guard is
// part of the update, so a loan that is still open or already settled
// leaves zero rows affected.
func (s *Store) MarkFinePaid(circulationID int32) (*model.Circulation, error) {
	result, err := s.db.Exec(
		`UPDATE circulation
		 SET fine_status = 'paid', updated_ts = strftime('%s', 'now')
		 WHERE id = ? AND status = 'returned' AND fine_status = 'unpaid'`,
		circulationID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		loan, err := s.GetCirculation(&model.FindCirculation{ID: &circulationID})
		if err != nil {
			return nil, err
		}
		if loan == nil {
			return nil, ErrLoanNotFound
		}
		if err := circulation.CanPayFine(loan); err != nil {
			return nil, err
		}
		return nil, errors.Errorf("fine on loan %d is not payable", circulationID)
	}
	return s.GetCirculation(&model.FindCirculation{ID: &circulationID})
}

func (s *Store) GetCirculation(find *model.FindCirculation) (*model.Circulation, error) {
	list, err := s.ListCirculations(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListCirculations(find *model.FindCirculation) ([]*model.Circulation, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "circulation.id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "circulation.book_id = ?"), append(args, *v)
	}
	if v := find.MemberID; v != nil {
		where, args = append(where, "circulation.member_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "circulation.status = ?"), append(args, *v)
	}
	if v := find.FineStatus; v != nil {
		where, args = append(where, "circulation.fine_status = ?"), append(args, *v)
	}
	if find.OpenOnly {
		where = append(where, "circulation.status IN ('issued', 'overdue')")
	}
	if v := find.DueBefore; v != nil {
		where, args = append(where, "circulation.due_ts < ?"), append(args, *v)
	}

	query := `
		SELECT
			circulation.id,
			circulation.book_id,
			circulation.member_id,
			circulation.issue_ts,
			circulation.due_ts,
			circulation.return_ts,
			circulation.status,
			circulation.fine_amount,
			circulation.fine_status,
			circulation.created_ts,
			circulation.updated_ts,
			book.title AS book_title,
			member.name AS member_name,
			member.register_number AS member_register_number
		FROM circulation
		JOIN book ON book.id = circulation.book_id
		JOIN member ON member.id = circulation.member_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY circulation.issue_ts DESC`

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

	loanList := make([]*model.Circulation, 0)
	for rows.Next() {
		loan := &model.Circulation{}
		if err := rows.Scan(
			&loan.ID,
			&loan.BookID,
			&loan.MemberID,
			&loan.IssueTs,
			&loan.DueTs,
			&loan.ReturnTs,
			&loan.Status,
			&loan.FineAmount,
			&loan.FineStatus,
			&loan.CreatedTs,
			&loan.UpdatedTs,
			&loan.BookTitle,
			&loan.MemberName,
			&loan.MemberRegisterNumber,
		); err != nil {
			return nil, err
		}
		loanList = append(loanList, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return loanList, nil
}

// SweepOverdue flips issued loans past their due date to overdue and
// persists the fine accrued so far, so the record survives restarts.
// It returns the number of loans it touched.
func (s *Store) SweepOverdue(now time.Time, finePerDay int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id, due_ts FROM circulation WHERE status IN ('issued', 'overdue') AND due_ts < ?`,
		circulation.Midnight(now).Unix(),
	)
	if err != nil {
		return 0, err
	}

	type due struct {
		id    int32
		dueTs int64
	}
	dues := make([]due, 0)
	for rows.Next() {
		var d due
		if err := rows.Scan(&d.id, &d.dueTs); err != nil {
			rows.Close()
			return 0, err
		}
		dues = append(dues, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, d := range dues {
		fine := circulation.DynamicFine(time.Unix(d.dueTs, 0), now, finePerDay)
		if _, err := tx.Exec(
			`UPDATE circulation
			 SET status = 'overdue', fine_amount = ?, fine_status = 'unpaid', updated_ts = strftime('%s', 'now')
			 WHERE id = ?`,
			fine, d.id,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if len(dues) > 0 {
		log.Info("Overdue sweep finished", zap.Int("loans", len(dues)))
	}
	return len(dues), nil
}
