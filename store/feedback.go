package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (s *Store) CreateFeedback(create *model.Feedback) (*model.Feedback, error) {
	if create.Status == "" {
		create.Status = model.FeedbackPending
	}

	stmt := `
	INSERT INTO feedback (member_id, book_id, type, status, rating, content)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id, created_ts
	`
	args := []any{create.MemberID, create.BookID, create.Type, create.Status, create.Rating, create.Content}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if err := s.db.QueryRow(stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create feedback")
	}
	return create, nil
}

func (s *Store) GetFeedback(find *model.FindFeedback) (*model.Feedback, error) {
	list, err := s.ListFeedback(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListFeedback(find *model.FindFeedback) ([]*model.Feedback, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "feedback.id = ?"), append(args, *v)
	}
	if v := find.MemberID; v != nil {
		where, args = append(where, "feedback.member_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "feedback.book_id = ?"), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "feedback.type = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "feedback.status = ?"), append(args, *v)
	}

	query := `
		SELECT
			feedback.id,
			feedback.member_id,
			feedback.book_id,
			feedback.type,
			feedback.status,
			feedback.rating,
			feedback.content,
			feedback.created_ts,
			IFNULL(member.name, '') AS member_name,
			IFNULL(book.title, '') AS book_title
		FROM feedback
		LEFT JOIN member ON member.id = feedback.member_id
		LEFT JOIN book ON book.id = feedback.book_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY feedback.created_ts DESC`

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

	feedbackList := make([]*model.Feedback, 0)
	for rows.Next() {
		feedback := &model.Feedback{}
		if err := rows.Scan(
			&feedback.ID,
			&feedback.MemberID,
			&feedback.BookID,
			&feedback.Type,
			&feedback.Status,
			&feedback.Rating,
			&feedback.Content,
			&feedback.CreatedTs,
			&feedback.MemberName,
			&feedback.BookTitle,
		); err != nil {
			return nil, err
		}
		feedbackList = append(feedbackList, feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feedbackList, nil
}

// ModerateFeedback moves a pending entry to approved or rejected.
func (s *Store) ModerateFeedback(feedbackID int32, status model.FeedbackStatus) (*model.Feedback, error) {
	result, err := s.db.Exec(
		`UPDATE feedback SET status = ? WHERE id = ?`,
		status, feedbackID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.Errorf("feedback %d not found", feedbackID)
	}
	return s.GetFeedback(&model.FindFeedback{ID: &feedbackID})
}
