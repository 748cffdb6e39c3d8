package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (s *Store) CreatePost(create *model.Post) (*model.Post, error) {
	if create.RowStatus == "" {
		create.RowStatus = model.Normal
	}

	stmt := `
	INSERT INTO post (title, author, content, category, language, image_path, row_status)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id, created_ts, updated_ts
	`
	args := []any{
		create.Title, create.Author, create.Content, create.Category,
		create.Language, create.ImagePath, create.RowStatus,
	}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if err := s.db.QueryRow(stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}
	return create, nil
}

func (s *Store) GetPost(find *model.FindPost) (*model.Post, error) {
	list, err := s.ListPosts(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListPosts(find *model.FindPost) ([]*model.Post, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = ?"), append(args, *v)
	}
	if v := find.Language; v != nil {
		where, args = append(where, "language = ?"), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = ?"), append(args, *v)
	}

	query := `
		SELECT
			id,
			title,
			author,
			content,
			category,
			language,
			like_count,
			read_count,
			share_count,
			image_path,
			row_status,
			created_ts,
			updated_ts
		FROM post
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`

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

	postList := make([]*model.Post, 0)
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Author,
			&post.Content,
			&post.Category,
			&post.Language,
			&post.LikeCount,
			&post.ReadCount,
			&post.ShareCount,
			&post.ImagePath,
			&post.RowStatus,
			&post.CreatedTs,
			&post.UpdatedTs,
		); err != nil {
			return nil, err
		}
		postList = append(postList, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return postList, nil
}

// ArchivePost hides a post from the public feed without losing its
// likes and comments.
func (s *Store) ArchivePost(postID int32) error {
	result, err := s.db.Exec(
		`UPDATE post SET row_status = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`,
		model.Archived, postID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("post %d not found", postID)
	}
	return nil
}

// SetPostImagePath points the post at its converted cover image. The
// image worker calls this once the webp conversion is done.
func (s *Store) SetPostImagePath(postID int32, path string) error {
	result, err := s.db.Exec(
		`UPDATE post SET image_path = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`,
		path, postID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("post %d not found", postID)
	}
	return nil
}

// IncrementReadCount bumps the read counter. Every detail view counts,
// the same reader included.
func (s *Store) IncrementReadCount(postID int32) error {
	_, err := s.db.Exec(
		`UPDATE post SET read_count = read_count + 1 WHERE id = ?`,
		postID,
	)
	return err
}

// IncrementShareCount records that a share link was produced.
func (s *Store) IncrementShareCount(postID int32) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE post SET share_count = share_count + 1 WHERE id = ?`, postID,
	)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, errors.Errorf("post %d not found", postID)
	}

	var count int
	if err := tx.QueryRow(`SELECT share_count FROM post WHERE id = ?`, postID).Scan(&count); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// LikePost records one like per (post, session). Repeats are absorbed
// by the unique index, so the like count never double counts a session.
// It returns the current like count and whether this call added a like.
func (s *Store) LikePost(postID int32, sessionID string) (int, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT OR IGNORE INTO post_like (post_id, session_id) VALUES (?, ?)`,
		postID, sessionID,
	)
	if err != nil {
		return 0, false, err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, false, err
	}

	if inserted > 0 {
		if _, err := tx.Exec(
			`UPDATE post SET like_count = like_count + 1 WHERE id = ?`, postID,
		); err != nil {
			return 0, false, err
		}
	}

	var count int
	if err := tx.QueryRow(`SELECT like_count FROM post WHERE id = ?`, postID).Scan(&count); err != nil {
		return 0, false, errors.Wrap(err, "failed to read like count")
	}
	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return count, inserted > 0, nil
}

func (s *Store) CreatePostComment(create *model.PostComment) (*model.PostComment, error) {
	stmt := `
	INSERT INTO post_comment (post_id, author, content, is_approved)
	VALUES (?, ?, ?, ?)
	RETURNING id, created_ts
	`
	if err := s.db.QueryRow(stmt,
		create.PostID, create.Author, create.Content, create.IsApproved,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create comment")
	}
	return create, nil
}

func (s *Store) ListPostComments(find *model.FindPostComment) ([]*model.PostComment, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.PostID; v != nil {
		where, args = append(where, "post_id = ?"), append(args, *v)
	}
	if find.ApprovedOnly {
		where = append(where, "is_approved = 1")
	}

	query := `
		SELECT id, post_id, author, content, is_approved, created_ts
		FROM post_comment
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commentList := make([]*model.PostComment, 0)
	for rows.Next() {
		comment := &model.PostComment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.Author,
			&comment.Content,
			&comment.IsApproved,
			&comment.CreatedTs,
		); err != nil {
			return nil, err
		}
		commentList = append(commentList, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commentList, nil
}

// ApprovePostComment publishes a held comment.
func (s *Store) ApprovePostComment(commentID int32) error {
	result, err := s.db.Exec(
		`UPDATE post_comment SET is_approved = 1 WHERE id = ?`, commentID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("comment %d not found", commentID)
	}
	return nil
}

func (s *Store) DeletePostComment(commentID int32) error {
	result, err := s.db.Exec(`DELETE FROM post_comment WHERE id = ?`, commentID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("comment %d not found", commentID)
	}
	return nil
}
