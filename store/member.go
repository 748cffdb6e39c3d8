package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (s *Store) CreateMember(create *model.Member) (*model.Member, error) {
	if create.Status == "" {
		create.Status = model.MembershipActive
	}

	stmt := `
	INSERT INTO member (
		register_number, name, email, phone, class, membership_type, status
	)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id, created_ts, updated_ts
	`
	args := []any{
		create.RegisterNumber, create.Name, create.Email, create.Phone,
		create.Class, create.MembershipType, create.Status,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if err := tx.QueryRow(stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create member")
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.MemberCache.Store(create.ID, create)
	return create, nil
}

func (s *Store) GetMember(find *model.FindMember) (*model.Member, error) {
	if find.ID != nil {
		if cache, ok := s.MemberCache.Load(*find.ID); ok {
			return cache.(*model.Member), nil
		}
	}

	list, err := s.ListMembers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	member := list[0]
	s.MemberCache.Store(member.ID, member)
	return member, nil
}

func (s *Store) ListMembers(find *model.FindMember) ([]*model.Member, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.RegisterNumber; v != nil {
		where, args = append(where, "register_number = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name LIKE ?"), append(args, "%"+*v+"%")
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	if v := find.Class; v != nil {
		where, args = append(where, "class = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}

	query := `
		SELECT
			id,
			register_number,
			name,
			email,
			phone,
			class,
			membership_type,
			status,
			created_ts,
			updated_ts
		FROM member
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY register_number ASC`

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

	memberList := make([]*model.Member, 0)
	for rows.Next() {
		member := &model.Member{}
		if err := rows.Scan(
			&member.ID,
			&member.RegisterNumber,
			&member.Name,
			&member.Email,
			&member.Phone,
			&member.Class,
			&member.MembershipType,
			&member.Status,
			&member.CreatedTs,
			&member.UpdatedTs,
		); err != nil {
			return nil, err
		}
		memberList = append(memberList, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return memberList, nil
}

func (s *Store) UpdateMember(memberID int32, update *model.MemberUpdateRequest) (*model.Member, error) {
	set, args := []string{"updated_ts = strftime('%s', 'now')"}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.Email; v != nil {
		set, args = append(set, "email = ?"), append(args, *v)
	}
	if v := update.Phone; v != nil {
		set, args = append(set, "phone = ?"), append(args, *v)
	}
	if v := update.Class; v != nil {
		set, args = append(set, "class = ?"), append(args, *v)
	}
	if v := update.MembershipType; v != nil {
		set, args = append(set, "membership_type = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	args = append(args, memberID)

	stmt := `UPDATE member SET ` + strings.Join(set, ", ") + ` WHERE id = ?`

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", stmt, args))

	if _, err := s.db.Exec(stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update member")
	}

	s.MemberCache.Delete(memberID)
	return s.GetMember(&model.FindMember{ID: &memberID})
}

// NextRegisterNumber returns the smallest unused register number, treating
// existing numbers as integers. Assignment happens at creation time, so two
// concurrent callers can see the same value; the UNIQUE constraint on
// register_number rejects the loser.
func (s *Store) NextRegisterNumber() (string, error) {
	var next int64
	stmt := `
	SELECT IFNULL(MAX(CAST(register_number AS INTEGER)), 0) + 1
	FROM member
	WHERE register_number GLOB '[0-9]*'
	`
	if err := s.db.QueryRow(stmt).Scan(&next); err != nil {
		return "", errors.Wrap(err, "failed to get next register number")
	}
	return fmt.Sprintf("%d", next), nil
}

// DeleteMember removes a member that has no open loans.
func (s *Store) DeleteMember(memberID int32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var openLoans int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM circulation WHERE member_id = ? AND status IN ('issued', 'overdue')`,
		memberID,
	).Scan(&openLoans); err != nil {
		return err
	}
	if openLoans > 0 {
		return errors.Errorf("member %d still has %d open loans", memberID, openLoans)
	}

	result, err := tx.Exec(`DELETE FROM member WHERE id = ?`, memberID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("member %d not found", memberID)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.MemberCache.Delete(memberID)
	return nil
}
