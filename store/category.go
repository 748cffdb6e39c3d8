package store

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (s *Store) CreateCategory(create *model.Category) (*model.Category, error) {
	stmt := `
	INSERT INTO category (name)
	VALUES (?)
	RETURNING id, created_ts
	`
	if err := s.db.QueryRow(stmt, create.Name).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}
	return create, nil
}

func (s *Store) GetCategory(find *model.FindCategory) (*model.Category, error) {
	list, err := s.ListCategories(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListCategories(find *model.FindCategory) ([]*model.Category, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name = ?"), append(args, *v)
	}

	query := `
		SELECT id, name, created_ts
		FROM category
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC`

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categoryList := make([]*model.Category, 0)
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedTs); err != nil {
			return nil, err
		}
		categoryList = append(categoryList, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categoryList, nil
}

// DeleteCategory removes a category that no book references.
func (s *Store) DeleteCategory(categoryID int32) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookCount int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM book WHERE category_id = ?`, categoryID,
	).Scan(&bookCount); err != nil {
		return err
	}
	if bookCount > 0 {
		return errors.Errorf("category %d still has %d books", categoryID, bookCount)
	}

	result, err := tx.Exec(`DELETE FROM category WHERE id = ?`, categoryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("category %d not found", categoryID)
	}
	return tx.Commit()
}

// ListCategoryBookCounts returns every category with its book count and
// a comma separated sample of its titles. sortconcat is the custom
// aggregate registered at driver init.
func (s *Store) ListCategoryBookCounts() ([]*model.CategoryBookCount, error) {
	query := `
		SELECT
			category.id,
			category.name,
			COUNT(book.id) AS book_count,
			IFNULL(sortconcat(book.id, book.title), '') AS titles
		FROM category
		LEFT JOIN book ON book.category_id = category.id
		GROUP BY category.id
		ORDER BY category.name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.CategoryBookCount, 0)
	for rows.Next() {
		row := &model.CategoryBookCount{}
		if err := rows.Scan(&row.ID, &row.Name, &row.BookCount, &row.Titles); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
