package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mr-saberi/siite/internal/models"
)

const categoryColumns = `id, name, name_en, image`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.NameEn, &c.Image); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, name_en, image)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns
	created, err := scanCategory(s.DB.QueryRowContext(ctx, query, c.Name, c.NameEn, c.Image))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// UpdateCategory changes only the fields set in patch. It returns nil when
// the category does not exist.
func (s *Store) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	if patch.Empty() {
		return s.GetCategory(ctx, id)
	}

	var u updateBuilder
	setIf(&u, "name", patch.Name)
	setIf(&u, "name_en", patch.NameEn)
	setIf(&u, "image", patch.Image)

	query, args := u.build("categories", id, categoryColumns)
	c, err := scanCategory(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// DeleteCategory does not touch products that reference the category.
func (s *Store) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}
