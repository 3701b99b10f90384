package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mr-saberi/siite/internal/models"
)

const productColumns = `id, name, name_en, description, image, category_id, featured, specifications, price`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.NameEn, &p.Description, &p.Image, &p.CategoryID, &p.Featured, &p.Specifications, &p.Price); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products ordered by name. The filter modes are
// exclusive: a category filter ignores FeaturedOnly.
func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	switch {
	case filter.CategoryID > 0:
		query += ` WHERE category_id = $1`
		args = append(args, filter.CategoryID)
	case filter.FeaturedOnly:
		query += ` WHERE featured = $1`
		args = append(args, true)
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, name_en, description, image, category_id, featured, specifications, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns
	created, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.Name, p.NameEn, p.Description, p.Image, p.CategoryID, p.Featured, p.Specifications, p.Price))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return s.GetProduct(ctx, id)
	}

	var u updateBuilder
	setIf(&u, "name", patch.Name)
	setIf(&u, "name_en", patch.NameEn)
	setIf(&u, "description", patch.Description)
	setIf(&u, "image", patch.Image)
	setIf(&u, "category_id", patch.CategoryID)
	setIf(&u, "featured", patch.Featured)
	setIf(&u, "specifications", patch.Specifications)
	setIf(&u, "price", patch.Price)

	query, args := u.build("products", id, productColumns)
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}
