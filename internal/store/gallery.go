package store

import (
	"context"
	"fmt"

	"github.com/mr-saberi/siite/internal/models"
)

// ListGalleryImages returns images in insertion order.
func (s *Store) ListGalleryImages(ctx context.Context) ([]models.GalleryImage, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, image, alt FROM gallery_images ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	images := []models.GalleryImage{}
	for rows.Next() {
		var g models.GalleryImage
		if err := rows.Scan(&g.ID, &g.Image, &g.Alt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		images = append(images, g)
	}
	return images, rows.Err()
}

func (s *Store) CreateGalleryImage(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error) {
	var created models.GalleryImage
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO gallery_images (image, alt) VALUES ($1, $2) RETURNING id, image, alt`,
		g.Image, g.Alt).Scan(&created.ID, &created.Image, &created.Alt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (s *Store) DeleteGalleryImage(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}
