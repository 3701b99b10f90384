package store

import (
	"context"
	"fmt"
)

type DashboardStats struct {
	TotalCategories  int                    `json:"totalCategories"`
	TotalProducts    int                    `json:"totalProducts"`
	FeaturedProducts int                    `json:"featuredProducts"`
	GalleryImages    int                    `json:"galleryImages"`
	ContactMessages  int                    `json:"contactMessages"`
	ProductsPerGroup []CategoryProductCount `json:"productsPerCategory"`
}

// CategoryProductCount is keyed by the category id stored on the products.
// Orphaned tracks ids whose category row no longer exists.
type CategoryProductCount struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	ProductCount int    `json:"productCount"`
	Orphaned     bool   `json:"orphaned"`
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{ProductsPerGroup: []CategoryProductCount{}}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM categories`, &stats.TotalCategories},
		{`SELECT COUNT(*) FROM products`, &stats.TotalProducts},
		{`SELECT COUNT(*) FROM products WHERE featured = TRUE`, &stats.FeaturedProducts},
		{`SELECT COUNT(*) FROM gallery_images`, &stats.GalleryImages},
		{`SELECT COUNT(*) FROM contact_messages`, &stats.ContactMessages},
	}
	for _, c := range counts {
		if err := s.DB.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.category_id, COALESCE(c.name, ''), COUNT(p.id), c.id IS NULL
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		GROUP BY p.category_id, c.name, c.id
		ORDER BY COUNT(p.id) DESC, p.category_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cpc CategoryProductCount
		if err := rows.Scan(&cpc.CategoryID, &cpc.CategoryName, &cpc.ProductCount, &cpc.Orphaned); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stats.ProductsPerGroup = append(stats.ProductsPerGroup, cpc)
	}
	return stats, rows.Err()
}
