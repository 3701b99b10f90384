package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mr-saberi/siite/internal/auth"
	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
	"github.com/mr-saberi/siite/internal/notify"
	"github.com/mr-saberi/siite/internal/session"
	"github.com/mr-saberi/siite/internal/store"
)

// CatalogStore is the part of the Entity Store the API reads and writes.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	ListGalleryImages(ctx context.Context) ([]models.GalleryImage, error)
	CreateGalleryImage(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id int64) (bool, error)

	CreateContactMessage(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id int64) (bool, error)

	GetDashboardStats(ctx context.Context) (*store.DashboardStats, error)
}

// API holds the dependencies of the JSON handlers.
type API struct {
	Store     CatalogStore
	Sessions  *session.Manager
	Verifier  *auth.Verifier
	Mailer    notify.Mailer
	UploadDir string
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return invalid(i18n.InvalidJSON, "")
	}
	return nil
}

// pathID parses the {id} wildcard. Anything but a positive integer cannot
// name an entity, so callers answer 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
