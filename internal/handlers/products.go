package handlers

import (
	"net/http"
	"strconv"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
)

func validateProduct(p *models.Product) error {
	switch {
	case blank(p.Name):
		return invalid(i18n.ProductCreateFailed, "name")
	case blank(p.Description):
		return invalid(i18n.ProductCreateFailed, "description")
	case blank(p.Image):
		return invalid(i18n.ProductCreateFailed, "image")
	case p.CategoryID <= 0:
		return invalid(i18n.ProductCreateFailed, "categoryId")
	case p.Price < 0:
		return invalid(i18n.ProductCreateFailed, "price")
	}
	return nil
}

func validateProductPatch(p *models.ProductPatch) error {
	switch {
	case blankIfSet(p.Name):
		return invalid(i18n.ProductUpdateFailed, "name")
	case blankIfSet(p.Description):
		return invalid(i18n.ProductUpdateFailed, "description")
	case blankIfSet(p.Image):
		return invalid(i18n.ProductUpdateFailed, "image")
	case p.CategoryID != nil && *p.CategoryID <= 0:
		return invalid(i18n.ProductUpdateFailed, "categoryId")
	case p.Price != nil && *p.Price < 0:
		return invalid(i18n.ProductUpdateFailed, "price")
	}
	return nil
}

// ListProducts honours ?categoryId= when it is a positive integer and
// ignores it otherwise.
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter models.ProductFilter
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			filter.CategoryID = id
		}
	}
	a.listProducts(w, r, filter)
}

func (a *API) ListFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	a.listProducts(w, r, models.ProductFilter{FeaturedOnly: true})
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request, filter models.ProductFilter) {
	products, err := a.Store.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, internal(i18n.ProductsLoadFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	p, err := a.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.ProductsLoadFailed, err))
		return
	}
	if p == nil {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateProduct(&p); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.Store.CreateProduct(r.Context(), &p)
	if err != nil {
		writeError(w, r, internal(i18n.ProductCreateFailed, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	var patch models.ProductPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateProductPatch(&patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.Store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, internal(i18n.ProductUpdateFailed, err))
		return
	}
	if p == nil {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	deleted, err := a.Store.DeleteProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}
	if !deleted {
		writeError(w, r, notFound(i18n.ProductNotFound))
		return
	}
	writeMessage(w, r, http.StatusOK, i18n.ProductDeleted)
}
