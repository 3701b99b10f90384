package handlers

import (
	"net/http"
	"strings"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// blankIfSet reports a field that was supplied in a partial update but empty.
func blankIfSet(s *string) bool {
	return s != nil && blank(*s)
}

func validateCategory(c *models.Category) error {
	switch {
	case blank(c.Name):
		return invalid(i18n.CategoryCreateFailed, "name")
	case blank(c.NameEn):
		return invalid(i18n.CategoryCreateFailed, "nameEn")
	case blank(c.Image):
		return invalid(i18n.CategoryCreateFailed, "image")
	}
	return nil
}

func validateCategoryPatch(p *models.CategoryPatch) error {
	switch {
	case blankIfSet(p.Name):
		return invalid(i18n.CategoryUpdateFailed, "name")
	case blankIfSet(p.NameEn):
		return invalid(i18n.CategoryUpdateFailed, "nameEn")
	case blankIfSet(p.Image):
		return invalid(i18n.CategoryUpdateFailed, "image")
	}
	return nil
}

func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, internal(i18n.CategoriesLoadFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	c, err := a.Store.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.CategoriesLoadFailed, err))
		return
	}
	if c == nil {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateCategory(&c); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.Store.CreateCategory(r.Context(), &c)
	if err != nil {
		writeError(w, r, internal(i18n.CategoryCreateFailed, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	var patch models.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateCategoryPatch(&patch); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := a.Store.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, internal(i18n.CategoryUpdateFailed, err))
		return
	}
	if c == nil {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory leaves products that reference the category untouched.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	deleted, err := a.Store.DeleteCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}
	if !deleted {
		writeError(w, r, notFound(i18n.CategoryNotFound))
		return
	}
	writeMessage(w, r, http.StatusOK, i18n.CategoryDeleted)
}
