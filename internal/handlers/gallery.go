package handlers

import (
	"net/http"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
)

func validateGalleryImage(g *models.GalleryImage) error {
	switch {
	case blank(g.Image):
		return invalid(i18n.GalleryAddFailed, "image")
	case blank(g.Alt):
		return invalid(i18n.GalleryAddFailed, "alt")
	}
	return nil
}

func (a *API) ListGallery(w http.ResponseWriter, r *http.Request) {
	images, err := a.Store.ListGalleryImages(r.Context())
	if err != nil {
		writeError(w, r, internal(i18n.GalleryLoadFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (a *API) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var g models.GalleryImage
	if err := decodeJSON(w, r, &g); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateGalleryImage(&g); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.Store.CreateGalleryImage(r.Context(), &g)
	if err != nil {
		writeError(w, r, internal(i18n.GalleryAddFailed, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.ImageNotFound))
		return
	}
	deleted, err := a.Store.DeleteGalleryImage(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}
	if !deleted {
		writeError(w, r, notFound(i18n.ImageNotFound))
		return
	}
	writeMessage(w, r, http.StatusOK, i18n.ImageDeleted)
}
