package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/nfnt/resize"
)

const (
	maxUploadBytes = 10 << 20
	maxImageWidth  = 1200
	// maxImagePixels bounds the decoded size; a small compressed file can
	// declare dimensions that would need gigabytes once decoded.
	maxImagePixels = 40_000_000
)

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage accepts a PNG or JPEG in the "image" form field, scales it
// down to maxImageWidth and stores it as JPEG under UploadDir. The returned
// URL can be used as the image of a category, product or gallery entry.
func (a *API) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, invalid(i18n.UploadInvalid, "image"))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, invalid(i18n.UploadInvalid, "image"))
		return
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil || (format != "png" && format != "jpeg") {
		writeError(w, r, invalid(i18n.UploadInvalid, "image"))
		return
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		writeError(w, r, invalid(i18n.UploadInvalid, "image"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, internal(i18n.UploadFailed, err))
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, r, invalid(i18n.UploadInvalid, "image"))
		return
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	name, err := a.saveJPEG(img)
	if err != nil {
		writeError(w, r, internal(i18n.UploadFailed, err))
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{URL: "/uploads/" + name})
}

func (a *API) saveJPEG(img image.Image) (string, error) {
	if err := os.MkdirAll(a.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.New().String() + ".jpg"
	out, err := os.Create(filepath.Join(a.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}
	return name, nil
}

// uploadsHandler serves stored uploads without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			writeMessage(w, r, http.StatusNotFound, i18n.RouteNotFound)
			return
		}
		files.ServeHTTP(w, r)
	})
}
