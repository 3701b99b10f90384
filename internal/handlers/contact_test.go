package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
	"github.com/mr-saberi/siite/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() map[string]string {
	return map[string]string{
		"name":    "Sara Ahmadi",
		"email":   "sara@example.com",
		"phone":   "09121234567",
		"subject": "Sofa order",
		"message": "Is the modern sofa available in blue?",
	}
}

func TestSubmitContact(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	rec := env.do(t, http.MethodPost, "/api/contact", validContact())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, i18n.T(i18n.Persian, i18n.ContactReceived), message(t, rec))

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "sara@example.com", env.mailer.sent[0].Email)
	assert.NotZero(t, env.mailer.sent[0].ID)

	admin := env.login(t, "admin", "admin123")
	list := decode[[]models.ContactMessage](t, env.do(t, http.MethodGet, "/api/contact", nil, admin))
	require.Len(t, list, 1)
	assert.Equal(t, "Sofa order", list[0].Subject)

	path := fmt.Sprintf("/api/contact/%d", list[0].ID)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, path, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, nil, admin).Code)
}

func TestSubmitContact_Validation(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	for field, value := range map[string]string{
		"name":    "Al",
		"email":   "not-an-email",
		"phone":   "0912",
		"subject": "Hi",
		"message": "too short",
	} {
		t.Run(field, func(t *testing.T) {
			body := validContact()
			body[field] = value
			rec := env.do(t, http.MethodPost, "/api/contact", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := env.do(t, http.MethodPost, "/api/contact", map[string]string{"email": "Sara <sara@example.com>"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.mailer.sent)
}

func TestSubmitContact_NotifyFailureIsNotSurfaced(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.mailer.err = errors.New("provider down")

	rec := env.do(t, http.MethodPost, "/api/contact", validContact())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func multipartImage(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	admin := env.login(t, "admin", "admin123")

	body, contentType := multipartImage(t, "image", pngBytes(t, 1600, 400))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(admin)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	url := decode[uploadResponse](t, rec).URL
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".jpg"))

	f, err := os.Open(filepath.Join(env.uploadDir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	defer f.Close()
	stored, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, maxImageWidth, stored.Width)
	assert.Equal(t, 300, stored.Height)

	served := env.do(t, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/uploads/", nil).Code)
}

func TestUploadImage_Rejected(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	admin := env.login(t, "admin", "admin123")

	for name, build := range map[string]func() (*bytes.Buffer, string){
		"not an image": func() (*bytes.Buffer, string) { return multipartImage(t, "image", []byte("hello")) },
		"wrong field":  func() (*bytes.Buffer, string) { return multipartImage(t, "file", pngBytes(t, 10, 10)) },
		"not multipart": func() (*bytes.Buffer, string) {
			return bytes.NewBufferString(`{"image":"x"}`), "application/json"
		},
	} {
		t.Run(name, func(t *testing.T) {
			body, contentType := build()
			req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
			req.Header.Set("Content-Type", contentType)
			req.AddCookie(admin)
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// pngHeader returns a PNG that declares width x height but carries no pixel
// data. Only the header is needed to read its dimensions.
func pngHeader(width, height uint32) []byte {
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr[:]...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestUploadImage_RejectsOversizedDimensions(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	admin := env.login(t, "admin", "admin123")

	header := pngHeader(50000, 50000)
	_, _, err := image.DecodeConfig(bytes.NewReader(header))
	require.NoError(t, err)

	body, contentType := multipartImage(t, "image", header)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(admin)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, i18n.T(i18n.Persian, i18n.UploadInvalid), message(t, rec))
	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	admin := env.login(t, "admin", "admin123")

	category := decode[models.Category](t, env.do(t, http.MethodPost, "/api/categories", livingRoom, admin))
	env.do(t, http.MethodPost, "/api/products", productBody("sofa", category.ID, true, 10), admin)
	env.do(t, http.MethodPost, "/api/products", productBody("lamp", 77, false, 10), admin)

	rec := env.do(t, http.MethodGet, "/api/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[store.DashboardStats](t, rec)
	assert.Equal(t, 1, stats.TotalCategories)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.FeaturedProducts)
	require.Len(t, stats.ProductsPerGroup, 2)

	orphaned := 0
	for _, g := range stats.ProductsPerGroup {
		if g.Orphaned {
			orphaned++
			assert.Equal(t, int64(77), g.CategoryID)
		}
	}
	assert.Equal(t, 1, orphaned)
}
