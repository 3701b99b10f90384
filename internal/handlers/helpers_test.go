package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mr-saberi/siite/internal/auth"
	"github.com/mr-saberi/siite/internal/models"
	"github.com/mr-saberi/siite/internal/session"
	"github.com/mr-saberi/siite/internal/store"
	"github.com/stretchr/testify/require"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

type recordingMailer struct {
	mu   sync.Mutex
	sent []models.ContactMessage
	err  error
}

func (m *recordingMailer) NotifyContact(_ context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *msg)
	return m.err
}

type testEnv struct {
	handler   http.Handler
	store     *store.Store
	api       *API
	mailer    *recordingMailer
	uploadDir string
}

// newTestEnv wires the API to a migrated SQLite database holding an admin
// (admin/admin123) and a regular user (editor/editor123).
func newTestEnv(t *testing.T, opts RouterOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewStore(ctx, store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	for _, u := range []struct {
		name, password string
		admin          bool
	}{{"admin", "admin123", true}, {"editor", "editor123", false}} {
		cred, err := auth.HashPassword(u.password)
		require.NoError(t, err)
		_, err = st.CreateUser(ctx, u.name, cred, u.admin)
		require.NoError(t, err)
	}

	mailer := &recordingMailer{}
	api := &API{
		Store:     st,
		Sessions:  session.NewManager(session.NewMemoryStore(), st, session.Options{HashKey: testHashKey, TTL: time.Hour}),
		Verifier:  auth.NewVerifier(st, true),
		Mailer:    mailer,
		UploadDir: t.TempDir(),
	}
	return &testEnv{
		handler:   NewRouter(api, opts),
		store:     st,
		api:       api,
		mailer:    mailer,
		uploadDir: api.UploadDir,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[messageResponse](t, rec).Message
}
