package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mr-saberi/siite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[int64]*models.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	return f[id], nil
}

type brokenUsers struct{}

func (brokenUsers) GetUser(context.Context, int64) (*models.User, error) {
	return nil, errors.New("db down")
}

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T, users UserLookup) (*Manager, *MemoryStore, *time.Time) {
	t.Helper()
	store := NewMemoryStore()
	m := NewManager(store, users, Options{HashKey: testKey, TTL: time.Hour})
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return now })
	return m, store, &now
}

func adminUsers() fakeUsers {
	return fakeUsers{1: {ID: 1, Username: "admin", IsAdmin: true}}
}

func TestManager_CreateResolve(t *testing.T) {
	m, _, _ := newTestManager(t, adminUsers())
	ctx := context.Background()

	token, err := m.Create(ctx, &models.Identity{ID: 1, Username: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.Len(t, token, 64)

	id, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{ID: 1, Username: "admin", IsAdmin: true}, id)

	other, err := m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestManager_ResolveUnknownToken(t *testing.T) {
	m, _, _ := newTestManager(t, adminUsers())

	id, err := m.Resolve(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = m.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestManager_Expiry(t *testing.T) {
	m, store, now := newTestManager(t, adminUsers())
	ctx := context.Background()

	token, err := m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)

	*now = now.Add(59 * time.Minute)
	id, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, id)

	*now = now.Add(time.Minute)
	id, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, 0, store.Len())
}

func TestManager_Destroy(t *testing.T) {
	m, _, _ := newTestManager(t, adminUsers())
	ctx := context.Background()

	token, err := m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, token))

	id, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestManager_ResolveRereadsUser(t *testing.T) {
	users := adminUsers()
	m, _, _ := newTestManager(t, users)
	ctx := context.Background()

	token, err := m.Create(ctx, &models.Identity{ID: 1, IsAdmin: true})
	require.NoError(t, err)

	users[1].IsAdmin = false
	id, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, id.IsAdmin)

	delete(users, 1)
	id, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestManager_ResolveUserLookupError(t *testing.T) {
	m, _, _ := newTestManager(t, brokenUsers{})
	ctx := context.Background()

	token, err := m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	assert.Error(t, err)
}

func TestManager_Prune(t *testing.T) {
	m, store, now := newTestManager(t, adminUsers())
	ctx := context.Background()

	_, err := m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)
	*now = now.Add(30 * time.Minute)
	_, err = m.Create(ctx, &models.Identity{ID: 1})
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	removed, err := m.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestManager_RunPrunerStopsOnCancel(t *testing.T) {
	m, _, _ := newTestManager(t, adminUsers())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunPruner(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", DefaultCookieName)
	return nil
}

func TestManager_LoginCookieRoundTrip(t *testing.T) {
	m, store, _ := newTestManager(t, adminUsers())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	require.NoError(t, m.Login(rec, req, &models.Identity{ID: 1, Username: "admin", IsAdmin: true}))

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, 1, store.Len())

	next := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	next.AddCookie(cookie)
	id, err := m.FromRequest(next)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "admin", id.Username)
}

func TestManager_LoginReplacesPreviousSession(t *testing.T) {
	m, store, _ := newTestManager(t, adminUsers())
	identity := &models.Identity{ID: 1, Username: "admin"}

	first := httptest.NewRecorder()
	require.NoError(t, m.Login(first, httptest.NewRequest(http.MethodPost, "/", nil), identity))
	old := sessionCookie(t, first)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(old)
	second := httptest.NewRecorder()
	require.NoError(t, m.Login(second, req, identity))

	assert.Equal(t, 1, store.Len())

	stale := httptest.NewRequest(http.MethodGet, "/", nil)
	stale.AddCookie(old)
	id, err := m.FromRequest(stale)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestManager_Logout(t *testing.T) {
	m, store, _ := newTestManager(t, adminUsers())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), &models.Identity{ID: 1}))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	require.NoError(t, m.Logout(out, req))

	assert.Equal(t, 0, store.Len())
	cleared := sessionCookie(t, out)
	assert.Less(t, cleared.MaxAge, 0)

	after := httptest.NewRequest(http.MethodGet, "/", nil)
	after.AddCookie(cookie)
	id, err := m.FromRequest(after)
	require.NoError(t, err)
	assert.Nil(t, id)
}

type undeletableStore struct {
	*MemoryStore
}

func (undeletableStore) Delete(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestManager_LogoutExpiresCookieWhenStoreFails(t *testing.T) {
	m := NewManager(undeletableStore{NewMemoryStore()}, adminUsers(), Options{HashKey: testKey, TTL: time.Hour})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), &models.Identity{ID: 1}))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	err := m.Logout(out, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")

	cleared := sessionCookie(t, out)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestManager_TamperedCookie(t *testing.T) {
	m, _, _ := newTestManager(t, adminUsers())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged"})
	id, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), &models.Identity{ID: 7})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), id.ID)
}
