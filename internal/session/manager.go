// Package session issues and resolves server-side login sessions. The client
// only ever holds an opaque token inside a signed cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/mr-saberi/siite/internal/models"
)

const (
	DefaultCookieName = "pasha_session"
	DefaultTTL        = 8 * time.Hour

	tokenKey = "sid"
)

// UserLookup re-reads the user behind a session on every resolve, so a
// deleted user or a revoked admin flag takes effect immediately.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type Options struct {
	CookieName string
	TTL        time.Duration
	// HashKey signs the cookie.
	HashKey []byte
	Secure  bool
	Domain  string
}

type Manager struct {
	store   Store
	users   UserLookup
	cookies *sessions.CookieStore
	name    string
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(store Store, users UserLookup, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	cookies := sessions.NewCookieStore(opts.HashKey)
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteStrictMode
	cookies.Options.Secure = opts.Secure
	if opts.Domain != "" {
		cookies.Options.Domain = opts.Domain
	}
	cookies.MaxAge(int(opts.TTL / time.Second))

	return &Manager{
		store:   store,
		users:   users,
		cookies: cookies,
		name:    opts.CookieName,
		ttl:     opts.TTL,
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) CookieName() string {
	return m.name
}

// Create starts a session for identity and returns its token.
func (m *Manager) Create(ctx context.Context, identity *models.Identity) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := m.now()
	s := &models.Session{
		SessionID: token,
		UserID:    identity.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve returns the identity behind token, or nil when the token is
// unknown, expired, destroyed or its user is gone.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}
	s, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, token); err != nil {
			slog.Warn("Failed to drop expired session", "error", err)
		}
		return nil, nil
	}

	user, err := m.users.GetUser(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return user.Identity(), nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// Prune removes expired sessions from the store. Expiry is already enforced
// by Resolve; pruning only bounds the store's size.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// RunPruner sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.Prune(ctx)
			if err != nil {
				slog.Error("Session prune failed", "error", err)
				continue
			}
			slog.Debug("Pruned expired sessions", "removed", n)
		}
	}
}

// Login creates a session and writes its cookie. Any session already
// carried by the request is destroyed first.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, identity *models.Identity) error {
	cookie, _ := m.cookies.Get(r, m.name)
	if old, ok := cookie.Values[tokenKey].(string); ok {
		if err := m.Destroy(r.Context(), old); err != nil {
			slog.Warn("Failed to destroy previous session", "error", err)
		}
	}

	token, err := m.Create(r.Context(), identity)
	if err != nil {
		return err
	}
	cookie.Values[tokenKey] = token
	return cookie.Save(r, w)
}

// FromRequest resolves the identity carried by the request's cookie.
func (m *Manager) FromRequest(r *http.Request) (*models.Identity, error) {
	token := m.token(r)
	return m.Resolve(r.Context(), token)
}

// Logout destroys the request's session and expires the cookie. The cookie
// is expired even when the store fails to destroy the session; that error is
// still returned.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := m.cookies.Get(r, m.name)
	var destroyErr error
	if token, ok := cookie.Values[tokenKey].(string); ok {
		destroyErr = m.Destroy(r.Context(), token)
	}
	delete(cookie.Values, tokenKey)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(r, w); err != nil {
		return err
	}
	return destroyErr
}

func (m *Manager) token(r *http.Request) string {
	cookie, err := m.cookies.Get(r, m.name)
	if err != nil {
		return ""
	}
	token, _ := cookie.Values[tokenKey].(string)
	return token
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type identityKey struct{}

// WithIdentity attaches an authenticated identity to ctx.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*models.Identity)
	return id, ok && id != nil
}
