package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/session"
)

// Guard gates handlers on the identity resolved from the session cookie.
// It never mutates anything; a rejected request does not reach next.
type Guard struct {
	Sessions *session.Manager
}

// RequireAuthenticated rejects requests without a live session with 401 and
// attaches the identity to the request context otherwise.
func (g *Guard) RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Sessions.FromRequest(r)
		if err != nil {
			writeError(w, r, internal(i18n.InternalError, err))
			return
		}
		if id == nil {
			slog.Debug("Guard: no session", "path", r.URL.Path)
			writeError(w, r, &AuthError{Key: i18n.LoginRequired})
			return
		}
		next(w, r.WithContext(session.WithIdentity(r.Context(), id)))
	}
}

// RequireAdmin implies RequireAuthenticated and answers 403 to non-admins.
func (g *Guard) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.RequireAuthenticated(func(w http.ResponseWriter, r *http.Request) {
		id, _ := session.IdentityFrom(r.Context())
		if !id.IsAdmin {
			slog.Warn("Guard: admin required", "path", r.URL.Path, "user_id", id.ID)
			writeError(w, r, &AuthorizationError{})
			return
		}
		next(w, r)
	})
}
