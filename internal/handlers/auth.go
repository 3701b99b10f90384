package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/csrf"
	"github.com/mr-saberi/siite/internal/auth"
	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if utf8.RuneCountInString(req.Username) < 3 || utf8.RuneCountInString(req.Password) < 6 {
		writeError(w, r, invalid(i18n.ValidationFailed, "credentials"))
		return
	}

	identity, err := a.Verifier.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Info("Login failed", "ip", clientIP(r))
			writeError(w, r, &AuthError{Key: i18n.InvalidCredentials})
			return
		}
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}

	if err := a.Sessions.Login(w, r, identity); err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}

	slog.Info("Login successful", "user_id", identity.ID)
	writeJSON(w, http.StatusOK, identity)
}

// Logout answers 200 with or without a session. The cookie is expired even
// when the session store fails, in which case the answer is 500.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Logout(w, r); err != nil {
		writeError(w, r, internal(i18n.LogoutFailed, err))
		return
	}
	writeMessage(w, r, http.StatusOK, i18n.LogoutSucceeded)
}

func (a *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := session.IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, &AuthError{Key: i18n.NotLoggedIn})
		return
	}
	writeJSON(w, http.StatusOK, id)
}

// CSRFToken hands the masked CSRF token to the client in a header. The token
// must be echoed back in X-CSRF-Token on every mutating request.
func (a *API) CSRFToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-CSRF-Token", csrf.Token(r))
	w.WriteHeader(http.StatusNoContent)
}
