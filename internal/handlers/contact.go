package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mr-saberi/siite/internal/i18n"
	"github.com/mr-saberi/siite/internal/models"
)

const notifyTimeout = 10 * time.Second

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func atLeast(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

func (c *contactRequest) validate() error {
	field := ""
	switch {
	case !atLeast(c.Name, 3):
		field = "name"
	case !validEmail(c.Email):
		field = "email"
	case !atLeast(c.Phone, 10):
		field = "phone"
	case !atLeast(c.Subject, 3):
		field = "subject"
	case !atLeast(c.Message, 10):
		field = "message"
	default:
		return nil
	}
	return invalid(i18n.ContactInvalid, field)
}

// validEmail accepts a bare address only, not "Name <addr>".
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

func (a *API) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := a.Store.CreateContactMessage(r.Context(), &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}

	// The message is already stored, so a failed notification is only logged.
	if a.Mailer != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), notifyTimeout)
		defer cancel()
		if err := a.Mailer.NotifyContact(ctx, msg); err != nil {
			slog.Error("Failed to send contact notification", "contact_id", msg.ID, "error", err)
		}
	}

	writeMessage(w, r, http.StatusCreated, i18n.ContactReceived)
}

func (a *API) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := a.Store.ListContactMessages(r.Context())
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (a *API) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, notFound(i18n.ContactNotFound))
		return
	}
	deleted, err := a.Store.DeleteContactMessage(r.Context(), id)
	if err != nil {
		writeError(w, r, internal(i18n.InternalError, err))
		return
	}
	if !deleted {
		writeError(w, r, notFound(i18n.ContactNotFound))
		return
	}
	writeMessage(w, r, http.StatusOK, i18n.ContactDeleted)
}
