// Package notify tells the shop owner about new contact form submissions.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mr-saberi/siite/internal/models"
	"github.com/resend/resend-go/v2"
)

type Mailer interface {
	NotifyContact(ctx context.Context, msg *models.ContactMessage) error
}

// emailSender is the part of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendMailer struct {
	emails emailSender
	from   string
	to     []string
}

// NewResendMailer sends from `from` to every comma-separated address in `to`.
func NewResendMailer(apiKey, from, to string) *ResendMailer {
	client := resend.NewClient(apiKey)
	return newResendMailer(client.Emails, from, to)
}

func newResendMailer(emails emailSender, from, to string) *ResendMailer {
	var recipients []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return &ResendMailer{emails: emails, from: from, to: recipients}
}

func (m *ResendMailer) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	if len(m.to) == 0 {
		return fmt.Errorf("no contact recipients configured")
	}
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      m.to,
		ReplyTo: msg.Email,
		Subject: "پیام جدید از فرم تماس: " + msg.Subject,
		Text:    contactBody(msg),
	}
	resp, err := m.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend error: %w", err)
	}
	slog.Info("Contact notification sent", "id", resp.Id, "contact_id", msg.ID)
	return nil
}

func contactBody(msg *models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	fmt.Fprintf(&b, "Subject: %s\n\n", msg.Subject)
	b.WriteString(msg.Message)
	return b.String()
}

// LogMailer writes notifications to the log instead of sending them.
// Used when no mail provider is configured.
type LogMailer struct{}

func (LogMailer) NotifyContact(_ context.Context, msg *models.ContactMessage) error {
	slog.Info("==========================================")
	slog.Info("📧 CONTACT MESSAGE RECEIVED", "id", msg.ID, "from", msg.Email, "subject", msg.Subject)
	slog.Info(contactBody(msg))
	slog.Info("==========================================")
	return nil
}
