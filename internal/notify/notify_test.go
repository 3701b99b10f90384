package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mr-saberi/siite/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

var testMessage = &models.ContactMessage{
	ID:      3,
	Name:    "Sara",
	Email:   "sara@example.com",
	Phone:   "09121234567",
	Subject: "Sofa",
	Message: "Is the modern sofa available in blue?",
}

func TestResendMailer_NotifyContact(t *testing.T) {
	sender := &fakeSender{}
	m := newResendMailer(sender, "shop@example.com", "owner@example.com, , sales@example.com")

	require.NoError(t, m.NotifyContact(context.Background(), testMessage))
	require.NotNil(t, sender.got)
	assert.Equal(t, "shop@example.com", sender.got.From)
	assert.Equal(t, []string{"owner@example.com", "sales@example.com"}, sender.got.To)
	assert.Equal(t, "sara@example.com", sender.got.ReplyTo)
	assert.Contains(t, sender.got.Subject, "Sofa")
	assert.Contains(t, sender.got.Text, "09121234567")
	assert.Contains(t, sender.got.Text, "modern sofa available in blue")
}

func TestResendMailer_Errors(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	m := newResendMailer(sender, "shop@example.com", "owner@example.com")
	assert.ErrorContains(t, m.NotifyContact(context.Background(), testMessage), "rate limited")

	noRecipients := newResendMailer(&fakeSender{}, "shop@example.com", "")
	assert.Error(t, noRecipients.NotifyContact(context.Background(), testMessage))
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.NotifyContact(context.Background(), testMessage))
}
