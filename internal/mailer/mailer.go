package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"listed/internal/models"
)

// Mailer delivers the author-facing notifications. Implementations are
// external collaborators; the services only depend on this interface.
type Mailer interface {
	Featured(ctx context.Context, a *models.Author) error
	DomainApproved(ctx context.Context, a *models.Author) error
	DomainInvalid(ctx context.Context, email string) error
	UnreadGuestbookEntries(ctx context.Context, a *models.Author, entryIDs []uint) error
}

type smtpMailer struct {
	smtpAddr string
	from     string
}

func NewSMTPMailer(smtpHost, smtpPort, from string) Mailer {
	return &smtpMailer{
		smtpAddr: smtpHost + ":" + smtpPort,
		from:     from,
	}
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body,
	))
	return smtp.SendMail(m.smtpAddr, nil, m.from, []string{to}, msg)
}

func (m *smtpMailer) Featured(ctx context.Context, a *models.Author) error {
	if a.Email == nil {
		return fmt.Errorf("author %d has no email", a.ID)
	}
	body := "Your blog has been featured on the homepage. Congratulations!"
	return m.send(*a.Email, "You've been featured", body)
}

func (m *smtpMailer) DomainApproved(ctx context.Context, a *models.Author) error {
	if a.Email == nil {
		return fmt.Errorf("author %d has no email", a.ID)
	}
	body := fmt.Sprintf("Your custom domain %s has been approved and is now active.", a.Domain.Domain)
	return m.send(*a.Email, "Custom domain approved", body)
}

func (m *smtpMailer) DomainInvalid(ctx context.Context, email string) error {
	body := "We couldn't verify your custom domain. Please double-check its DNS records and resubmit."
	return m.send(email, "Custom domain could not be verified", body)
}

func (m *smtpMailer) UnreadGuestbookEntries(ctx context.Context, a *models.Author, entryIDs []uint) error {
	if a.Email == nil {
		return fmt.Errorf("author %d has no email", a.ID)
	}
	body := fmt.Sprintf("You have %d unread guestbook entries waiting for you.", len(entryIDs))
	return m.send(*a.Email, "Unread guestbook entries", body)
}
