// Package mailer renders and sends the two order notification emails: the
// customer confirmation and the admin alert. Each send is a single
// best-effort attempt; the two are independent and neither blocks the other.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/megami-llc/order-server/internal/order"
)

// ErrNotConfigured is returned when the Resend API key, sender address, or
// (for the admin alert) the admin recipient is missing.
var ErrNotConfigured = errors.New("mailer: email service not configured")

// Mailer sends order emails through the Resend API.
type Mailer struct {
	client *resend.Client
	from   string
	admin  string
}

// New builds a Mailer. client may be nil when no API key is configured.
func New(client *resend.Client, from, admin string) *Mailer {
	return &Mailer{client: client, from: from, admin: admin}
}

// SendConfirmation sends the order confirmation to the customer.
func (m *Mailer) SendConfirmation(ctx context.Context, rec order.Record) error {
	if m.client == nil || m.from == "" {
		return ErrNotConfigured
	}

	html, err := RenderConfirmation(rec)
	if err != nil {
		return err
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{rec.Email},
		Subject: fmt.Sprintf("【MEGAMI合同会社】ご注文確認 - %s", rec.ID),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("mailer: send confirmation for %s: %w", rec.ID, err)
	}

	slog.InfoContext(ctx, "order confirmation email sent", "order_id", rec.ID, "email_id", sent.Id)
	return nil
}

// SendAdminAlert sends the new-order notification to the admin address.
func (m *Mailer) SendAdminAlert(ctx context.Context, rec order.Record) error {
	if m.client == nil || m.from == "" || m.admin == "" {
		return ErrNotConfigured
	}

	html, err := RenderAdminAlert(rec)
	if err != nil {
		return err
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.admin},
		Subject: fmt.Sprintf("【新規注文】%s - %s様", rec.ID, rec.LastName),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("mailer: send admin alert for %s: %w", rec.ID, err)
	}

	slog.InfoContext(ctx, "admin notification email sent", "order_id", rec.ID, "email_id", sent.Id)
	return nil
}
