package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridNotifier sends notifications through the SendGrid v3 API.
type SendgridNotifier struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgridNotifier builds a SendGrid-backed notifier.
func NewSendgridNotifier(apiKey, fromName, fromAddress string) *SendgridNotifier {
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

// Notify sends a plain-text email.
func (n *SendgridNotifier) Notify(ctx context.Context, to, subject, body string) error {
	msg := sgmail.NewSingleEmail(n.from, subject, sgmail.NewEmail("", to), body, "")
	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
