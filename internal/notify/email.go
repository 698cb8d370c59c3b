package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails every message to a fixed list of admin recipients via Resend.
type EmailNotifier struct {
	emails emailSender
	from   string
	to     []string
	log    logrus.FieldLogger
}

func NewEmailNotifier(apiKey, from string, to []string, log logrus.FieldLogger) *EmailNotifier {
	return &EmailNotifier{
		emails: resend.NewClient(apiKey).Emails,
		from:   from,
		to:     to,
		log:    log,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, msg Message) error {
	if len(n.to) == 0 {
		return fmt.Errorf("no notification recipients configured")
	}
	sent, err := n.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: msg.Subject,
		Text:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.log.WithField("email_id", sent.Id).Info("📧 Notification email sent")
	return nil
}

// New picks the email notifier when an API key is configured and falls back
// to logging otherwise.
func New(apiKey, from string, to []string, log logrus.FieldLogger) Notifier {
	if apiKey == "" {
		log.Warn("⚠️  RESEND_API_KEY not set, notifications go to the log")
		return NewLogNotifier(log)
	}
	return NewEmailNotifier(apiKey, from, to, log)
}
