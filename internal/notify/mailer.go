package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer delivers rendered messages to one fixed recipient from one
// fixed sender identity.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
}

// NewMailer creates an SMTP mailer using STARTTLS and plain auth.
func NewMailer(host string, port int, username, password, from, to string) (*Mailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   from,
		to:     to,
	}, nil
}

// Send delivers one message. Failures are returned to the caller, who
// logs and moves on; there is no retry queue.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := mm.To(m.to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Text)
	mm.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
