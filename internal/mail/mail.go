package mail

import (
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trafficpulse/report-manager/internal/dependency"
)

// Config holds mailer configuration.
type Config struct {
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_email_name"`
}

// Mailer delivers finished traffic reports over SendGrid. An empty API
// key yields a disabled mailer whose sends fail with ErrMailerDisabled,
// so the service can run without outbound email configured.
type Mailer struct {
	cli     dependency.Sender
	from    *mail.Email
	enabled bool
}

// New creates a new mailer.
func New(c *Config) *Mailer {
	if c == nil || c.SendgridAPIKey == "" {
		return &Mailer{enabled: false}
	}
	return &Mailer{
		cli:     sendgrid.NewSendClient(c.SendgridAPIKey),
		from:    mail.NewEmail(c.FromName, c.FromEmail),
		enabled: true,
	}
}

// NewWithSender creates a mailer with a custom sender client, used in
// tests.
func NewWithSender(c *Config, cli dependency.Sender) *Mailer {
	return &Mailer{
		cli:     cli,
		from:    mail.NewEmail(c.FromName, c.FromEmail),
		enabled: true,
	}
}
