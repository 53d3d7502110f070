package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trafficpulse/report-manager/internal/entity"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
)

const reportSubject = "Traffic report: top states by source/medium"

// SendReport renders the response as CSV and emails it to the recipients
// as a single message with one attachment.
func (m *Mailer) SendReport(ctx context.Context, recipients []string, resp *entity.ReportResponse) error {
	if !m.enabled {
		return gerr.ErrMailerDisabled
	}

	csvBody, err := RenderCSV(resp)
	if err != nil {
		return fmt.Errorf("error rendering report csv: %w", err)
	}

	message := mail.NewV3Mail()
	message.SetFrom(m.from)
	message.Subject = reportSubject

	p := mail.NewPersonalization()
	for _, rcpt := range recipients {
		p.AddTos(mail.NewEmail("", rcpt))
	}
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", reportBodyText(resp)))

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(csvBody))
	attachment.SetType("text/csv")
	attachment.SetFilename(fmt.Sprintf("traffic-report-%s.csv", time.Now().Format("2006-01-02")))
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)

	rsp, err := m.cli.Send(message)
	if err != nil {
		return fmt.Errorf("error sending report email: %w", err)
	}
	if rsp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("mail api limit reached")
	}
	if rsp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("error sending report email, status code: %d, body: %s", rsp.StatusCode, rsp.Body)
	}

	slog.Default().InfoContext(ctx, "report email sent",
		slog.Int("recipients", len(recipients)),
		slog.Int("reports", len(resp.Reports)))
	return nil
}

func reportBodyText(resp *entity.ReportResponse) string {
	body := fmt.Sprintf("Attached: traffic report for %d propert", len(resp.Reports))
	if len(resp.Reports) == 1 {
		body += "y."
	} else {
		body += "ies."
	}
	if len(resp.Errors) > 0 {
		body += fmt.Sprintf(" %d propert", len(resp.Errors))
		if len(resp.Errors) == 1 {
			body += "y"
		} else {
			body += "ies"
		}
		body += " could not be queried; see the errors section of the CSV."
	}
	return body
}
