package dependency

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/trafficpulse/report-manager/internal/entity"
)

type (
	// AnalyticsSource is the black-box query operation against the external
	// analytics service. Rows come back as untyped text and in no
	// guaranteed order. The access token is supplied by the caller per
	// request and is never read from ambient state.
	AnalyticsSource interface {
		RunStateReport(ctx context.Context, token, propertyID string, filter entity.SourceMedium, dr entity.DateRange) ([]entity.RawRow, error)
	}

	// ReportGenerator produces a multi-property report for a validated
	// request.
	ReportGenerator interface {
		GenerateReport(ctx context.Context, token string, req *entity.ReportRequest) (*entity.ReportResponse, error)
	}

	// Mailer delivers a finished report to a recipient list.
	Mailer interface {
		SendReport(ctx context.Context, recipients []string, resp *entity.ReportResponse) error
	}

	// Sender is the outbound email client seam (implemented by
	// sendgrid.Client).
	Sender interface {
		Send(email *mail.SGMailV3) (*rest.Response, error)
	}
)
