package form

import (
	v "github.com/asaskevich/govalidator"

	"github.com/trafficpulse/report-manager/internal/dto"
	"github.com/trafficpulse/report-manager/internal/entity"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
	"github.com/trafficpulse/report-manager/internal/report"
)

const maxRecipients = 10

// GenerateReportRequest wraps the wire request with validation.
type GenerateReportRequest struct {
	*dto.GenerateReportRequest
}

// Validate parses and checks the request, returning the domain request on
// success. All failures are ValidationErrors: the batch is rejected before
// any property query is dispatched.
func (r *GenerateReportRequest) Validate() (*entity.ReportRequest, error) {
	if r.GenerateReportRequest == nil {
		return nil, gerr.NewValidation("", "empty request body")
	}
	req, err := dto.ConvertRequestToEntity(r.GenerateReportRequest)
	if err != nil {
		return nil, gerr.NewValidation("", "%s", err.Error())
	}
	if err := report.ValidateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// EmailReportRequest wraps the email variant with recipient validation.
type EmailReportRequest struct {
	*dto.EmailReportRequest
}

// Validate checks the report payload plus the recipient list.
func (r *EmailReportRequest) Validate() (*entity.ReportRequest, error) {
	if r.EmailReportRequest == nil {
		return nil, gerr.NewValidation("", "empty request body")
	}
	if len(r.Recipients) == 0 || len(r.Recipients) > maxRecipients {
		return nil, gerr.NewValidation("recipients", "must contain between 1 and %d addresses, got %d", maxRecipients, len(r.Recipients))
	}
	for _, rcpt := range r.Recipients {
		if !v.IsEmail(rcpt) {
			return nil, gerr.NewValidation("recipients", "invalid email address %q", rcpt)
		}
	}
	gr := &GenerateReportRequest{GenerateReportRequest: &r.GenerateReportRequest}
	return gr.Validate()
}
