package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficpulse/report-manager/internal/dto"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
)

func validBody() *dto.GenerateReportRequest {
	return &dto.GenerateReportRequest{
		PropertyIDs:        []string{"123456789"},
		SourceMediumFilter: "google / organic",
		TopStatesCount:     10,
		StartDate:          "2024-03-01",
		EndDate:            "2024-03-31",
	}
}

func TestGenerateReportRequest_Validate(t *testing.T) {
	f := &GenerateReportRequest{GenerateReportRequest: validBody()}

	req, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789"}, req.PropertyIDs)
	assert.Equal(t, "google", req.Filter.Source)
	assert.Equal(t, "organic", req.Filter.Medium)
	assert.Equal(t, 10, req.TopStatesCount)
	assert.Equal(t, "2024-03-01", req.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", req.DateRange.End.Format("2006-01-02"))
}

func TestGenerateReportRequest_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.GenerateReportRequest)
	}{
		{"bad start date", func(b *dto.GenerateReportRequest) { b.StartDate = "03/01/2024" }},
		{"bad end date", func(b *dto.GenerateReportRequest) { b.EndDate = "not-a-date" }},
		{"filter without separator", func(b *dto.GenerateReportRequest) { b.SourceMediumFilter = "google/organic" }},
		{"filter missing medium", func(b *dto.GenerateReportRequest) { b.SourceMediumFilter = "google / " }},
		{"no property ids", func(b *dto.GenerateReportRequest) { b.PropertyIDs = nil }},
		{"top states out of range", func(b *dto.GenerateReportRequest) { b.TopStatesCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)
			f := &GenerateReportRequest{GenerateReportRequest: body}
			req, err := f.Validate()
			assert.Nil(t, req)
			var ve *gerr.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestGenerateReportRequest_ValidateNilBody(t *testing.T) {
	f := &GenerateReportRequest{}
	_, err := f.Validate()
	var ve *gerr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEmailReportRequest_Validate(t *testing.T) {
	f := &EmailReportRequest{EmailReportRequest: &dto.EmailReportRequest{
		GenerateReportRequest: *validBody(),
		Recipients:            []string{"ops@example.com", "growth@example.com"},
	}}

	req, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789"}, req.PropertyIDs)
}

func TestEmailReportRequest_ValidateRecipients(t *testing.T) {
	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "user@example.com"
	}

	tests := []struct {
		name       string
		recipients []string
	}{
		{"empty list", nil},
		{"too many", eleven},
		{"invalid address", []string{"not-an-email"}},
		{"one bad among good", []string{"ok@example.com", "bad@"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &EmailReportRequest{EmailReportRequest: &dto.EmailReportRequest{
				GenerateReportRequest: *validBody(),
				Recipients:            tt.recipients,
			}}
			req, err := f.Validate()
			assert.Nil(t, req)
			var ve *gerr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "recipients", ve.Field)
		})
	}
}
