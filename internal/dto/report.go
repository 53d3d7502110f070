package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/trafficpulse/report-manager/internal/entity"
	"github.com/trafficpulse/report-manager/internal/report"
)

const dateLayout = "2006-01-02"

// GenerateReportRequest is the inbound JSON body for report generation.
type GenerateReportRequest struct {
	PropertyIDs        []string `json:"propertyIds"`
	SourceMediumFilter string   `json:"sourceMediumFilter"`
	TopStatesCount     int      `json:"topStatesCount"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
}

// EmailReportRequest additionally carries the recipient list for CSV
// delivery.
type EmailReportRequest struct {
	GenerateReportRequest
	Recipients []string `json:"recipients"`
}

// RegionRecord is the outbound shape of one aggregated state.
type RegionRecord struct {
	State                         string  `json:"state"`
	Users                         int     `json:"users"`
	NewUsers                      int     `json:"newUsers"`
	ActiveUsers                   int     `json:"activeUsers"`
	AverageSessionDurationPerUser float64 `json:"averageSessionDurationPerUser"`
	PercentageOfNewUsers          float64 `json:"percentageOfNewUsers"`
}

// Duration is a session duration split into minutes and seconds.
type Duration struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// PropertyReport is the outbound report for one property.
type PropertyReport struct {
	PropertyID                         string         `json:"propertyId"`
	DisplayName                        string         `json:"displayName"`
	StartDate                          string         `json:"startDate"`
	EndDate                            string         `json:"endDate"`
	TotalUsers                         int            `json:"totalUsers"`
	TotalNewUsers                      int            `json:"totalNewUsers"`
	TotalActiveUsers                   int            `json:"totalActiveUsers"`
	TotalAverageSessionDurationPerUser float64        `json:"totalAverageSessionDurationPerUser"`
	TotalAverageSessionDuration        Duration       `json:"totalAverageSessionDuration"`
	TotalPercentageOfNewUsers          float64        `json:"totalPercentageOfNewUsers"`
	Regions                            []RegionRecord `json:"regions"`
}

// PropertyError is the outbound shape of one failed property.
type PropertyError struct {
	PropertyID string `json:"propertyId"`
	Message    string `json:"message"`
}

// ReportResponse is the outbound JSON body.
type ReportResponse struct {
	Reports []PropertyReport `json:"reports"`
	Errors  []PropertyError  `json:"errors"`
}

// ConvertRequestToEntity parses the wire request into the domain request.
// Shape errors (unparsable dates, malformed filter) surface here; range
// and cardinality checks belong to the engine's validation.
func ConvertRequestToEntity(req *GenerateReportRequest) (*entity.ReportRequest, error) {
	source, medium, err := splitSourceMedium(req.SourceMediumFilter)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", req.EndDate, err)
	}

	return &entity.ReportRequest{
		PropertyIDs:    req.PropertyIDs,
		Filter:         entity.SourceMedium{Source: source, Medium: medium},
		TopStatesCount: req.TopStatesCount,
		DateRange:      entity.DateRange{Start: start, End: end},
	}, nil
}

func splitSourceMedium(filter string) (string, string, error) {
	parts := strings.Split(filter, " / ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("source/medium filter %q must be of the form \"<source> / <medium>\"", filter)
	}
	return parts[0], parts[1], nil
}

// ConvertResponseToDTO maps the domain response onto the wire shape,
// attaching the formatted minutes/seconds duration per property.
func ConvertResponseToDTO(resp *entity.ReportResponse) *ReportResponse {
	out := &ReportResponse{
		Reports: make([]PropertyReport, 0, len(resp.Reports)),
		Errors:  make([]PropertyError, 0, len(resp.Errors)),
	}
	for i := range resp.Reports {
		out.Reports = append(out.Reports, convertPropertyReport(&resp.Reports[i]))
	}
	for _, pe := range resp.Errors {
		out.Errors = append(out.Errors, PropertyError{PropertyID: pe.PropertyID, Message: pe.Message})
	}
	return out
}

func convertPropertyReport(pr *entity.PropertyReport) PropertyReport {
	parts := report.FormatDuration(pr.TotalAverageSessionDurationPerUser)
	out := PropertyReport{
		PropertyID:                         pr.PropertyID,
		DisplayName:                        pr.DisplayName,
		StartDate:                          pr.DateRange.Start.Format(dateLayout),
		EndDate:                            pr.DateRange.End.Format(dateLayout),
		TotalUsers:                         pr.TotalUsers,
		TotalNewUsers:                      pr.TotalNewUsers,
		TotalActiveUsers:                   pr.TotalActiveUsers,
		TotalAverageSessionDurationPerUser: pr.TotalAverageSessionDurationPerUser,
		TotalAverageSessionDuration:        Duration{Minutes: parts.Minutes, Seconds: parts.Seconds},
		TotalPercentageOfNewUsers:          pr.TotalPercentageOfNewUsers,
		Regions:                            make([]RegionRecord, 0, len(pr.Regions)),
	}
	for _, r := range pr.Regions {
		out.Regions = append(out.Regions, RegionRecord{
			State:                         r.State,
			Users:                         r.Users,
			NewUsers:                      r.NewUsers,
			ActiveUsers:                   r.ActiveUsers,
			AverageSessionDurationPerUser: r.AverageSessionDurationPerUser,
			PercentageOfNewUsers:          r.PercentageOfNewUsers,
		})
	}
	return out
}
