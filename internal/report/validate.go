package report

import (
	"regexp"

	"github.com/trafficpulse/report-manager/internal/entity"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
)

const (
	minProperties = 1
	maxProperties = 50
	minTopStates  = 1
	maxTopStates  = 100
)

var propertyIDRe = regexp.MustCompile(`^[0-9]{4,12}$`)

// ValidateRequest checks a ReportRequest before any query is dispatched.
// A failure here fails the whole batch; it never reaches the per-property
// isolation path.
func ValidateRequest(req *entity.ReportRequest) error {
	if req == nil {
		return gerr.NewValidation("", "empty request")
	}
	if len(req.PropertyIDs) < minProperties || len(req.PropertyIDs) > maxProperties {
		return gerr.NewValidation("propertyIds", "must contain between %d and %d ids, got %d", minProperties, maxProperties, len(req.PropertyIDs))
	}
	seen := make(map[string]struct{}, len(req.PropertyIDs))
	for _, id := range req.PropertyIDs {
		if !propertyIDRe.MatchString(id) {
			return gerr.NewValidation("propertyIds", "malformed property id %q", id)
		}
		if _, dup := seen[id]; dup {
			return gerr.NewValidation("propertyIds", "duplicate property id %q", id)
		}
		seen[id] = struct{}{}
	}
	if req.Filter.Source == "" || req.Filter.Medium == "" {
		return gerr.NewValidation("sourceMediumFilter", "must be of the form \"<source> / <medium>\"")
	}
	if req.TopStatesCount < minTopStates || req.TopStatesCount > maxTopStates {
		return gerr.NewValidation("topStatesCount", "must be between %d and %d, got %d", minTopStates, maxTopStates, req.TopStatesCount)
	}
	if req.DateRange.Start.IsZero() || req.DateRange.End.IsZero() {
		return gerr.NewValidation("dateRange", "start and end dates are required")
	}
	if req.DateRange.Start.After(req.DateRange.End) {
		return gerr.NewValidation("dateRange", "start date is after end date")
	}
	return nil
}
