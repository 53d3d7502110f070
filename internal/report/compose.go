package report

import (
	"math"

	"github.com/trafficpulse/report-manager/internal/entity"
)

// composeResponse merges the per-property outcomes into the final
// response. Outcomes arrive already ordered by request position, so the
// report list preserves the caller's property order regardless of which
// query finished first.
func composeResponse(outcomes []entity.PropertyOutcome) *entity.ReportResponse {
	resp := &entity.ReportResponse{
		Reports: make([]entity.PropertyReport, 0, len(outcomes)),
		Errors:  []entity.PropertyError{},
	}
	for _, o := range outcomes {
		switch {
		case o.Report != nil:
			resp.Reports = append(resp.Reports, *o.Report)
		case o.Err != nil:
			resp.Errors = append(resp.Errors, *o.Err)
		}
	}
	return resp
}

// FormatDuration splits a duration in seconds into whole minutes plus
// rounded seconds. Rounding 59.5..59.99 would otherwise yield seconds=60,
// so that case carries into the minutes.
func FormatDuration(totalSeconds float64) entity.DurationParts {
	minutes := int(math.Floor(totalSeconds / 60))
	seconds := int(math.Round(math.Mod(totalSeconds, 60)))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return entity.DurationParts{Minutes: minutes, Seconds: seconds}
}
