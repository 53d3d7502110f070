package entity

import "time"

// DateRange is an inclusive calendar date range, start <= end.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SourceMedium is a parsed "<source> / <medium>" traffic filter pair.
type SourceMedium struct {
	Source string
	Medium string
}

// ReportRequest describes one multi-property traffic report run.
// Property ids are unique within a request.
type ReportRequest struct {
	PropertyIDs    []string
	Filter         SourceMedium
	TopStatesCount int
	DateRange      DateRange
}

// RawRow is one untyped row from the upstream analytics source: a region
// name plus metric values as text, in the fixed order
// users, newUsers, activeUsers, averageSessionDuration.
type RawRow struct {
	State        string
	MetricValues []string
}

// RegionRecord holds aggregated metrics for one state within a property.
type RegionRecord struct {
	State                         string
	Users                         int
	NewUsers                      int
	ActiveUsers                   int
	AverageSessionDurationPerUser float64
	PercentageOfNewUsers          float64
}

// PropertyReport is the finished report for a single property. Totals are
// computed over the selected (top-N) regions.
type PropertyReport struct {
	PropertyID                         string
	DisplayName                        string
	DateRange                          DateRange
	TotalUsers                         int
	TotalNewUsers                      int
	TotalActiveUsers                   int
	TotalAverageSessionDurationPerUser float64
	TotalPercentageOfNewUsers          float64
	Regions                            []RegionRecord
}

// PropertyError captures a failed property query without aborting the batch.
type PropertyError struct {
	PropertyID string
	Message    string
}

// PropertyOutcome is the per-property result: exactly one of Report or Err
// is set.
type PropertyOutcome struct {
	PropertyID string
	Report     *PropertyReport
	Err        *PropertyError
}

// ReportResponse holds reports in the original request order plus the
// failed property ids.
type ReportResponse struct {
	Reports []PropertyReport
	Errors  []PropertyError
}

// DurationParts is a session duration split into whole minutes and
// rounded seconds, seconds always in [0,59].
type DurationParts struct {
	Minutes int
	Seconds int
}
