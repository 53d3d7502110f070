package report

import "github.com/trafficpulse/report-manager/internal/entity"

// assignPercentages computes percentageOfNewUsers for every region before
// top-N truncation, so the ratio reflects the region itself rather than
// its rank. The value stays within [0,100]; a region with zero users gets
// 0.
func assignPercentages(records map[string]*entity.RegionRecord) {
	for _, r := range records {
		r.PercentageOfNewUsers = percentage(r.NewUsers, r.Users)
	}
}

// buildPropertyReport derives the property totals from the selected
// regions. Totals intentionally cover only the top-N selection, matching
// the report's declared scope; the duration total is users-weighted the
// same way region merging is.
func buildPropertyReport(propertyID, displayName string, dr entity.DateRange, selected []entity.RegionRecord) *entity.PropertyReport {
	report := &entity.PropertyReport{
		PropertyID:  propertyID,
		DisplayName: displayName,
		DateRange:   dr,
		Regions:     selected,
	}

	var weightedDuration float64
	for _, r := range selected {
		report.TotalUsers += r.Users
		report.TotalNewUsers += r.NewUsers
		report.TotalActiveUsers += r.ActiveUsers
		weightedDuration += r.AverageSessionDurationPerUser * float64(r.Users)
	}
	if report.TotalUsers > 0 {
		report.TotalAverageSessionDurationPerUser = weightedDuration / float64(report.TotalUsers)
	}
	report.TotalPercentageOfNewUsers = percentage(report.TotalNewUsers, report.TotalUsers)
	return report
}

// percentage returns newUsers/users*100 bounded to [0,100], 0 when users
// is 0.
func percentage(newUsers, users int) float64 {
	if users <= 0 {
		return 0
	}
	p := float64(newUsers) / float64(users) * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
