package report

import (
	"strconv"

	"github.com/trafficpulse/report-manager/internal/entity"
)

// Metric value positions within a RawRow, fixed by the upstream query.
const (
	metricUsers = iota
	metricNewUsers
	metricActiveUsers
	metricAvgSessionDuration
	metricCount
)

// regionAccum accumulates rows sharing a state key. Duration is carried as
// a users-weighted sum so the merged average is
// sum(duration_i * users_i) / sum(users_i).
type regionAccum struct {
	record           *entity.RegionRecord
	weightedDuration float64
}

// aggregateRows groups the raw rows of one property by state, summing the
// integer counts and weight-averaging the session duration. Rows whose
// metric fields fail numeric parsing are dropped; usable reports how many
// rows survived.
func aggregateRows(rows []entity.RawRow) (map[string]*entity.RegionRecord, int) {
	accums := make(map[string]*regionAccum)
	usable := 0

	for _, row := range rows {
		users, newUsers, activeUsers, duration, ok := parseMetrics(row.MetricValues)
		if !ok {
			continue
		}
		usable++

		acc, exists := accums[row.State]
		if !exists {
			acc = &regionAccum{record: &entity.RegionRecord{State: row.State}}
			accums[row.State] = acc
		}
		acc.record.Users += users
		acc.record.NewUsers += newUsers
		acc.record.ActiveUsers += activeUsers
		acc.weightedDuration += duration * float64(users)
	}

	records := make(map[string]*entity.RegionRecord, len(accums))
	for state, acc := range accums {
		if acc.record.Users > 0 {
			acc.record.AverageSessionDurationPerUser = acc.weightedDuration / float64(acc.record.Users)
		}
		records[state] = acc.record
	}
	return records, usable
}

// parseMetrics converts the text metric values of one row. A row with too
// few values or any unparsable field is unusable as a whole.
func parseMetrics(values []string) (users, newUsers, activeUsers int, duration float64, ok bool) {
	if len(values) < metricCount {
		return 0, 0, 0, 0, false
	}
	var err error
	if users, err = strconv.Atoi(values[metricUsers]); err != nil {
		return 0, 0, 0, 0, false
	}
	if newUsers, err = strconv.Atoi(values[metricNewUsers]); err != nil {
		return 0, 0, 0, 0, false
	}
	if activeUsers, err = strconv.Atoi(values[metricActiveUsers]); err != nil {
		return 0, 0, 0, 0, false
	}
	if duration, err = strconv.ParseFloat(values[metricAvgSessionDuration], 64); err != nil {
		return 0, 0, 0, 0, false
	}
	return users, newUsers, activeUsers, duration, true
}
