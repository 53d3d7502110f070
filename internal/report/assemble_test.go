package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficpulse/report-manager/internal/entity"
)

func TestAssignPercentages(t *testing.T) {
	records := regionMap(
		entity.RegionRecord{State: "Texas", Users: 200, NewUsers: 50},
		entity.RegionRecord{State: "Ohio", Users: 0, NewUsers: 0},
		entity.RegionRecord{State: "Utah", Users: 10, NewUsers: 10},
	)

	assignPercentages(records)

	assert.InDelta(t, 25.0, records["Texas"].PercentageOfNewUsers, 1e-9)
	assert.Zero(t, records["Ohio"].PercentageOfNewUsers)
	assert.InDelta(t, 100.0, records["Utah"].PercentageOfNewUsers, 1e-9)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.PercentageOfNewUsers, 0.0)
		assert.LessOrEqual(t, r.PercentageOfNewUsers, 100.0)
	}
}

func TestBuildPropertyReport_Totals(t *testing.T) {
	dr := entity.DateRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	selected := []entity.RegionRecord{
		{State: "California", Users: 300, NewUsers: 90, ActiveUsers: 280, AverageSessionDurationPerUser: 100},
		{State: "Texas", Users: 100, NewUsers: 10, ActiveUsers: 95, AverageSessionDurationPerUser: 60},
	}

	pr := buildPropertyReport("123456789", "Main site", dr, selected)

	assert.Equal(t, "123456789", pr.PropertyID)
	assert.Equal(t, "Main site", pr.DisplayName)
	assert.Equal(t, dr, pr.DateRange)
	assert.Equal(t, 400, pr.TotalUsers)
	assert.Equal(t, 100, pr.TotalNewUsers)
	assert.Equal(t, 375, pr.TotalActiveUsers)
	// (100*300 + 60*100) / 400 = 90
	assert.InDelta(t, 90.0, pr.TotalAverageSessionDurationPerUser, 1e-9)
	assert.InDelta(t, 25.0, pr.TotalPercentageOfNewUsers, 1e-9)
	require.Len(t, pr.Regions, 2)
}

func TestBuildPropertyReport_NoRegions(t *testing.T) {
	pr := buildPropertyReport("123456789", "123456789", entity.DateRange{}, nil)

	assert.Zero(t, pr.TotalUsers)
	assert.Zero(t, pr.TotalAverageSessionDurationPerUser)
	assert.Zero(t, pr.TotalPercentageOfNewUsers)
	assert.Empty(t, pr.Regions)
}

func TestBuildPropertyReport_ZeroUserRegions(t *testing.T) {
	selected := []entity.RegionRecord{
		{State: "Maine", Users: 0, NewUsers: 0, AverageSessionDurationPerUser: 0},
	}

	pr := buildPropertyReport("123456789", "123456789", entity.DateRange{}, selected)
	assert.Zero(t, pr.TotalAverageSessionDurationPerUser)
	assert.Zero(t, pr.TotalPercentageOfNewUsers)
}
