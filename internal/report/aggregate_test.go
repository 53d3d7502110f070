package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficpulse/report-manager/internal/entity"
)

func TestAggregateRows_GroupsAndSums(t *testing.T) {
	rows := []entity.RawRow{
		{State: "Texas", MetricValues: []string{"100", "40", "90", "120"}},
		{State: "California", MetricValues: []string{"200", "50", "180", "90"}},
		{State: "Texas", MetricValues: []string{"50", "10", "45", "60"}},
	}

	records, usable := aggregateRows(rows)
	require.Equal(t, 3, usable)
	require.Len(t, records, 2)

	tx := records["Texas"]
	require.NotNil(t, tx)
	assert.Equal(t, 150, tx.Users)
	assert.Equal(t, 50, tx.NewUsers)
	assert.Equal(t, 135, tx.ActiveUsers)
	// (120*100 + 60*50) / 150
	assert.InDelta(t, 100.0, tx.AverageSessionDurationPerUser, 1e-9)

	ca := records["California"]
	require.NotNil(t, ca)
	assert.Equal(t, 200, ca.Users)
	assert.InDelta(t, 90.0, ca.AverageSessionDurationPerUser, 1e-9)
}

func TestAggregateRows_DropsMalformedRows(t *testing.T) {
	rows := []entity.RawRow{
		{State: "Ohio", MetricValues: []string{"10", "5", "9", "30.5"}},
		{State: "Ohio", MetricValues: []string{"not-a-number", "5", "9", "30"}},
		{State: "Utah", MetricValues: []string{"10", "5"}}, // too few metrics
		{State: "Utah", MetricValues: []string{"10", "5", "9", "bad"}},
	}

	records, usable := aggregateRows(rows)
	assert.Equal(t, 1, usable)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records["Ohio"].Users)
}

func TestAggregateRows_AllMalformed(t *testing.T) {
	rows := []entity.RawRow{
		{State: "Ohio", MetricValues: []string{"x", "y", "z", "w"}},
		{State: "Utah", MetricValues: nil},
	}

	records, usable := aggregateRows(rows)
	assert.Equal(t, 0, usable)
	assert.Empty(t, records)
}

func TestAggregateRows_ZeroUsersDuration(t *testing.T) {
	rows := []entity.RawRow{
		{State: "Nevada", MetricValues: []string{"0", "0", "0", "45.5"}},
	}

	records, usable := aggregateRows(rows)
	require.Equal(t, 1, usable)
	nv := records["Nevada"]
	require.NotNil(t, nv)
	// never divide by zero
	assert.Zero(t, nv.AverageSessionDurationPerUser)
}

func TestAggregateRows_Empty(t *testing.T) {
	records, usable := aggregateRows(nil)
	assert.Zero(t, usable)
	assert.Empty(t, records)
}
