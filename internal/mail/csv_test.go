package mail

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficpulse/report-manager/internal/entity"
)

func sampleResponse() *entity.ReportResponse {
	return &entity.ReportResponse{
		Reports: []entity.PropertyReport{
			{
				PropertyID:  "123456789",
				DisplayName: "Main site",
				Regions: []entity.RegionRecord{
					{State: "California", Users: 300, NewUsers: 90, ActiveUsers: 280, AverageSessionDurationPerUser: 125.6, PercentageOfNewUsers: 30},
					{State: "Texas", Users: 100, NewUsers: 10, ActiveUsers: 95, AverageSessionDurationPerUser: 59.7, PercentageOfNewUsers: 10},
				},
				TotalUsers:                         400,
				TotalNewUsers:                      100,
				TotalActiveUsers:                   375,
				TotalAverageSessionDurationPerUser: 109.1,
				TotalPercentageOfNewUsers:          25,
			},
		},
		Errors: []entity.PropertyError{
			{PropertyID: "000000001", Message: "auth: caller lacks access to property"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleResponse())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5) // header + 2 regions + totals + 1 error

	assert.Equal(t, csvHeader, records[0])

	assert.Equal(t, []string{"123456789", "Main site", "California", "300", "90", "280", "2:06", "30.00"}, records[1])
	assert.Equal(t, []string{"123456789", "Main site", "Texas", "100", "10", "95", "1:00", "10.00"}, records[2])
	assert.Equal(t, []string{"123456789", "Main site", "TOTAL", "400", "100", "375", "1:49", "25.00"}, records[3])

	assert.Equal(t, "000000001", records[4][0])
	assert.Equal(t, "ERROR", records[4][2])
	assert.Equal(t, "auth: caller lacks access to property", records[4][3])
}

func TestRenderCSV_EmptyResponse(t *testing.T) {
	out, err := RenderCSV(&entity.ReportResponse{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}

func TestFormatDurationColumn(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "0:45", formatDuration(45.4))
	assert.Equal(t, "2:06", formatDuration(125.6))
	assert.Equal(t, "3:00", formatDuration(179.7))
}
