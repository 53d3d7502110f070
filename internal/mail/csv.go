package mail

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/trafficpulse/report-manager/internal/entity"
	"github.com/trafficpulse/report-manager/internal/report"
)

var csvHeader = []string{
	"property_id", "display_name", "state", "users", "new_users",
	"active_users", "avg_session_duration", "pct_new_users",
}

// RenderCSV renders a report response as CSV: one row per selected region
// per property, a totals row per property, and an error row per failed
// property. Durations are rendered as m:ss.
func RenderCSV(resp *entity.ReportResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i := range resp.Reports {
		pr := &resp.Reports[i]
		for _, r := range pr.Regions {
			rec := []string{
				pr.PropertyID,
				pr.DisplayName,
				r.State,
				strconv.Itoa(r.Users),
				strconv.Itoa(r.NewUsers),
				strconv.Itoa(r.ActiveUsers),
				formatDuration(r.AverageSessionDurationPerUser),
				fmt.Sprintf("%.2f", r.PercentageOfNewUsers),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
		totals := []string{
			pr.PropertyID,
			pr.DisplayName,
			"TOTAL",
			strconv.Itoa(pr.TotalUsers),
			strconv.Itoa(pr.TotalNewUsers),
			strconv.Itoa(pr.TotalActiveUsers),
			formatDuration(pr.TotalAverageSessionDurationPerUser),
			fmt.Sprintf("%.2f", pr.TotalPercentageOfNewUsers),
		}
		if err := w.Write(totals); err != nil {
			return nil, err
		}
	}

	for _, pe := range resp.Errors {
		rec := []string{pe.PropertyID, "", "ERROR", pe.Message, "", "", "", ""}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDuration(seconds float64) string {
	parts := report.FormatDuration(seconds)
	return fmt.Sprintf("%d:%02d", parts.Minutes, parts.Seconds)
}
