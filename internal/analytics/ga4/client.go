package ga4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"golang.org/x/oauth2"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/trafficpulse/report-manager/internal/entity"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
)

// Config holds GA4 Data API client configuration.
type Config struct {
	// CredentialsJSON is a path to a service account JSON file, or the raw
	// JSON itself (for env vars). Used only when a request carries no
	// access token of its own.
	CredentialsJSON string `mapstructure:"credentials_json"`
	// PageSize is the row limit per RunReport page.
	PageSize int64 `mapstructure:"page_size"`
}

// Client queries the GA4 Data API. Credentials are threaded in per call:
// a caller-supplied OAuth token wins, the configured service account is
// the fallback. Nothing is read from ambient state.
type Client struct {
	c *Config
}

// NewClient creates a new GA4 client.
func NewClient(c *Config) *Client {
	if c == nil {
		c = &Config{}
	}
	if c.PageSize <= 0 {
		c.PageSize = 10000
	}
	return &Client{c: c}
}

func (c *Client) serviceFor(ctx context.Context, token string) (*analyticsdata.Service, error) {
	var opts []option.ClientOption
	switch {
	case token != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})))
	case c.c.CredentialsJSON != "":
		jsonBytes := []byte(c.c.CredentialsJSON)
		if len(jsonBytes) > 0 && jsonBytes[0] == '{' {
			opts = append(opts, option.WithCredentialsJSON(jsonBytes))
		} else {
			opts = append(opts, option.WithCredentialsFile(c.c.CredentialsJSON))
		}
	}

	service, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GA4 service: %w", err)
	}
	return service, nil
}

// RunStateReport fetches per-state traffic rows for one property, filtered
// by session source/medium, paging until the upstream row count is
// exhausted. Rows come back as untyped text; parsing is the caller's
// concern.
func (c *Client) RunStateReport(ctx context.Context, token, propertyID string, filter entity.SourceMedium, dr entity.DateRange) ([]entity.RawRow, error) {
	service, err := c.serviceFor(ctx, token)
	if err != nil {
		return nil, classify(err)
	}

	var rows []entity.RawRow
	var offset int64
	for {
		req := buildRunReportRequest(filter, dr, c.c.PageSize, offset)
		resp, err := service.Properties.RunReport(fmt.Sprintf("properties/%s", propertyID), req).Context(ctx).Do()
		if err != nil {
			return nil, classify(err)
		}

		rows = append(rows, rowsToRaw(resp.Rows)...)
		offset += int64(len(resp.Rows))
		if len(resp.Rows) == 0 || offset >= resp.RowCount {
			break
		}
	}

	slog.Default().DebugContext(ctx, "ga4 state report fetched",
		slog.String("property_id", propertyID),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// buildRunReportRequest assembles the RunReport body: state dimension,
// the four report metrics in their fixed order, and an AND of the
// source/medium string filters.
func buildRunReportRequest(filter entity.SourceMedium, dr entity.DateRange, limit, offset int64) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{
			{
				StartDate: dr.Start.Format("2006-01-02"),
				EndDate:   dr.End.Format("2006-01-02"),
			},
		},
		Dimensions: []*analyticsdata.Dimension{
			{Name: "region"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "totalUsers"},
			{Name: "newUsers"},
			{Name: "activeUsers"},
			{Name: "averageSessionDuration"},
		},
		DimensionFilter: &analyticsdata.FilterExpression{
			AndGroup: &analyticsdata.FilterExpressionList{
				Expressions: []*analyticsdata.FilterExpression{
					{
						Filter: &analyticsdata.Filter{
							FieldName: "sessionSource",
							StringFilter: &analyticsdata.StringFilter{
								MatchType: "EXACT",
								Value:     filter.Source,
							},
						},
					},
					{
						Filter: &analyticsdata.Filter{
							FieldName: "sessionMedium",
							StringFilter: &analyticsdata.StringFilter{
								MatchType: "EXACT",
								Value:     filter.Medium,
							},
						},
					},
				},
			},
		},
		Limit:  limit,
		Offset: offset,
	}
}

// rowsToRaw copies API rows into the engine's raw row shape without
// interpreting the metric text.
func rowsToRaw(apiRows []*analyticsdata.Row) []entity.RawRow {
	rows := make([]entity.RawRow, 0, len(apiRows))
	for _, row := range apiRows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		raw := entity.RawRow{
			State:        row.DimensionValues[0].Value,
			MetricValues: make([]string, 0, len(row.MetricValues)),
		}
		for _, mv := range row.MetricValues {
			raw.MetricValues = append(raw.MetricValues, mv.Value)
		}
		rows = append(rows, raw)
	}
	return rows
}

// classify maps an upstream failure onto the engine's query error
// taxonomy so the orchestrator can tell auth and quota problems from a
// dead transport.
func classify(err error) *gerr.QueryError {
	if errors.Is(err, context.DeadlineExceeded) {
		return gerr.NewQueryError(gerr.KindTimeout, "ga4 query timed out")
	}

	var gae *googleapi.Error
	if errors.As(err, &gae) {
		switch gae.Code {
		case 401, 403:
			return gerr.NewQueryError(gerr.KindAuth, "ga4 authentication failed: %s", gae.Message)
		case 429:
			return gerr.NewQueryError(gerr.KindQuota, "ga4 quota exhausted: %s", gae.Message)
		case 400, 404:
			return gerr.NewQueryError(gerr.KindInvalidProperty, "invalid or unknown property: %s", gae.Message)
		default:
			return gerr.NewQueryError(gerr.KindTransport, "ga4 returned %d: %s", gae.Code, gae.Message)
		}
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return gerr.NewQueryError(gerr.KindTimeout, "ga4 query timed out")
		}
		return gerr.NewQueryError(gerr.KindTransport, "ga4 unreachable: %s", ue.Error())
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return gerr.NewQueryError(gerr.KindTimeout, "ga4 query timed out")
		}
		return gerr.NewQueryError(gerr.KindTransport, "ga4 unreachable: %s", ne.Error())
	}

	return gerr.NewQueryError(gerr.KindOther, "%s", err.Error())
}
