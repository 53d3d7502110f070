package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/trafficpulse/report-manager/internal/dependency"
	"github.com/trafficpulse/report-manager/internal/entity"
)

// Config holds the report engine configuration.
type Config struct {
	// MaxConcurrentQueries bounds how many property queries run in
	// parallel. Excess properties queue.
	MaxConcurrentQueries int `mapstructure:"max_concurrent_queries"`
	// QueryTimeout applies to each property query individually, not to
	// the batch.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	// PropertyNames maps property ids to display names for the report
	// header. Unknown ids fall back to the id itself.
	PropertyNames map[string]string `mapstructure:"property_names"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentQueries: 5,
		QueryTimeout:         30 * time.Second,
	}
}

// Service generates multi-property traffic reports: one upstream query per
// property with bounded parallelism, per-property failure isolation, and a
// deterministic response assembled in request order.
type Service struct {
	src dependency.AnalyticsSource
	c   *Config
}

// New creates a new report service.
func New(c *Config, src dependency.AnalyticsSource) *Service {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.MaxConcurrentQueries <= 0 {
		c.MaxConcurrentQueries = 5
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 30 * time.Second
	}
	return &Service{src: src, c: c}
}

// GenerateReport runs the full pipeline for one request. Validation errors
// and batch-level failures (cancellation, total upstream outage) are
// returned as errors; individual property failures are embedded in the
// response.
func (s *Service) GenerateReport(ctx context.Context, token string, req *entity.ReportRequest) (*entity.ReportResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	slog.Default().InfoContext(ctx, "generating traffic report",
		slog.Int("properties", len(req.PropertyIDs)),
		slog.Int("top_states", req.TopStatesCount),
		slog.String("start_date", req.DateRange.Start.Format("2006-01-02")),
		slog.String("end_date", req.DateRange.End.Format("2006-01-02")))

	outcomes, err := s.runQueries(ctx, token, req)
	if err != nil {
		return nil, err
	}

	resp := composeResponse(outcomes)
	slog.Default().InfoContext(ctx, "traffic report ready",
		slog.Int("reports", len(resp.Reports)),
		slog.Int("errors", len(resp.Errors)))
	return resp, nil
}

func (s *Service) displayName(propertyID string) string {
	if name, ok := s.c.PropertyNames[propertyID]; ok {
		return name
	}
	return propertyID
}
