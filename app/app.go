package app

import (
	"context"

	"log/slog"

	"github.com/trafficpulse/report-manager/config"
	"github.com/trafficpulse/report-manager/internal/analytics/ga4"
	httpapi "github.com/trafficpulse/report-manager/internal/api/http"
	"github.com/trafficpulse/report-manager/internal/apisrv/reports"
	"github.com/trafficpulse/report-manager/internal/mail"
	"github.com/trafficpulse/report-manager/internal/ratelimit"
	"github.com/trafficpulse/report-manager/internal/report"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting report manager")

	ga4Client := ga4.NewClient(&a.c.GA4)
	reportService := report.New(&a.c.Report, ga4Client)
	mailer := mail.New(&a.c.Mailer)
	limiter := ratelimit.NewReportLimiter(&a.c.RateLimit)

	reportsServer := reports.New(reportService, mailer, limiter)

	a.hs = httpapi.New(&a.c.HTTP)
	if err := a.hs.Start(ctx, reportsServer); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()))
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		a.hs.Stop(ctx)
	}
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
