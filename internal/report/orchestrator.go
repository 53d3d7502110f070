package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/trafficpulse/report-manager/internal/entity"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
)

// runQueries fans out one upstream query per property id. Parallelism is
// bounded by a weighted semaphore; each outcome is written exactly once
// into its request-position slot, so completion order never leaks into the
// response. A cancelled batch returns an error with no partial result.
func (s *Service) runQueries(ctx context.Context, token string, req *entity.ReportRequest) ([]entity.PropertyOutcome, error) {
	outcomes := make([]entity.PropertyOutcome, len(req.PropertyIDs))
	kinds := make([]gerr.QueryErrorKind, len(req.PropertyIDs))

	sem := semaphore.NewWeighted(int64(s.c.MaxConcurrentQueries))
	var wg sync.WaitGroup
	for i, propertyID := range req.PropertyIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Caller cancelled while properties were still queued.
			break
		}
		wg.Add(1)
		go func(slot int, propertyID string) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[slot], kinds[slot] = s.runProperty(ctx, token, propertyID, req)
		}(i, propertyID)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", gerr.ErrBatchCancelled, ctx.Err())
	}
	if allTransportFailures(kinds) {
		return nil, gerr.ErrUpstreamUnavailable
	}
	return outcomes, nil
}

// runProperty executes one property's query and the per-property pipeline.
// Any failure is captured as a PropertyError; it never propagates to
// sibling properties.
func (s *Service) runProperty(ctx context.Context, token, propertyID string, req *entity.ReportRequest) (entity.PropertyOutcome, gerr.QueryErrorKind) {
	qctx, cancel := context.WithTimeout(ctx, s.c.QueryTimeout)
	defer cancel()

	rows, err := s.src.RunStateReport(qctx, token, propertyID, req.Filter, req.DateRange)
	if err != nil {
		qe := classifyQueryError(err)
		slog.Default().ErrorContext(ctx, "property query failed",
			slog.String("property_id", propertyID),
			slog.String("kind", string(qe.Kind)),
			slog.String("err", qe.Msg))
		return entity.PropertyOutcome{
			PropertyID: propertyID,
			Err:        &entity.PropertyError{PropertyID: propertyID, Message: qe.Error()},
		}, qe.Kind
	}

	records, usable := aggregateRows(rows)
	if len(rows) > 0 && usable == 0 {
		// Upstream answered but nothing survived parsing. An empty
		// success would be indistinguishable from genuine zero traffic.
		return entity.PropertyOutcome{
			PropertyID: propertyID,
			Err:        &entity.PropertyError{PropertyID: propertyID, Message: gerr.ErrNoValidRows.Error()},
		}, gerr.KindOther
	}

	assignPercentages(records)
	selected := selectTopRegions(records, req.TopStatesCount)
	report := buildPropertyReport(propertyID, s.displayName(propertyID), req.DateRange, selected)
	return entity.PropertyOutcome{PropertyID: propertyID, Report: report}, ""
}

// classifyQueryError normalizes an upstream failure into a QueryError.
func classifyQueryError(err error) *gerr.QueryError {
	var qe *gerr.QueryError
	if errors.As(err, &qe) {
		return qe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return gerr.NewQueryError(gerr.KindTimeout, "query timed out")
	}
	return gerr.NewQueryError(gerr.KindOther, "%s", err.Error())
}

// allTransportFailures reports whether every property failed at the
// transport level, which means the upstream service is unreachable as a
// whole rather than individual properties misbehaving.
func allTransportFailures(kinds []gerr.QueryErrorKind) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, k := range kinds {
		if k != gerr.KindTransport {
			return false
		}
	}
	return true
}
