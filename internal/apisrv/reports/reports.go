package reports

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/trafficpulse/report-manager/internal/dependency"
	"github.com/trafficpulse/report-manager/internal/dto"
	gerr "github.com/trafficpulse/report-manager/internal/errors"
	"github.com/trafficpulse/report-manager/internal/form"
	"github.com/trafficpulse/report-manager/internal/ratelimit"
)

// Server implements handlers for report requests.
type Server struct {
	generator dependency.ReportGenerator
	mailer    dependency.Mailer
	limiter   *ratelimit.ReportLimiter
}

// New creates a new server with report handlers.
func New(generator dependency.ReportGenerator, mailer dependency.Mailer, limiter *ratelimit.ReportLimiter) *Server {
	return &Server{
		generator: generator,
		mailer:    mailer,
		limiter:   limiter,
	}
}

// Routes returns the report API subrouter.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/reports", s.handleGenerate)
	r.Post("/reports/email", s.handleEmail)
	return r
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.limiter.CheckReport(clientIP(r)); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	var body dto.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f := &form.GenerateReportRequest{GenerateReportRequest: &body}
	req, err := f.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.generator.GenerateReport(ctx, bearerToken(r), req)
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConvertResponseToDTO(resp))
}

func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.limiter.CheckEmail(clientIP(r)); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	var body dto.EmailReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f := &form.EmailReportRequest{EmailReportRequest: &body}
	req, err := f.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.generator.GenerateReport(ctx, bearerToken(r), req)
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}

	if err := s.mailer.SendReport(ctx, body.Recipients, resp); err != nil {
		if errors.Is(err, gerr.ErrMailerDisabled) {
			writeError(w, http.StatusServiceUnavailable, "email delivery is not configured")
			return
		}
		slog.Default().ErrorContext(ctx, "can't send report email",
			slog.String("err", err.Error()))
		writeError(w, http.StatusBadGateway, "report generated but email delivery failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.ConvertResponseToDTO(resp))
}

func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var ve *gerr.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, gerr.ErrUpstreamUnavailable):
		slog.Default().ErrorContext(ctx, "analytics service unreachable")
		writeError(w, http.StatusBadGateway, gerr.ErrUpstreamUnavailable.Error())
	case errors.Is(err, gerr.ErrBatchCancelled):
		writeError(w, http.StatusServiceUnavailable, gerr.ErrBatchCancelled.Error())
	default:
		slog.Default().ErrorContext(ctx, "can't generate report",
			slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "can't generate report")
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("can't encode response",
			slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
