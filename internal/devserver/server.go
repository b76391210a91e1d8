package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nao1215/depobs/internal/database"
	"github.com/nao1215/depobs/internal/model"
)

// DefaultScoredAfterDays is how many days a scored report stays fresh.
const DefaultScoredAfterDays = 30

// Store is the persistence the server needs.
type Store interface {
	CreateScan(ctx context.Context, name string, args []string) (*database.Scan, error)
	GetScan(ctx context.Context, id int64) (*database.Scan, error)
	LatestReport(ctx context.Context, name, version string, scoredAfter time.Time) (*database.PackageReport, error)
}

// standardHeaders are set on every response.
var standardHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
	"Content-Security-Policy": "default-src 'none'; base-uri 'none'; form-action 'self'; " +
		"frame-ancestors 'none'; font-src 'self'; img-src 'self'; style-src 'self'; " +
		"script-src 'self'; connect-src 'self'; ",
	"Referrer-Policy":        "no-referrer",
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block",
}

// Server is the HTTP surface of the development report service.
type Server struct {
	router      chi.Router
	store       Store
	logger      *slog.Logger
	scoredAfter time.Duration
	jobNames    map[string]struct{}
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScoredAfterDays sets how many days a report counts as fresh.
// Zero or negative values disable the freshness window.
func WithScoredAfterDays(days int) Option {
	return func(s *Server) {
		s.scoredAfter = time.Duration(days) * 24 * time.Hour
	}
}

// WithJobNames replaces the set of scan job names the scans API accepts.
func WithJobNames(names ...string) Option {
	return func(s *Server) {
		s.jobNames = make(map[string]struct{}, len(names))
		for _, name := range names {
			s.jobNames[name] = struct{}{}
		}
	}
}

// withClock overrides the time source in tests.
func withClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a Server backed by store.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		store:       store,
		logger:      slog.Default(),
		scoredAfter: DefaultScoredAfterDays * 24 * time.Hour,
		jobNames:    map[string]struct{}{model.ScanJobName: {}},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(s.headersMiddleware)

	r.Get("/package_report", s.handleQueryReport)
	r.Head("/package_report", s.handleQueryReport)
	r.Get("/package_report/{name}/{version}", s.handleShowReport)
	r.Head("/package_report/{name}/{version}", s.handleShowReport)

	r.Post("/api/v1/scans", s.handleCreateScan)
	r.Get("/api/v1/scans/{scanID}", s.handleGetScan)
	r.Get("/scans/{scanID}/logs", s.handleScanLogs)
}

// headersMiddleware sets the standard headers and a fresh request id.
func (s *Server) headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range standardHeaders {
			w.Header().Set(k, v)
		}
		requestID := uuid.NewString()
		w.Header().Set(model.RequestIDHeader, requestID)

		s.logger.Debug("http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("request_id", requestID),
		)
		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
}

// ReportPath returns the path of the report page for name@version.
func ReportPath(name, version string) string {
	return "/package_report/" + url.PathEscape(name) + "/" + url.PathEscape(version)
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeDescription(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"description": msg})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, fields)
}

func (s *Server) cutoff() time.Time {
	if s.scoredAfter <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.scoredAfter)
}

// --- HTTP handlers ---

// Package reports

func (s *Server) handleQueryReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, version := q.Get(model.FieldPackageName), q.Get(model.FieldPackageVersion)

	missing := map[string][]string{}
	if name == "" {
		missing[model.FieldPackageName] = []string{"Missing data for required field."}
	}
	if version == "" {
		missing[model.FieldPackageVersion] = []string{"Missing data for required field."}
	}
	if len(missing) > 0 {
		writeFieldErrors(w, missing)
		return
	}

	cutoff := s.cutoff()
	report, err := s.store.LatestReport(r.Context(), name, version, cutoff)
	if err != nil {
		s.logger.Warn("looking up package report", slog.String("error", err.Error()))
		writeDescription(w, http.StatusInternalServerError, "failed to look up package report")
		return
	}
	if report == nil {
		writeDescription(w, http.StatusNotFound,
			fmt.Sprintf("PackageReport %s@%s scored after %s not found.", name, version, cutoff.Format(time.RFC3339)))
		return
	}

	http.Redirect(w, r, ReportPath(report.Package, report.Version), http.StatusFound)
}

func (s *Server) handleShowReport(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeDescription(w, http.StatusNotFound, "invalid package name")
		return
	}
	version, err := url.PathUnescape(chi.URLParam(r, "version"))
	if err != nil {
		writeDescription(w, http.StatusNotFound, "invalid package version")
		return
	}

	report, err := s.store.LatestReport(r.Context(), name, version, time.Time{})
	if err != nil {
		s.logger.Warn("reading package report", slog.String("error", err.Error()))
		writeDescription(w, http.StatusInternalServerError, "failed to read package report")
		return
	}
	if report == nil {
		writeDescription(w, http.StatusNotFound, fmt.Sprintf("PackageReport %s@%s not found.", name, version))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, formatReport(report))
}

func formatReport(report *database.PackageReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%s\n", report.Package, report.Version)
	fmt.Fprintf(&b, "scored at:      %s\n", report.ScoredAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "score:          %.2f (%s)\n", report.Score, report.ScoreCode)
	fmt.Fprintf(&b, "immediate deps: %d\n", report.ImmediateDeps)
	fmt.Fprintf(&b, "all deps:       %d\n", report.AllDeps)
	fmt.Fprintf(&b, "authors:        %d\n", report.Authors)
	fmt.Fprintf(&b, "contributors:   %d\n", report.Contributors)
	fmt.Fprintf(&b, "direct vulns:   %d\n", report.DirectVulns)
	fmt.Fprintf(&b, "indirect vulns: %d\n", report.IndirectVulns)
	return b.String()
}

// Scans

// scanParams is the body accepted by the scans API.
type scanParams struct {
	Name   *string        `json:"name"`
	Args   []string       `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var params scanParams
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		s.logger.Debug("decoding scan body", slog.String("error", err.Error()))
		writeFieldErrors(w, map[string][]string{"_schema": {"Invalid input type."}})
		return
	}
	if params.Name == nil {
		writeFieldErrors(w, map[string][]string{"name": {"Missing data for required field."}})
		return
	}
	if _, ok := s.jobNames[*params.Name]; !ok {
		writeDescription(w, http.StatusBadRequest, "job not allowed or does not exist for app")
		return
	}
	if len(params.Args) == 0 || len(params.Args) > 2 || params.Args[0] == "" {
		writeFieldErrors(w, map[string][]string{"args": {"Expected a package name and an optional version."}})
		return
	}

	scan, err := s.store.CreateScan(r.Context(), *params.Name, params.Args)
	if err != nil {
		s.logger.Warn("queueing scan", slog.String("error", err.Error()))
		writeDescription(w, http.StatusInternalServerError, "failed to queue scan")
		return
	}
	s.logger.Info("queued scan", slog.Int64("id", scan.ID), slog.Any("args", scan.Args))
	writeJSON(w, http.StatusAccepted, scan)
}

func (s *Server) lookupScan(r *http.Request) (*database.Scan, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "scanID"), 10, 64)
	if err != nil {
		return nil, nil //nolint:nilerr // a non-numeric id names no scan
	}
	return s.store.GetScan(r.Context(), id)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scan, err := s.lookupScan(r)
	if err != nil {
		s.logger.Warn("fetching scan", slog.String("error", err.Error()))
		writeDescription(w, http.StatusInternalServerError, "failed to fetch scan")
		return
	}
	if scan == nil {
		writeDescription(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleScanLogs(w http.ResponseWriter, r *http.Request) {
	scan, err := s.lookupScan(r)
	if err != nil {
		s.logger.Warn("rendering scan logs", slog.String("error", err.Error()))
		writeDescription(w, http.StatusInternalServerError, "failed to fetch scan")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if scan == nil {
		_, _ = fmt.Fprintln(w, "scan not found")
		return
	}
	_, _ = fmt.Fprintf(w, "scan %d: %s\n", scan.ID, scan.Status)
	_, _ = fmt.Fprintf(w, "job:     %s %s\n", scan.Name, strings.Join(scan.Args, " "))
	_, _ = fmt.Fprintf(w, "created: %s\n", scan.CreatedAt.Format(time.RFC3339))
}
