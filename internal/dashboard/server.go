// Package dashboard serves the interactive year-range view of a cleaned
// CORD-19 table.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/chart"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/KaramelBytes/cord19/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const (
	chartWidth      = 640
	chartHeight     = 360
	shutdownTimeout = 5 * time.Second
)

// Options configures a dashboard server.
type Options struct {
	Title        string
	TopJournals  int
	PreviewRows  int
	DefaultRange Range
	RateRPS      float64
	RateBurst    int
	Logger       *slog.Logger
	// Registry receives the dashboard metrics; a private registry is used when nil.
	Registry *prometheus.Registry
}

// Server renders filtered views over one session's table.
type Server struct {
	opt      Options
	table    *dataset.CleanedTable
	bounds   Bounds
	log      *slog.Logger
	metrics  *metrics
	registry *prometheus.Registry
	validate *validator.Validate
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer loads the session's table and computes the slider bounds. A
// table that cannot be loaded or has no years is an error.
func NewServer(s *Session, opt Options) (*Server, error) {
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	if opt.TopJournals <= 0 {
		opt.TopJournals = 10
	}
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = 5
	}
	if opt.Title == "" {
		opt.Title = "CORD-19 Data Explorer"
	}
	if opt.DefaultRange == (Range{}) {
		opt.DefaultRange = Range{Lo: 2020, Hi: 2021}
	}
	if opt.RateBurst <= 0 {
		opt.RateBurst = 1
	}
	t, err := s.Table()
	if err != nil {
		return nil, fmt.Errorf("load cleaned table: %w", err)
	}
	b, err := ComputeBounds(t, opt.DefaultRange.Lo, opt.DefaultRange.Hi)
	if err != nil {
		return nil, err
	}
	reg := opt.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	srv := &Server{
		opt:      opt,
		table:    t,
		bounds:   b,
		log:      opt.Logger.With("component", "dashboard"),
		metrics:  newMetrics(reg),
		registry: reg,
		validate: newRangeValidator(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
	}
	srv.metrics.cachedRows.Set(float64(t.Len()))
	srv.router = srv.routes()
	return srv, nil
}

// Bounds returns the slider limits and default selection.
func (s *Server) Bounds() Bounds { return s.bounds }

// Handler returns the HTTP handler of the dashboard.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]interface{}{"status": "ok", "rows": s.table.Len()})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWS)

	limiter := newRateLimiter(s.opt.RateRPS, s.opt.RateBurst, s.log, func() {
		s.metrics.rejected.WithLabelValues("rate_limited").Inc()
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(limiter.Handler)
		r.Get("/bounds", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, s.bounds)
		})
		r.Get("/view", s.handleView)
	})
	return r
}

func newRangeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRange validates r and describes each violation.
func (s *Server) checkRange(r Range) []FieldError {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "range", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "gtefield":
			msg = "hi must be greater than or equal to lo"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// rangeFromQuery reads lo and hi. With allowDefault, absent parameters fall
// back to the default selection.
func (s *Server) rangeFromQuery(r *http.Request, allowDefault bool) (Range, []FieldError) {
	q := r.URL.Query()
	rng := Range{}
	if allowDefault {
		rng = s.bounds.Default
	}
	var errs []FieldError
	for _, p := range []struct {
		name string
		dst  *int
	}{{"lo", &rng.Lo}, {"hi", &rng.Hi}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: p.name, Message: p.name + " must be an integer year"})
			continue
		}
		*p.dst = n
	}
	if len(errs) > 0 {
		return rng, errs
	}
	return rng, s.checkRange(rng)
}

func (s *Server) buildView(r Range, transport string) View {
	start := time.Now()
	v := BuildView(s.table, r, s.opt.TopJournals, s.opt.PreviewRows)
	s.metrics.viewSeconds.Observe(time.Since(start).Seconds())
	s.metrics.views.WithLabelValues(transport).Inc()
	return v
}

// Panel is a view plus its rendered charts.
type Panel struct {
	View         View          `json:"view"`
	YearChart    template.HTML `json:"year_chart"`
	JournalChart template.HTML `json:"journal_chart"`
}

func (s *Server) buildPanel(r Range, transport string) (Panel, error) {
	v := s.buildView(r, transport)
	yc := analysis.YearChart(v.Years)
	yc.Title = "Publications by Year"
	years, err := chart.SVG(yc, chartWidth, chartHeight)
	if err != nil {
		return Panel{}, err
	}
	jc := analysis.JournalChart(v.Journals)
	jc.Title = fmt.Sprintf("Top %d Journals", s.opt.TopJournals)
	journals, err := chart.SVG(jc, chartWidth, chartHeight)
	if err != nil {
		return Panel{}, err
	}
	return Panel{View: v, YearChart: years, JournalChart: journals}, nil
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rng, errs := s.rangeFromQuery(r, false)
	if len(errs) > 0 {
		s.metrics.rejected.WithLabelValues("invalid_range").Inc()
		_ = render.Render(w, r, errInvalidRange(errs))
		return
	}
	render.JSON(w, r, s.buildView(rng, "api"))
}

type indexData struct {
	Title  string
	Bounds Bounds
	Range  Range
	Panel  Panel
	Rows   int
	Errors []FieldError
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rng, errs := s.rangeFromQuery(r, true)
	status := http.StatusOK
	if len(errs) > 0 {
		s.metrics.rejected.WithLabelValues("invalid_range").Inc()
		status = http.StatusBadRequest
		rng = s.bounds.Default
	}
	p, err := s.buildPanel(rng, "http")
	if err != nil {
		s.log.ErrorContext(r.Context(), "render panel", "error", err)
		_ = render.Render(w, r, errUnavailable("could not render charts"))
		return
	}
	var buf bytes.Buffer
	data := indexData{Title: s.opt.Title, Bounds: s.bounds, Range: rng, Panel: p, Rows: s.table.Len(), Errors: errs}
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.ErrorContext(r.Context(), "render index", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("dashboard listening", "addr", ln.Addr().String(), "rows", s.table.Len(),
			"min_year", s.bounds.Min, "max_year", s.bounds.Max)
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("dashboard shutting down")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
