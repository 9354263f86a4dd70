// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layouts          place words, respond with the layout JSON
//	POST /v1/render/{format}  place words and respond with one artifact
//	                          (png, poster, json or txt)
//	GET  /healthz             liveness
//	GET  /metrics             Prometheus metrics
//
// Request bodies are pipeline options:
//
//	{"words": ["CAT", "CAR", "ARC"], "top_text": "Hi", "seed": 7}
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}}. Invalid
// input maps to 400, an unsupported format to 404 and an exhausted search to
// 422.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/wordtiles/pkg/board"
	"github.com/matzehuels/wordtiles/pkg/buildinfo"
	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/order"
	"github.com/matzehuels/wordtiles/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 64 << 10

// Server handles HTTP requests.
type Server struct {
	runner   *pipeline.Runner
	template pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTemplate sets defaults for fields a request leaves empty.
func WithTemplate(opts pipeline.Options) Option { return func(s *Server) { s.template = opts } }

// WithGatherer sets the registry served on /metrics. Defaults to
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New returns a server running layouts through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		gatherer: prometheus.DefaultGatherer,
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// layoutResponse is the body of a successful /v1/layouts call.
type layoutResponse struct {
	OrderID string       `json:"order_id"`
	Hash    string       `json:"hash"`
	Cached  bool         `json:"cached"`
	Layout  board.Layout `json:"layout"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		OrderID: opts.OrderID,
		Hash:    res.LayoutHash,
		Cached:  res.CacheInfo.LayoutHit,
		Layout:  res.Layout,
	})
}

var contentTypes = map[string]string{
	pipeline.FormatPNG:    "image/png",
	pipeline.FormatPoster: "image/png",
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatTXT:    "text/plain; charset=utf-8",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Hash", res.LayoutHash)
	w.Header().Set("X-Order-ID", opts.OrderID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads pipeline options from the body and fills gaps from the
// template. Only layout inputs and the headline come from the request;
// glyph and background paths never do.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var req pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	o := order.New(req.Words, req.TopText)
	if req.OrderID != "" {
		o.OrderID = req.OrderID
	}
	opts := s.template
	opts.Words = o.Words
	opts.TopText = o.TopText
	opts.OrderID = o.OrderID
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	if req.RetryBudget != 0 {
		opts.RetryBudget = req.RetryBudget
	}
	if req.InitialSize != 0 {
		opts.InitialSize = req.InitialSize
	}
	if req.TileSize != 0 {
		opts.TileSize = req.TileSize
	}
	if err := errors.ValidateOrderID(opts.OrderID); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// statusOf maps error codes to HTTP statuses.
func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOrder, errors.ErrCodeInvalidFormat, errors.ErrCodeOrderDecode:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodePlacementExhausted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
