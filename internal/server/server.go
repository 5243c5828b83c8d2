// Package server serves the georeferenced floor plan to the browser viewer.
//
// Routes:
//
//	GET /health          liveness and build version
//	GET /graph.json      the exported GeoJSON collection
//	GET /locations.json  the transformed location records
//	GET /*               static files from the viewer directory
//
// /graph.json serves the pipeline output file when it exists and otherwise
// runs the pipeline in memory, so the viewer works before the first export.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floorgeo/pkg/buildinfo"
	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/locations"
	"github.com/matzehuels/floorgeo/pkg/observability"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Options configures the handler.
type Options struct {
	// Dir holds the static viewer files. Empty disables static serving.
	Dir string

	// Pipeline is run in memory when Pipeline.Output does not exist yet.
	// Pipeline.Output and Pipeline.LocationsOutput name the files served.
	Pipeline pipeline.Options

	Logger *log.Logger
}

// Server holds the handler state.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil logger falls back to log.Default().
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		opts:   opts,
		runner: pipeline.NewRunner(logger),
		logger: logger,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.health)
	r.Get("/graph.json", s.graph)
	r.Get("/locations.json", s.locations)

	if s.opts.Dir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.opts.Dir)))
	}
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving viewer", "addr", addr, "dir", s.opts.Dir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	if path := s.opts.Pipeline.Output; path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			w.Header().Set("Content-Type", "application/geo+json")
			w.Write(data)
			return
		}
		if !os.IsNotExist(err) {
			s.fail(w, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path))
			return
		}
	}

	opts := s.opts.Pipeline
	opts.Output, opts.LocationsOutput = "", ""
	opts.StopAfter = pipeline.StageExport
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := floorio.WriteGeoJSON(res.Collection, &buf); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(buf.Bytes())
}

func (s *Server) locations(w http.ResponseWriter, r *http.Request) {
	path := s.opts.Pipeline.LocationsOutput
	if path == "" {
		s.fail(w, errors.New(errors.ErrCodeNotFound, "no locations file configured"))
		return
	}
	store, err := locations.NewFileStore(path)
	if err != nil {
		s.fail(w, err)
		return
	}
	records, err := store.Load(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := locations.Encode(&buf, records); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// fail writes err as a JSON error body with a status derived from its code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Warn("request rejected", "error", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDegenerateEdge,
		errors.ErrCodeEmptyGraph,
		errors.ErrCodeDegenerateCorrespondence,
		errors.ErrCodeControlPointNotFound,
		errors.ErrCodeMalformedRecord,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidLocation,
		errors.ErrCodeInvalidPath:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
