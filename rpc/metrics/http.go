package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server exports a collector on GET /metrics
type Server struct {
	srv *http.Server
}

// NewServer creates the metrics endpoint. With debug enabled every scrape is logged.
func NewServer(endpoint string, c *Collector, debug bool) *Server {
	mux := http.NewServeMux()

	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		c.WritePrometheus(w)
	}

	// Register handler
	if debug {
		mux.HandleFunc("GET /metrics", loggerMiddleware(handler))
	} else {
		mux.HandleFunc("GET /metrics", handler)
	}

	return &Server{
		srv: &http.Server{
			Addr:              endpoint,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Serve accepts scrapes on the listener until Shutdown is called
func (s *Server) Serve(listener net.Listener) error {
	Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
	if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics endpoint failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured endpoint and serves scrapes until Shutdown is called
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(listener)
}

// Shutdown stops the metrics endpoint
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	}
}
