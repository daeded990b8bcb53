package muxhandlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vitalvas/flute/mux"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	// Logger receives the entries. Defaults to the charmbracelet/log
	// default logger.
	Logger *log.Logger

	// DisableIn drops the entry written before the handler runs.
	DisableIn bool

	// SkipPaths lists request paths that are not logged, such as health
	// checks.
	SkipPaths []string

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// AccessLogMiddleware returns a middleware that logs every request twice:
// "request in" with the matched execute before the handler runs, and
// "request out" with the status, the response size and the duration after
// it. Out entries of 4xx responses are warnings, 5xx are errors.
func AccessLogMiddleware(cfg AccessLogConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	skip := slices.Clone(cfg.SkipPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(skip, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			kv := []any{"method", r.Method, "path", r.URL.Path}
			if ri := mux.CurrentRoute(r); ri != nil {
				kv = append(kv, "action", ri.Action, "execute", ri.Method)
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				kv = append(kv, "request_id", id)
			}

			if !cfg.DisableIn {
				logger.Info("request in", kv...)
			}

			start := now()
			rw := &accessLogWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			kv = append(kv, "status", rw.status, "bytes", rw.size, "duration", now().Sub(start))
			switch {
			case rw.status >= http.StatusInternalServerError:
				logger.Error("request out", kv...)
			case rw.status >= http.StatusBadRequest:
				logger.Warn("request out", kv...)
			default:
				logger.Info("request out", kv...)
			}
		})
	}
}

type accessLogWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *accessLogWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *accessLogWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *accessLogWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
