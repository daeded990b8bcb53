package muxhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/vitalvas/flute/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives the recovered value with the matched action and the
	// stack. Defaults to the charmbracelet/log default logger.
	Logger *log.Logger

	// LogFunc is an optional callback invoked with the request and the
	// recovered value, after the panic has been logged.
	LogFunc func(r *http.Request, err any)

	// DisableStack omits the goroutine stack from the log entry.
	DisableStack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. When a panic occurs it logs the value and returns
// 500 Internal Server Error to the client. http.ErrAbortHandler is
// re-panicked so the server aborts the connection.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				kv := []any{"panic", err, "method", r.Method, "path", r.URL.Path}
				if ri := mux.CurrentRoute(r); ri != nil {
					kv = append(kv, "action", ri.Action, "execute", ri.Method)
				}
				if !cfg.DisableStack {
					kv = append(kv, "stack", string(debug.Stack()))
				}
				logger.Error("handler panicked", kv...)

				if cfg.LogFunc != nil {
					cfg.LogFunc(r, err)
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
