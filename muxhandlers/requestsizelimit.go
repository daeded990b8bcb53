package muxhandlers

import (
	"errors"
	"net/http"

	"github.com/vitalvas/flute/mux"
)

// ErrInvalidMaxSize is returned when RequestSizeLimitConfig.MaxBytes is not
// greater than zero, or BodyMaxBytes is negative.
var ErrInvalidMaxSize = errors.New("request size limit: max size must be greater than zero")

// RequestSizeLimitConfig configures the Request Size Limit middleware behaviour.
type RequestSizeLimitConfig struct {
	// MaxBytes is the maximum allowed request body size in bytes.
	// Must be greater than zero.
	MaxBytes int64

	// BodyMaxBytes overrides MaxBytes for executes binding a JSON body.
	// Zero keeps MaxBytes.
	BodyMaxBytes int64
}

// RequestSizeLimitMiddleware returns a middleware that limits the size of
// incoming request bodies. A declared Content-Length over the limit is
// answered with 413 right away; otherwise r.Body is wrapped with
// http.MaxBytesReader and the execute binder reports the overflow as 413.
//
// It returns ErrInvalidMaxSize if MaxBytes is not greater than zero.
func RequestSizeLimitMiddleware(cfg RequestSizeLimitConfig) (mux.MiddlewareFunc, error) {
	if cfg.MaxBytes <= 0 || cfg.BodyMaxBytes < 0 {
		return nil, ErrInvalidMaxSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := cfg.MaxBytes
			if ri := mux.CurrentRoute(r); ri != nil && ri.Form == mux.FormSourceBody && cfg.BodyMaxBytes > 0 {
				limit = cfg.BodyMaxBytes
			}

			if r.ContentLength > limit {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}, nil
}
