package muxhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vitalvas/flute/mux"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by
// RequestIDMiddleware. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc returns a new unique ID for the request. Defaults to
	// GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses the ID of the incoming request header.
	TrustIncoming bool

	// RequireUUID, with TrustIncoming, discards incoming IDs that are not
	// UUIDs.
	RequireUUID bool
}

// RequestIDMiddleware returns a middleware that generates or propagates a
// request ID header. The ID is set on the request, its context and the
// response.
func RequestIDMiddleware(cfg RequestIDConfig) mux.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.TrustIncoming {
				id = r.Header.Get(headerName)
				if id != "" && cfg.RequireUUID {
					if _, err := uuid.Parse(id); err != nil {
						id = ""
					}
				}
			}

			if id == "" {
				id = generate(r)
			}

			if id != "" {
				r.Header.Set(headerName, id)
				w.Header().Set(headerName, id)
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateUUIDv4 returns a new UUID v4 string (RFC 9562 Section 5.4).
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new time-ordered UUID v7 string (RFC 9562
// Section 5.7).
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
