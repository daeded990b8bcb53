package muxhandlers

import (
	"errors"
	"net/http"

	"github.com/vitalvas/flute/mux"
	"github.com/vitalvas/flute/token"
)

var (
	// ErrNoTokenManager is returned when DoubleSubmitConfig.Manager is nil.
	ErrNoTokenManager = errors.New("double submit: token manager is required")

	// ErrNoSessionFunc is returned when DoubleSubmitConfig.SessionFunc is nil.
	ErrNoSessionFunc = errors.New("double submit: session func is required")
)

const (
	// DefaultTokenField is the form field carrying the token.
	DefaultTokenField = "_token"

	// DefaultTokenHeader is the header carrying the token.
	DefaultTokenHeader = "X-Double-Submit-Token"
)

// DoubleSubmitConfig configures the double-submit guard.
type DoubleSubmitConfig struct {
	// Manager keeps the issued tokens. Required.
	Manager *token.Manager

	// SessionFunc identifies the session of the request, usually from a
	// cookie. Required.
	SessionFunc func(r *http.Request) string

	// GroupFunc names the token group of the request. Defaults to the name
	// of the matched action, so handlers issue tokens with
	// Manager.Generate(session, c.Action().Name()).
	GroupFunc func(r *http.Request) string

	// HeaderName is checked first. Defaults to DefaultTokenHeader.
	HeaderName string

	// FieldName is the form field checked when the header is empty.
	// Defaults to DefaultTokenField.
	FieldName string

	// Methods lists the guarded methods. Defaults to POST, PUT, PATCH and
	// DELETE.
	Methods []string

	// Keep verifies without consuming the token.
	Keep bool
}

var defaultGuardedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// DoubleSubmitMiddleware returns a middleware that rejects a guarded
// request unless it carries the outstanding token of its session and group.
// The token is consumed, so a resubmitted form answers 409 Conflict. A
// token that does not match answers 403 Forbidden.
func DoubleSubmitMiddleware(cfg DoubleSubmitConfig) (mux.MiddlewareFunc, error) {
	if cfg.Manager == nil {
		return nil, ErrNoTokenManager
	}

	if cfg.SessionFunc == nil {
		return nil, ErrNoSessionFunc
	}

	group := cfg.GroupFunc
	if group == nil {
		group = actionGroup
	}

	header := cfg.HeaderName
	if header == "" {
		header = DefaultTokenHeader
	}

	field := cfg.FieldName
	if field == "" {
		field = DefaultTokenField
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultGuardedMethods
	}

	guarded, err := methodSet(methods)
	if err != nil {
		return nil, err
	}

	verify := cfg.Manager.Verify
	if cfg.Keep {
		verify = cfg.Manager.Keep
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := guarded[r.Method]; !ok {
				next.ServeHTTP(w, r)
				return
			}

			tok := r.Header.Get(header)
			if tok == "" && isFormRequest(r) {
				tok = r.PostFormValue(field)
			}

			switch err := verify(cfg.SessionFunc(r), group(r), tok); {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, token.ErrNoToken):
				mux.ResponseJSON(w, http.StatusConflict, map[string]string{"error": "request was already submitted"})
			default:
				mux.ResponseJSON(w, http.StatusForbidden, map[string]string{"error": "invalid double-submit token"})
			}
		})
	}, nil
}

func actionGroup(r *http.Request) string {
	if a := mux.CurrentAction(r); a != nil {
		return a.Name()
	}
	return r.URL.Path
}
