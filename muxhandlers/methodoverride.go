package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/flute/mux"
)

// ErrInvalidOverrideMethod is returned when MethodOverrideConfig.AllowedMethods
// or MethodOverrideConfig.OriginalMethods contains an invalid HTTP method.
var ErrInvalidOverrideMethod = errors.New("method override: allowed methods must be valid HTTP methods")

// DefaultOverrideField is the form field read when FormField is empty.
const DefaultOverrideField = "_method"

// MethodOverrideConfig configures the Method Override middleware behaviour.
type MethodOverrideConfig struct {
	// HeaderNames is the list of header names checked in order.
	// The first non-empty header value is used as the override.
	// When nil, defaults to
	// ["X-HTTP-Method-Override", "X-Method-Override", "X-HTTP-Method"].
	HeaderNames []string

	// FormField is the url-encoded or multipart form field consulted when
	// no header is set, so HTML forms can reach put$ and delete$ executes.
	// Defaults to "_method".
	FormField string

	// DisableForm turns the form field lookup off.
	DisableForm bool

	// OriginalMethods is the set of HTTP methods eligible for override.
	// When nil, defaults to [POST].
	OriginalMethods []string

	// AllowedMethods restricts which methods can be used as overrides.
	// When nil, defaults to PUT, PATCH, DELETE.
	AllowedMethods []string
}

var defaultOverrideHeaders = []string{
	"X-HTTP-Method-Override",
	"X-Method-Override",
	"X-HTTP-Method",
}

var defaultOriginalMethods = []string{http.MethodPost}

var defaultOverrideMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// MethodOverrideMiddleware returns a middleware that lets clients override
// the HTTP method by header or form field. The override is uppercased and
// checked against the allowed set; when allowed, r.Method is replaced.
//
// Routing depends on the method, so the middleware wraps the router rather
// than being passed to Router.Use:
//
//	mw, err := muxhandlers.MethodOverrideMiddleware(muxhandlers.MethodOverrideConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", mw.Middleware(r))
//
// It returns ErrInvalidOverrideMethod if AllowedMethods or OriginalMethods
// contains an invalid method.
func MethodOverrideMiddleware(cfg MethodOverrideConfig) (mux.MiddlewareFunc, error) {
	headers := cfg.HeaderNames
	if len(headers) == 0 {
		headers = defaultOverrideHeaders
	}

	field := cfg.FormField
	if field == "" {
		field = DefaultOverrideField
	}

	originals := cfg.OriginalMethods
	if originals == nil {
		originals = defaultOriginalMethods
	}

	methods := cfg.AllowedMethods
	if methods == nil {
		methods = defaultOverrideMethods
	}

	originalSet, err := methodSet(originals)
	if err != nil {
		return nil, err
	}

	allowed, err := methodSet(methods)
	if err != nil {
		return nil, err
	}

	headerNames := append([]string(nil), headers...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := originalSet[r.Method]; ok {
				override, header := "", ""
				for _, h := range headerNames {
					if v := r.Header.Get(h); v != "" {
						override, header = v, h
						break
					}
				}

				if override == "" && !cfg.DisableForm && isFormRequest(r) {
					override = r.PostFormValue(field)
				}

				override = strings.ToUpper(override)
				if _, ok := allowed[override]; ok {
					r.Method = override
					if header != "" {
						r.Header.Del(header)
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func methodSet(methods []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if m == "" || m != strings.ToUpper(m) {
			return nil, ErrInvalidOverrideMethod
		}
		set[m] = struct{}{}
	}
	return set, nil
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}
