package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/flute/mux"
)

// ErrNoAllowedTypes is returned when an allowed type list is set but
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures the Content-Type Check middleware behaviour.
// Matching is case-insensitive and ignores parameters (e.g.
// "application/json" matches "application/json; charset=utf-8").
type ContentTypeCheckConfig struct {
	// BodyTypes are accepted by executes binding a JSON body. When nil,
	// defaults to application/json.
	BodyTypes []string

	// FormTypes are accepted by executes binding a form. When nil,
	// defaults to url-encoded and multipart forms.
	FormTypes []string

	// Methods is the set of HTTP methods that require Content-Type
	// validation. When nil, defaults to POST, PUT, PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

var (
	defaultBodyTypes = []string{"application/json"}
	defaultFormTypes = []string{"application/x-www-form-urlencoded", "multipart/form-data"}
)

// ContentTypeCheckMiddleware returns a middleware that validates the
// Content-Type of requests reaching executes with a form or body parameter.
// It returns 415 Unsupported Media Type when the type does not fit the
// parameter. Requests without a body and executes without a form are not
// checked.
//
// It returns ErrNoAllowedTypes if BodyTypes or FormTypes is set but empty.
func ContentTypeCheckMiddleware(cfg ContentTypeCheckConfig) (mux.MiddlewareFunc, error) {
	bodyTypes, err := typeSet(cfg.BodyTypes, defaultBodyTypes)
	if err != nil {
		return nil, err
	}

	formTypes, err := typeSet(cfg.FormTypes, defaultFormTypes)
	if err != nil {
		return nil, err
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	checked := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		checked[m] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ri := mux.CurrentRoute(r)
			_, check := checked[r.Method]
			if !check || ri == nil || ri.Form == "" || (r.ContentLength == 0 && r.Header.Get("Content-Type") == "") {
				next.ServeHTTP(w, r)
				return
			}

			allowed := formTypes
			if ri.Form == mux.FormSourceBody {
				allowed = bodyTypes
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
				return
			}

			if _, ok := allowed[strings.ToLower(mediaType)]; !ok {
				http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func typeSet(types, defaults []string) (map[string]struct{}, error) {
	if types == nil {
		types = defaults
	}
	if len(types) == 0 {
		return nil, ErrNoAllowedTypes
	}

	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set, nil
}
