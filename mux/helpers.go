package mux

import (
	"net/http"
	"path"
	"slices"
)

// cleanPath returns the canonical path for p, eliminating . and .. elements
// per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// allowCandidates are tried when collecting the methods allowed on a path.
var allowCandidates = []string{
	http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodPatch, http.MethodDelete,
	http.MethodOptions,
}

// allowedMethods returns the HTTP methods some execute accepts on the
// request path, sorted alphabetically per RFC 9110 Section 10.2.1. Used to
// populate the Allow header of 405 responses.
func allowedMethods(router *Router, req *http.Request) []string {
	var allowed []string
	for _, method := range allowCandidates {
		if method == req.Method {
			continue
		}
		trial := req.Clone(req.Context())
		trial.Method = method
		if router.Match(trial, &RouteMatch{}) {
			allowed = append(allowed, method)
		}
	}
	slices.Sort(allowed)
	return allowed
}

// methodNotAllowed replies to the request with an HTTP 405 method not allowed.
// The Allow header is set by the caller (Router.ServeHTTP) before this
// handler is invoked.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// methodNotAllowedHandler returns a HandlerFunc that replies with 405.
func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(methodNotAllowed)
}
