package mux

import (
	"net/http"
	"slices"
	"strings"
)

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. Typically, the returned handler is a closure which
// does something with the http.ResponseWriter and http.Request passed to
// it, and then calls the handler passed as parameter to the MiddlewareFunc.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// CORSMethodMiddleware sets the Access-Control-Allow-Methods response header
// (Fetch Standard, CORS protocol) to every method some execute accepts on
// the request path, the request method included.
func CORSMethodMiddleware(r *Router) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			methods := allowedMethods(r, req)
			if !matchInArray(methods, req.Method) {
				methods = append(methods, req.Method)
				slices.Sort(methods)
			}
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
			next.ServeHTTP(w, req)
		})
	}
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}
