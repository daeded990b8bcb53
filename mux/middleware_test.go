package mux

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterUse(t *testing.T) {
	t.Run("applies multiple middleware in order", func(t *testing.T) {
		r := newTestRouter()
		var order []string
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "first")
				next.ServeHTTP(w, req)
			})
		})
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "second")
				next.ServeHTTP(w, req)
			})
		})
		r.Action("products", Execute{Method: "index", Handler: func(c *Context) error {
			order = append(order, "handler")
			return nil
		}})

		serve(r, http.MethodGet, "/products/", nil)
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("middleware sees the matched execute", func(t *testing.T) {
		r := newTestRouter()
		var seen string
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if ri := CurrentRoute(req); ri != nil {
					seen = ri.Action + "." + ri.Method
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Action("products", Execute{Method: "post$sea", Handler: func(c *Context) error { return nil }})

		serve(r, http.MethodPost, "/products/sea/", nil)
		assert.Equal(t, "products.post$sea", seen)
	})

	t.Run("middleware can short-circuit", func(t *testing.T) {
		r := newTestRouter()
		called := false
		r.Use(func(_ http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			})
		})
		r.Action("products", Execute{Method: "index", Handler: func(c *Context) error {
			called = true
			return nil
		}})

		w := serve(r, http.MethodGet, "/products/", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})
}

func TestMiddlewareFunc(t *testing.T) {
	mw := MiddlewareFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Wrapped", "yes")
			next.ServeHTTP(w, req)
		})
	})

	r := newTestRouter()
	r.Action("products", Execute{Method: "index", Handler: func(c *Context) error { return nil }})
	r.Use(mw)

	w := serve(r, http.MethodGet, "/products/", nil)
	assert.Equal(t, "yes", w.Header().Get("X-Wrapped"))
}

func TestCORSMethodMiddleware(t *testing.T) {
	r := newTestRouter()
	r.Action("products",
		Execute{Method: "get$index", Handler: func(c *Context) error { return nil }},
		Execute{Method: "put$index", Handler: func(c *Context) error { return nil }},
		Execute{Method: "post$sea", Handler: func(c *Context) error { return nil }},
	)
	r.Use(CORSMethodMiddleware(r))

	tests := []struct {
		name     string
		method   string
		target   string
		expected string
	}{
		{name: "lists the methods of the path", method: http.MethodGet, target: "/products/", expected: "GET,HEAD,PUT"},
		{name: "other path", method: http.MethodPost, target: "/products/sea/", expected: "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.target, nil)
			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
