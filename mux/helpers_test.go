package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty path", input: "", expected: "/"},
		{name: "root path", input: "/", expected: "/"},
		{name: "simple path", input: "/products", expected: "/products"},
		{name: "trailing slash", input: "/products/", expected: "/products/"},
		{name: "double slash", input: "/products//3", expected: "/products/3"},
		{name: "dot segments", input: "/products/./3", expected: "/products/3"},
		{name: "dotdot segments", input: "/products/purchases/../3", expected: "/products/3"},
		{name: "no leading slash", input: "products", expected: "/products"},
		{name: "trailing slash preserved", input: "/products/3/", expected: "/products/3/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanPath(tt.input))
		})
	}
}

func TestAllowedMethods(t *testing.T) {
	r := newTestRouter()
	r.Action("products",
		Execute{Method: "get$index", Handler: func(c *Context) error { return nil }},
		Execute{Method: "post$index", Handler: func(c *Context) error { return nil }},
		Execute{Method: "delete$index", Handler: func(c *Context, id int) error { return nil }},
	)

	tests := []struct {
		name     string
		method   string
		target   string
		expected []string
	}{
		{name: "excludes the request method", method: http.MethodPut, target: "/products/", expected: []string{"GET", "HEAD", "POST"}},
		{name: "head follows get", method: http.MethodGet, target: "/products/", expected: []string{"HEAD", "POST"}},
		{name: "depends on the path", method: http.MethodGet, target: "/products/3/", expected: []string{"DELETE"}},
		{name: "nothing on unknown path", method: http.MethodGet, target: "/orders/", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			assert.Equal(t, tt.expected, allowedMethods(r, req))
		})
	}
}

func TestMethodNotAllowedHandler(t *testing.T) {
	w := httptest.NewRecorder()
	methodNotAllowedHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSplitSegments(t *testing.T) {
	assert.Nil(t, splitSegments("/"))
	assert.Equal(t, []string{"products", "3"}, splitSegments("/products/3/"))
	assert.Equal(t, []string{"products", "3"}, splitSegments("products//3"))
}
