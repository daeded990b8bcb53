package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/flute/mux"
)

type StockForm struct {
	Name string
}

func overrideRouter() *mux.Router {
	r := newRouter()
	r.Action("products",
		mux.Execute{Method: "put$index", Handler: func(c *mux.Context, id int, form *StockForm) error {
			return c.Text(http.StatusOK, "put "+form.Name)
		}},
		mux.Execute{Method: "delete$index", Handler: func(c *mux.Context, id int) error {
			return c.Text(http.StatusOK, "delete")
		}},
		mux.Execute{Method: "post$index", Handler: func(c *mux.Context, id int) error {
			return c.Text(http.StatusOK, "post")
		}},
		mux.Execute{Method: "get$index", Handler: func(c *mux.Context, id int) error {
			return c.Text(http.StatusOK, "get")
		}},
	)
	return r.MustBoot()
}

func TestMethodOverrideMiddleware(t *testing.T) {
	t.Run("config validation", func(t *testing.T) {
		tests := []struct {
			name   string
			config MethodOverrideConfig
		}{
			{"empty string in allowed methods", MethodOverrideConfig{AllowedMethods: []string{""}}},
			{"lowercase allowed method", MethodOverrideConfig{AllowedMethods: []string{"put"}}},
			{"mixed case allowed method", MethodOverrideConfig{AllowedMethods: []string{"Put"}}},
			{"lowercase original method", MethodOverrideConfig{OriginalMethods: []string{"post"}}},
			{"empty string in original methods", MethodOverrideConfig{OriginalMethods: []string{""}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := MethodOverrideMiddleware(tt.config)
				assert.ErrorIs(t, err, ErrInvalidOverrideMethod)
			})
		}

		_, err := MethodOverrideMiddleware(MethodOverrideConfig{})
		assert.NoError(t, err)
	})

	mw, err := MethodOverrideMiddleware(MethodOverrideConfig{})
	require.NoError(t, err)
	h := mw.Middleware(overrideRouter())

	tests := []struct {
		name        string
		method      string
		headers     map[string]string
		contentType string
		body        string
		want        string
		wantCode    int
	}{
		{name: "no override", method: http.MethodPost, want: "post", wantCode: http.StatusOK},
		{name: "X-HTTP-Method-Override", method: http.MethodPost, headers: map[string]string{"X-HTTP-Method-Override": "DELETE"}, want: "delete", wantCode: http.StatusOK},
		{name: "X-Method-Override", method: http.MethodPost, headers: map[string]string{"X-Method-Override": "delete"}, want: "delete", wantCode: http.StatusOK},
		{name: "X-HTTP-Method", method: http.MethodPost, headers: map[string]string{"X-HTTP-Method": "DELETE"}, want: "delete", wantCode: http.StatusOK},
		{
			name:     "first header wins",
			method:   http.MethodPost,
			headers:  map[string]string{"X-HTTP-Method-Override": "DELETE", "X-HTTP-Method": "PUT"},
			want:     "delete",
			wantCode: http.StatusOK,
		},
		{name: "GET is not eligible", method: http.MethodGet, headers: map[string]string{"X-HTTP-Method-Override": "DELETE"}, want: "get", wantCode: http.StatusOK},
		{name: "disallowed override", method: http.MethodPost, headers: map[string]string{"X-HTTP-Method-Override": "GET"}, want: "post", wantCode: http.StatusOK},
		{
			name:        "form field",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			body:        "_method=put&name=sea",
			want:        "put sea",
			wantCode:    http.StatusOK,
		},
		{
			name:        "form field ignored for json",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"_method":"put"}`,
			want:        "post",
			wantCode:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/products/3/", strings.NewReader(tt.body))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	t.Run("header removed after override", func(t *testing.T) {
		var gotHeader string
		inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-HTTP-Method-Override")
		})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-HTTP-Method-Override", "PATCH")
		mw.Middleware(inner).ServeHTTP(httptest.NewRecorder(), req)

		assert.Empty(t, gotHeader)
		assert.Equal(t, http.MethodPatch, req.Method)
	})

	t.Run("custom form field and disabled form", func(t *testing.T) {
		custom, err := MethodOverrideMiddleware(MethodOverrideConfig{FormField: "verb"})
		require.NoError(t, err)
		disabled, err := MethodOverrideMiddleware(MethodOverrideConfig{DisableForm: true})
		require.NoError(t, err)

		newReq := func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/products/3/", strings.NewReader("verb=delete&_method=delete"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return req
		}

		w := httptest.NewRecorder()
		custom.Middleware(overrideRouter()).ServeHTTP(w, newReq())
		assert.Equal(t, "delete", w.Body.String())

		w = httptest.NewRecorder()
		disabled.Middleware(overrideRouter()).ServeHTTP(w, newReq())
		assert.Equal(t, "post", w.Body.String())
	})

	t.Run("applied after routing has no effect", func(t *testing.T) {
		r := newRouter()
		r.Action("products", mux.Execute{Method: "delete$index", Handler: func(c *mux.Context, id int) error {
			return c.NoContent(http.StatusNoContent)
		}})
		r.Use(mw)
		r.MustBoot()

		req := httptest.NewRequest(http.MethodPost, "/products/3/", nil)
		req.Header.Set("X-HTTP-Method-Override", "DELETE")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
