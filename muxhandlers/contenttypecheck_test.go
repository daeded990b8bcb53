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

func TestContentTypeCheckMiddleware(t *testing.T) {
	t.Run("config validation", func(t *testing.T) {
		_, err := ContentTypeCheckMiddleware(ContentTypeCheckConfig{BodyTypes: []string{}})
		assert.ErrorIs(t, err, ErrNoAllowedTypes)

		_, err = ContentTypeCheckMiddleware(ContentTypeCheckConfig{FormTypes: []string{}})
		assert.ErrorIs(t, err, ErrNoAllowedTypes)

		_, err = ContentTypeCheckMiddleware(ContentTypeCheckConfig{})
		assert.NoError(t, err)
	})

	mw, err := ContentTypeCheckMiddleware(ContentTypeCheckConfig{})
	require.NoError(t, err)

	r := newRouter()
	r.Action("notes",
		mux.Execute{Method: "post$index", Handler: func(c *mux.Context, body *NoteBody) error {
			return c.Text(http.StatusOK, body.Text)
		}},
		mux.Execute{Method: "post$tag", Handler: func(c *mux.Context, form *StockForm) error {
			return c.Text(http.StatusOK, form.Name)
		}},
		mux.Execute{Method: "post$ping", Handler: func(c *mux.Context) error {
			return c.Text(http.StatusOK, "pong")
		}},
	)
	r.Use(mw)
	r.MustBoot()

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantCode    int
	}{
		{name: "json body", target: "/notes/", contentType: "application/json", body: `{"text":"a"}`, wantCode: http.StatusOK},
		{name: "json body with charset", target: "/notes/", contentType: "Application/JSON; charset=utf-8", body: `{"text":"a"}`, wantCode: http.StatusOK},
		{name: "form sent to body execute", target: "/notes/", contentType: "application/x-www-form-urlencoded", body: "text=a", wantCode: http.StatusUnsupportedMediaType},
		{name: "body without type", target: "/notes/", body: `{"text":"a"}`, wantCode: http.StatusUnsupportedMediaType},
		{name: "malformed type", target: "/notes/", contentType: "application/", body: `{"text":"a"}`, wantCode: http.StatusUnsupportedMediaType},
		{name: "url-encoded form", target: "/notes/tag/", contentType: "application/x-www-form-urlencoded", body: "name=a", wantCode: http.StatusOK},
		{name: "json sent to form execute", target: "/notes/tag/", contentType: "application/json", body: `{"name":"a"}`, wantCode: http.StatusUnsupportedMediaType},
		{name: "empty form post", target: "/notes/tag/", wantCode: http.StatusOK},
		{name: "execute without form", target: "/notes/ping/", contentType: "text/plain", body: "x", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
