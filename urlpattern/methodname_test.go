package urlpattern

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/flute/deferr"
)

func TestParseMethodName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMethod  string
		wantMapping string
		wantErr     string
	}{
		{name: "plain index", input: "index", wantMapping: "index"},
		{name: "plain multi word", input: "seaLand", wantMapping: "seaLand"},
		{name: "get index", input: "get$index", wantMethod: http.MethodGet, wantMapping: "index"},
		{name: "post sea", input: "post$sea", wantMethod: http.MethodPost, wantMapping: "sea"},
		{name: "put", input: "put$index", wantMethod: http.MethodPut, wantMapping: "index"},
		{name: "delete", input: "delete$index", wantMethod: http.MethodDelete, wantMapping: "index"},
		{name: "patch", input: "patch$seaLand", wantMethod: http.MethodPatch, wantMapping: "seaLand"},
		{name: "unknown verb", input: "fetch$index", wantErr: "unknown HTTP verb"},
		{name: "upper verb", input: "GET$index", wantErr: "unknown HTTP verb"},
		{name: "empty mapping", input: "get$", wantErr: "no mapping name"},
		{name: "double delimiter", input: "get$sea$land", wantErr: "more than one"},
		{name: "empty name", input: "", wantErr: "empty execute method name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethodName(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, deferr.ErrDefinition))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.Raw)
			assert.Equal(t, tt.wantMethod, got.HTTPMethod)
			assert.Equal(t, tt.wantMapping, got.Mapping)
		})
	}
}

func TestMethodNameAcceptsMethod(t *testing.T) {
	anyVerb, err := ParseMethodName("index")
	require.NoError(t, err)
	get, err := ParseMethodName("get$index")
	require.NoError(t, err)
	post, err := ParseMethodName("post$index")
	require.NoError(t, err)

	assert.True(t, anyVerb.IsIndex())
	assert.True(t, anyVerb.AcceptsMethod(http.MethodDelete))
	assert.True(t, get.AcceptsMethod(http.MethodGet))
	assert.True(t, get.AcceptsMethod(http.MethodHead))
	assert.False(t, get.AcceptsMethod(http.MethodPost))
	assert.True(t, post.AcceptsMethod(http.MethodPost))
	assert.False(t, post.AcceptsMethod(http.MethodHead))
}
