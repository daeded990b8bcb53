package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/flute/mux"
)

const manifest = `
router:
  restful: numeric
actions:
  - name: root
    executes:
      - method: index
  - name: products
    restful: true
    executes:
      - method: index
        params: [int]
      - method: post$register
  - name: productsPurchases
    restful: true
    executes:
      - method: index
        params: [int, int]
`

func writeManifest(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	path := writeManifest(t, manifest)

	out, err := run(t, "routes", "-c", path)
	require.NoError(t, err)

	assert.Contains(t, out, "*       / root.index\n")
	assert.Contains(t, out, "*       /products/{} products.index restful\n")
	assert.Contains(t, out, "POST    /products/register products.post$register restful\n")
	assert.Contains(t, out, "*       /products/purchases/{}/{} productsPurchases.index restful\n")
	assert.Contains(t, out, "4 executes")
}

func TestRoutesCommandJSON(t *testing.T) {
	path := writeManifest(t, manifest)

	out, err := run(t, "routes", "-c", path, "--json")
	require.NoError(t, err)

	assert.Contains(t, out, `"action": "productsPurchases"`)
	assert.Contains(t, out, `"verb": "POST"`)
}

func TestCheckCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := run(t, "check", "-c", writeManifest(t, manifest))
		require.NoError(t, err)
		assert.Contains(t, out, "3 actions, 4 executes")
	})

	t.Run("definition errors", func(t *testing.T) {
		path := writeManifest(t, `
actions:
  - name: products
    executes:
      - method: index
        urlPattern: "{}/{}"
        params: [int]
  - name: orders
    executes:
      - method: index
`)
		out, err := run(t, "check", "-c", path, "--json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 definition errors")
		assert.Contains(t, out, `"valid": false`)
		assert.Contains(t, out, `"executes": 1`)
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, err := run(t, "check", "-c", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestMatchCommand(t *testing.T) {
	path := writeManifest(t, manifest)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr error
	}{
		{
			name: "restful path",
			args: []string{"/products/3/purchases/7/"},
			want: []string{"GET     /products/3/purchases/7/ -> productsPurchases.index", "mapping path: /products/purchases/3/7/", "arg0:         3", "arg1:         7"},
		},
		{
			name: "plain path",
			args: []string{"/products/purchases/3/7/"},
			want: []string{"-> productsPurchases.index", "arg1:         7"},
		},
		{
			name: "explicit method",
			args: []string{"-X", "post", "/products/register/"},
			want: []string{"POST    /products/register/ -> products.post$register"},
		},
		{
			name:    "method not allowed",
			args:    []string{"/products/register/"},
			want:    []string{"405 Method Not Allowed"},
			wantErr: mux.ErrMethodMismatch,
		},
		{
			name:    "not found",
			args:    []string{"/orders/"},
			want:    []string{"404 Not Found"},
			wantErr: mux.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"match", "-c", path}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "match", "-c", path, "--json", "/products/3/")
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"method": "GET",
			"path": "/products/3/",
			"status": 200,
			"route": {"action": "products", "method": "index", "mapping": "index", "pattern": "{}", "regexp": "^([0-9]+)$", "path": "/products/{}", "restful": true},
			"mappingPath": "/products/3/",
			"vars": {"arg0": "3"}
		}`, out)
	})
}

func TestURLCommand(t *testing.T) {
	path := writeManifest(t, manifest)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "restful", args: []string{"productsPurchases", "index", "3", "7"}, want: "/products/3/purchases/7/\n"},
		{name: "root", args: []string{"root", "index"}, want: "/\n"},
		{name: "query", args: []string{"products", "index", "3", "-q", "page=2"}, want: "/products/3/?page=2\n"},
		{name: "json", args: []string{"products", "register", "--json"}, want: "{\n  \"url\": \"/products/register/\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"url", "-c", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, "url", "-c", path, "orders", "index")
		assert.ErrorIs(t, err, mux.ErrUnknownAction)

		_, err = run(t, "url", "-c", path, "products", "index", "abc")
		assert.Error(t, err)

		_, err = run(t, "url", "-c", path, "products")
		assert.Error(t, err)
	})
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("FLUTE_CONFIG", writeManifest(t, manifest))

	out, err := run(t, "url", "productsPurchases", "index", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "/products/1/purchases/2/\n", out)
}

func TestLogLevel(t *testing.T) {
	_, err := run(t, "routes", "-c", writeManifest(t, manifest), "--log-level", "loud")
	assert.ErrorContains(t, err, "log level")
}
