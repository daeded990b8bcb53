package jsonengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seaBody struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCodecParse(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		input    string
		expected seaBody
		wantErr  error
		anyErr   bool
	}{
		{name: "object", input: `{"name":"sea","count":2}`, expected: seaBody{Name: "sea", Count: 2}},
		{name: "surrounding space", input: "  \n{\"name\":\"land\"}\n", expected: seaBody{Name: "land"}},
		{name: "empty rejected", input: "", wantErr: ErrEmptyBody},
		{name: "blank rejected", input: "   ", wantErr: ErrEmptyBody},
		{name: "empty as zero", opts: Options{EmptyBody: PolicyZero}, input: ""},
		{name: "null rejected", input: "null", wantErr: ErrNullBody},
		{name: "null as zero", opts: Options{NullBody: PolicyZero}, input: " null "},
		{name: "unknown field accepted", input: `{"name":"sea","color":"blue"}`, expected: seaBody{Name: "sea"}},
		{name: "unknown field rejected", opts: Options{DisallowUnknownFields: true}, input: `{"name":"sea","color":"blue"}`, anyErr: true},
		{name: "trailing data", input: `{"name":"sea"}{"name":"land"}`, wantErr: ErrTrailingData},
		{name: "trailing brace", input: `{"name":"sea"}}`, wantErr: ErrTrailingData},
		{name: "trailing bracket", input: `{"name":"sea"}]`, wantErr: ErrTrailingData},
		{name: "trailing word", input: `{"name":"sea"} land`, wantErr: ErrTrailingData},
		{name: "syntax error", input: `{"name":`, anyErr: true},
		{name: "type mismatch", input: `{"count":"two"}`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got seaBody
			err := New(tt.opts).Parse([]byte(tt.input), &got)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestCodecDecode(t *testing.T) {
	var got []seaBody
	err := Default.Decode(strings.NewReader(`[{"name":"sea"},{"name":"land"}]`), &got)
	require.NoError(t, err)
	assert.Equal(t, []seaBody{{Name: "sea"}, {Name: "land"}}, got)
}

func TestCodecSerialize(t *testing.T) {
	out, err := Default.Serialize(seaBody{Name: "sea", Count: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"sea","count":1}`, string(out))
	assert.NotContains(t, string(out), "\n")

	out, err = New(Options{Indent: "  "}).Serialize(seaBody{Name: "sea"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"sea\",\n  \"count\": 0\n}", string(out))
}

func TestParseAs(t *testing.T) {
	got, err := ParseAs[seaBody](Default, []byte(`{"name":"piari"}`))
	require.NoError(t, err)
	assert.Equal(t, "piari", got.Name)

	_, err = ParseAs[seaBody](Default, nil)
	assert.ErrorIs(t, err, ErrEmptyBody)
}
