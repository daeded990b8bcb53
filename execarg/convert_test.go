package execarg

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Color string

func TestConvert(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name     string
		typ      reflect.Type
		raw      string
		expected any
		wantErr  bool
	}{
		{name: "string", typ: reflect.TypeOf(""), raw: "sea", expected: "sea"},
		{name: "named string", typ: reflect.TypeOf(Color("")), raw: "blue", expected: Color("blue")},
		{name: "int", typ: reflect.TypeOf(0), raw: "42", expected: 42},
		{name: "named int", typ: reflect.TypeOf(ProductID(0)), raw: "7", expected: ProductID(7)},
		{name: "int8 overflow", typ: reflect.TypeOf(int8(0)), raw: "300", wantErr: true},
		{name: "int invalid", typ: reflect.TypeOf(0), raw: "abc", wantErr: true},
		{name: "uint", typ: reflect.TypeOf(uint32(0)), raw: "9", expected: uint32(9)},
		{name: "uint negative", typ: reflect.TypeOf(uint(0)), raw: "-1", wantErr: true},
		{name: "float", typ: reflect.TypeOf(0.0), raw: "1.5", expected: 1.5},
		{name: "bool", typ: reflect.TypeOf(false), raw: "true", expected: true},
		{name: "bool invalid", typ: reflect.TypeOf(false), raw: "yes", wantErr: true},
		{name: "uuid", typ: reflect.TypeOf(uuid.UUID{}), raw: id.String(), expected: id},
		{name: "uuid invalid", typ: reflect.TypeOf(uuid.UUID{}), raw: "nope", wantErr: true},
		{name: "unsupported", typ: reflect.TypeOf([]int{}), raw: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Convert(tt.typ, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.Interface())
		})
	}
}

func TestFormat(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name     string
		input    any
		expected string
		wantErr  bool
	}{
		{name: "string", input: "sea", expected: "sea"},
		{name: "int", input: 42, expected: "42"},
		{name: "named int", input: ProductID(3), expected: "3"},
		{name: "uint", input: uint8(5), expected: "5"},
		{name: "float", input: 1.25, expected: "1.25"},
		{name: "bool", input: false, expected: "false"},
		{name: "uuid", input: id, expected: id.String()},
		{name: "struct", input: PiariBean{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvertFormatRoundTrip(t *testing.T) {
	for _, v := range []any{"land", 12, int64(-3), uint16(8), 2.5, true, ProductID(99)} {
		s, err := Format(v)
		require.NoError(t, err)
		back, err := Convert(reflect.TypeOf(v), s)
		require.NoError(t, err)
		assert.Equal(t, v, back.Interface())
	}
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(reflect.TypeOf("")))
	assert.True(t, IsScalar(reflect.TypeOf(uint64(0))))
	assert.True(t, IsScalar(reflect.TypeOf(uuid.UUID{})))
	assert.False(t, IsScalar(reflect.TypeOf(PiariBean{})))
	assert.False(t, IsScalar(reflect.TypeOf([]string{})))
}
