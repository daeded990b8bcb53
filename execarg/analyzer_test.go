package execarg

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/optional"
)

type testContext struct{}

type SeaForm struct {
	Keyword string
}

type LandBody struct {
	Name string
}

type PiariBean struct {
	Name string
}

type ProductID int

type stdlibForm = time.Time

func fnType(fn any) reflect.Type { return reflect.TypeOf(fn) }

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name          string
		fn            any
		wantPath      []reflect.Type
		wantOptionals map[int]reflect.Type
		wantForm      reflect.Type
		wantFormList  reflect.Type
		wantFormIndex int
		wantBody      bool
	}{
		{
			name:          "no params",
			fn:            func(*testContext) error { return nil },
			wantOptionals: map[int]reflect.Type{},
			wantFormIndex: -1,
		},
		{
			name:          "path params only",
			fn:            func(*testContext, int, string, ProductID) error { return nil },
			wantPath:      []reflect.Type{reflect.TypeOf(0), reflect.TypeOf(""), reflect.TypeOf(ProductID(0))},
			wantOptionals: map[int]reflect.Type{},
			wantFormIndex: -1,
		},
		{
			name:          "form pointer last",
			fn:            func(*testContext, int, *SeaForm) error { return nil },
			wantPath:      []reflect.Type{reflect.TypeOf(0)},
			wantOptionals: map[int]reflect.Type{},
			wantForm:      reflect.TypeOf(&SeaForm{}),
			wantFormIndex: 2,
		},
		{
			name:          "body value",
			fn:            func(*testContext, LandBody) error { return nil },
			wantOptionals: map[int]reflect.Type{},
			wantForm:      reflect.TypeOf(LandBody{}),
			wantFormIndex: 1,
			wantBody:      true,
		},
		{
			name:          "list of body",
			fn:            func(*testContext, []LandBody) error { return nil },
			wantOptionals: map[int]reflect.Type{},
			wantForm:      reflect.TypeOf([]LandBody{}),
			wantFormList:  reflect.TypeOf(LandBody{}),
			wantFormIndex: 1,
			wantBody:      true,
		},
		{
			name: "optional params",
			fn:   func(*testContext, int, optional.Value[string], optional.Value[int64]) error { return nil },
			wantPath: []reflect.Type{
				reflect.TypeOf(0),
				reflect.TypeOf(optional.Value[string]{}),
				reflect.TypeOf(optional.Value[int64]{}),
			},
			wantOptionals: map[int]reflect.Type{1: reflect.TypeOf(""), 2: reflect.TypeOf(int64(0))},
			wantFormIndex: -1,
		},
		{
			name:          "text unmarshalers",
			fn:            func(*testContext, uuid.UUID, netip.Addr) error { return nil },
			wantPath:      []reflect.Type{reflect.TypeOf(uuid.UUID{}), reflect.TypeOf(netip.Addr{})},
			wantOptionals: map[int]reflect.Type{},
			wantFormIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := Analyze("sea.index", fnType(tt.fn), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, box.PathParams)
			assert.Equal(t, tt.wantOptionals, box.Optionals)
			assert.Equal(t, tt.wantForm, box.Form)
			assert.Equal(t, tt.wantFormList, box.FormList)
			assert.Equal(t, tt.wantFormIndex, box.FormIndex)
			assert.Equal(t, tt.wantForm != nil, box.HasForm())
			assert.Equal(t, tt.wantBody, box.IsBody())
			assert.Equal(t, 1, box.Skip)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		wantErr string
	}{
		{name: "not a function", fn: 42, wantErr: "must be a function"},
		{name: "form not last", fn: func(*testContext, *SeaForm, int) error { return nil }, wantErr: "declared after the form"},
		{name: "two forms", fn: func(*testContext, *SeaForm, *SeaForm) error { return nil }, wantErr: "declared after the form"},
		{name: "optional any", fn: func(*testContext, optional.Value[any]) error { return nil }, wantErr: "unconstrained element type"},
		{name: "optional struct", fn: func(*testContext, optional.Value[PiariBean]) error { return nil }, wantErr: "unsupported element type"},
		{name: "required after optional", fn: func(*testContext, optional.Value[int], string) error { return nil }, wantErr: "follows an optional parameter"},
		{name: "plain struct", fn: func(*testContext, PiariBean) error { return nil }, wantErr: "unsupported path type"},
		{name: "slice of scalars", fn: func(*testContext, []int) error { return nil }, wantErr: "unsupported path type"},
		{name: "map", fn: func(*testContext, map[string]string) error { return nil }, wantErr: "unsupported path type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze("sea.index", fnType(tt.fn), 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, deferr.ErrDefinition))
		})
	}
}

func TestIsFormType(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected bool
	}{
		{name: "form struct", typ: reflect.TypeOf(SeaForm{}), expected: true},
		{name: "form pointer", typ: reflect.TypeOf(&SeaForm{}), expected: true},
		{name: "body struct", typ: reflect.TypeOf(LandBody{}), expected: true},
		{name: "body slice", typ: reflect.TypeOf([]LandBody{}), expected: true},
		{name: "body pointer slice", typ: reflect.TypeOf([]*LandBody{}), expected: true},
		{name: "plain bean", typ: reflect.TypeOf(PiariBean{}), expected: false},
		{name: "string", typ: reflect.TypeOf(""), expected: false},
		{name: "stdlib struct", typ: reflect.TypeOf(stdlibForm{}), expected: false},
		{name: "anonymous struct", typ: reflect.TypeOf(struct{ X int }{}), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFormType(tt.typ))
		})
	}
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, IsStdlib("net/http"))
	assert.True(t, IsStdlib("time"))
	assert.False(t, IsStdlib("main"))
	assert.False(t, IsStdlib("github.com/vitalvas/flute/execarg"))
	assert.False(t, IsStdlib("example/app/forms"))
}
