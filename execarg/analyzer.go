// Package execarg classifies the formal parameters of execute handlers into
// path parameters, optional path parameters and an action form.
package execarg

import (
	"reflect"
	"strings"

	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/optional"
)

// Form type name suffixes. A "Form" is bound from query and post-form
// values, a "Body" from the JSON request body.
const (
	FormSuffix = "Form"
	BodySuffix = "Body"
)

// Box is the parameter classification of one execute handler.
type Box struct {
	// PathParams are the raw path parameter types in declaration order,
	// optional wrappers included.
	PathParams []reflect.Type

	// Optionals maps a path parameter index to its unwrapped element type.
	Optionals map[int]reflect.Type

	// Form is the declared form parameter type, nil when absent.
	Form reflect.Type

	// FormList is the element type when the form is a slice, e.g. the
	// SeaBody of []SeaBody.
	FormList reflect.Type

	// FormIndex is the index of the form among all handler parameters,
	// -1 when absent.
	FormIndex int

	// Skip is the number of leading parameters that are not analyzed.
	Skip int
}

// HasForm reports whether the handler declares a form parameter.
func (b *Box) HasForm() bool {
	return b.Form != nil
}

// IsBody reports whether the form is bound from the JSON body.
func (b *Box) IsBody() bool {
	if b.Form == nil {
		return false
	}
	if b.FormList != nil {
		return true
	}
	return strings.HasSuffix(indirect(b.Form).Name(), BodySuffix)
}

// Analyze classifies the parameters of fn after the first skip parameters.
// subject names the execute in error messages.
func Analyze(subject string, fn reflect.Type, skip int) (*Box, error) {
	if fn == nil || fn.Kind() != reflect.Func {
		return nil, deferr.New("execarg", subject, "execute handler must be a function, got %v", fn)
	}

	box := &Box{
		Optionals: make(map[int]reflect.Type),
		FormIndex: -1,
		Skip:      skip,
	}

	for i := skip; i < fn.NumIn(); i++ {
		t := fn.In(i)

		if box.Form != nil {
			return nil, deferr.New("execarg", subject,
				"parameter %d (%v) is declared after the form %v", i, t, box.Form).
				WithAdvice("the action form must be the last parameter").
				WithExamples("(x) func(c *mux.Context, form *SeaForm, id int) error",
					"(o) func(c *mux.Context, id int, form *SeaForm) error")
		}

		if IsFormType(t) {
			box.Form = t
			box.FormIndex = i
			if t.Kind() == reflect.Slice {
				box.FormList = t.Elem()
			}
			continue
		}

		if optional.IsValueType(t) {
			elem := optional.Elem(t)
			if elem.Kind() == reflect.Interface {
				return nil, deferr.New("execarg", subject,
					"optional parameter %d has the unconstrained element type %v", i, elem).
					WithAdvice("optional path parameters need a concrete scalar type").
					WithExamples("(x) optional.Value[any]", "(o) optional.Value[int]", "(o) optional.Value[string]")
			}
			if !IsScalar(elem) {
				return nil, deferr.New("execarg", subject,
					"optional parameter %d has the unsupported element type %v", i, elem).
					WithAdvice("use string, bool, a numeric type, uuid.UUID or an encoding.TextUnmarshaler")
			}
			box.Optionals[len(box.PathParams)] = elem
			box.PathParams = append(box.PathParams, t)
			continue
		}

		if !IsScalar(t) {
			return nil, deferr.New("execarg", subject, "parameter %d has the unsupported path type %v", i, t).
				WithAdvice("path parameters are strings, bools, numbers, uuid.UUID or encoding.TextUnmarshaler; "+
					"forms are structs named *"+FormSuffix+" or *"+BodySuffix).
				WithExamples("(x) func(c *mux.Context, p Product) error", "(o) func(c *mux.Context, form *ProductForm) error")
		}
		if len(box.Optionals) > 0 {
			return nil, deferr.New("execarg", subject,
				"required parameter %d (%v) follows an optional parameter", i, t).
				WithAdvice("optional path parameters must be trailing").
				WithExamples("(x) func(c *mux.Context, tab optional.Value[string], id int) error",
					"(o) func(c *mux.Context, id int, tab optional.Value[string]) error")
		}
		box.PathParams = append(box.PathParams, t)
	}

	return box, nil
}

// IsFormType reports whether t is an action form: a struct, or pointer to
// struct, whose name ends with Form or Body and which is not declared in the
// standard library; or a slice of such.
func IsFormType(t reflect.Type) bool {
	if t.Kind() == reflect.Slice {
		return isFormBean(t.Elem())
	}
	return isFormBean(t)
}

func isFormBean(t reflect.Type) bool {
	t = indirect(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	name := t.Name()
	if !strings.HasSuffix(name, FormSuffix) && !strings.HasSuffix(name, BodySuffix) {
		return false
	}
	return !IsStdlib(t.PkgPath())
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// stdlibRoots are the top-level import path elements of the standard library.
var stdlibRoots = map[string]struct{}{
	"archive": {}, "bufio": {}, "bytes": {}, "cmp": {}, "compress": {}, "container": {},
	"context": {}, "crypto": {}, "database": {}, "debug": {}, "embed": {}, "encoding": {},
	"errors": {}, "expvar": {}, "flag": {}, "fmt": {}, "go": {}, "hash": {}, "html": {},
	"image": {}, "index": {}, "io": {}, "iter": {}, "log": {}, "maps": {}, "math": {},
	"mime": {}, "net": {}, "os": {}, "path": {}, "plugin": {}, "reflect": {}, "regexp": {},
	"runtime": {}, "slices": {}, "sort": {}, "strconv": {}, "strings": {}, "sync": {},
	"syscall": {}, "testing": {}, "text": {}, "time": {}, "unicode": {}, "unique": {},
	"unsafe": {}, "weak": {},
}

// IsStdlib reports whether pkgPath belongs to the standard library.
func IsStdlib(pkgPath string) bool {
	root, _, _ := strings.Cut(pkgPath, "/")
	_, ok := stdlibRoots[root]
	return ok
}
