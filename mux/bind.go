package mux

import (
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/execarg"
	"github.com/vitalvas/flute/optional"
	"rivaas.dev/binding"
)

// FormTagName is the struct tag naming form fields. Untagged fields use
// their Go field name, matched without regard to case; "-" skips the field.
const FormTagName = binding.TagForm

// maxFormDepth bounds the nesting of form structs.
const maxFormDepth = 8

// maxMultipartMemory bounds the in-memory part of multipart forms.
const maxMultipartMemory = 32 << 20

// executeHandler binds the matched values to an execute handler and calls
// it.
type executeHandler struct {
	router *Router
	ex     *execute
}

func (h *executeHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := newContext(w, req, h.router)
	if err := h.call(c); err != nil {
		h.router.handleError(c, err)
	}
}

func (h *executeHandler) call(c *Context) error {
	box := h.ex.box
	args := make([]reflect.Value, 0, h.ex.fn.Type().NumIn())
	args = append(args, reflect.ValueOf(c))

	var values []string
	var present []bool
	if c.match != nil {
		values, present = c.match.Values, c.match.Present
	}

	for i, t := range box.PathParams {
		name := "arg" + strconv.Itoa(i)
		elem, isOptional := box.Optionals[i]

		if i >= len(values) || !present[i] {
			if !isOptional {
				return &BindError{Source: "path", Name: name, Err: errors.New("value is missing")}
			}
			args = append(args, optional.Absent(t))
			continue
		}

		target := t
		if isOptional {
			target = elem
		}
		v, err := execarg.Convert(target, values[i])
		if err != nil {
			return &BindError{Source: "path", Name: name, Err: err}
		}
		if isOptional {
			v = optional.Wrap(t, v)
		}
		args = append(args, v)
	}

	if box.HasForm() {
		form, err := h.bindForm(c)
		if err != nil {
			return err
		}
		args = append(args, form)
	}

	out := h.ex.fn.Call(args)
	if err, _ := out[0].Interface().(error); err != nil {
		return err
	}
	return nil
}

func (h *executeHandler) bindForm(c *Context) (reflect.Value, error) {
	box := h.ex.box
	t := box.Form

	if box.IsBody() {
		if t.Kind() == reflect.Pointer {
			ptr := reflect.New(t.Elem())
			if err := h.parseBody(c.req, ptr.Interface()); err != nil {
				return reflect.Value{}, err
			}
			return ptr, nil
		}
		ptr := reflect.New(t)
		if err := h.parseBody(c.req, ptr.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	req := c.req
	if ct, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type")); ct == "multipart/form-data" {
		if err := req.ParseMultipartForm(maxMultipartMemory); err != nil {
			return reflect.Value{}, bindFailure("form", err)
		}
	} else if err := req.ParseForm(); err != nil {
		return reflect.Value{}, bindFailure("form", err)
	}

	bean := t
	for bean.Kind() == reflect.Pointer {
		bean = bean.Elem()
	}
	ptr := reflect.New(bean)
	if err := bindFormValues(req.Form, ptr.Interface(), h.router.formOptions); err != nil {
		return reflect.Value{}, err
	}
	if t.Kind() == reflect.Pointer {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

func (h *executeHandler) parseBody(req *http.Request, v any) error {
	var data []byte
	if req.Body != nil {
		var err error
		if data, err = io.ReadAll(req.Body); err != nil {
			return bindFailure("body", err)
		}
	}
	if err := h.router.json.Parse(data, v); err != nil {
		return &BindError{Source: "body", Err: err}
	}
	return nil
}

// bindFailure reports a body cut by http.MaxBytesReader as 413.
func bindFailure(source string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &HTTPError{Code: http.StatusRequestEntityTooLarge, Message: http.StatusText(http.StatusRequestEntityTooLarge), Err: err}
	}
	return &BindError{Source: source, Err: err}
}

func (r *Router) handleError(c *Context, err error) {
	if r.ErrorHandler != nil {
		r.ErrorHandler(c, err)
		return
	}
	DefaultErrorHandler(c, err)
}

// bindFormValues fills the struct pointed to by out from form values.
func bindFormValues(values url.Values, out any, opts []binding.Option) error {
	err := binding.Raw(newFormValues(values), FormTagName, out, opts...)
	if err == nil {
		return nil
	}
	var bindErr *binding.BindError
	if errors.As(err, &bindErr) {
		return &BindError{Source: "form", Name: bindErr.Field, Err: err}
	}
	return &BindError{Source: "form", Err: err}
}

// formValues looks up form keys without regard to case and treats empty
// values as absent. A trailing "[]" on a key is ignored.
type formValues map[string][]string

func newFormValues(values url.Values) formValues {
	fv := make(formValues, len(values))
	for key, vals := range values {
		key = formKey(key)
		for _, v := range vals {
			if v != "" {
				fv[key] = append(fv[key], v)
			}
		}
	}
	return fv
}

func formKey(key string) string {
	return strings.ToLower(strings.TrimSuffix(key, "[]"))
}

func (f formValues) Get(key string) string {
	if vals := f[formKey(key)]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (f formValues) GetAll(key string) []string {
	return f[formKey(key)]
}

func (f formValues) Has(key string) bool {
	return len(f[formKey(key)]) > 0
}

// scalarStructs are struct types bound from a single form value.
var scalarStructs = map[reflect.Type]bool{
	reflect.TypeFor[time.Time]():     true,
	reflect.TypeFor[url.URL]():       true,
	reflect.TypeFor[net.IPNet]():     true,
	reflect.TypeFor[regexp.Regexp](): true,
}

func isNestedStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && !scalarStructs[t]
}

// checkFormFields reports the first field of a form struct that form
// values cannot fill. Nested struct values are walked; their keys read
// "parent.child".
func checkFormFields(subject string, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return walkFormFields(subject, t, "", make(map[reflect.Type]bool))
}

func walkFormFields(subject string, t reflect.Type, path string, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get(FormTagName) == "-" {
			continue
		}
		name := path + f.Name
		ft := f.Type

		var kind string
		switch {
		case optional.IsValueType(ft):
			kind = "an optional value"
		case ft.Kind() == reflect.Pointer && isNestedStruct(ft.Elem()):
			kind = "a pointer to a struct"
		case ft.Kind() == reflect.Slice && isNestedStruct(ft.Elem()),
			ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Pointer && isNestedStruct(ft.Elem().Elem()):
			kind = "a list of structs"
		}
		if kind != "" {
			return deferr.New("mux", subject, "form field %s is %s, which form values cannot fill", name, kind).
				WithAdvice("use a pointer for an optional field and a struct value for grouped fields, or bind lists of structs from a JSON body").
				WithExamples("(x) Nick optional.Value[string]", "(o) Nick *string", "(x) Stage *StageForm", "(o) Stage StageForm")
		}

		if isNestedStruct(ft) {
			if err := walkFormFields(subject, ft, name+".", seen); err != nil {
				return err
			}
		}
	}
	return nil
}
