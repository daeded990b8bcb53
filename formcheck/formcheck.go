// Package formcheck finds validate tags that go-playground/validator can
// never honor on the field they are declared on.
//
// Two passes run over a form and every struct reachable from it:
//
//   - mismatched: a tag that cannot apply to the field type, such as email
//     on an int, or dive on a field that is not a collection.
//   - lonely: a collection of structs that carry constraints, declared
//     without dive, so its elements are silently never validated.
//
// Each struct type is inspected once. A type that refers to itself is only
// checked at its first occurrence.
package formcheck

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/execarg"
)

// TagName is the struct tag read by the validator.
const TagName = "validate"

// Kind classifies a violation.
type Kind int

const (
	Mismatched Kind = iota + 1
	Lonely
)

func (k Kind) String() string {
	switch k {
	case Mismatched:
		return "mismatched"
	case Lonely:
		return "lonely"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Violation is one offending field.
type Violation struct {
	Kind Kind

	// Path locates the field from the root form, e.g. "SeaForm.Items[].Name".
	Path string

	// Tag is the offending tag name, empty for lonely violations.
	Tag string

	// Type is the type the tag was applied to.
	Type reflect.Type
}

func (v Violation) String() string {
	if v.Kind == Lonely {
		return fmt.Sprintf("%s: elements of %v carry constraints but the field has no dive", v.Path, v.Type)
	}
	return fmt.Sprintf("%s: %q cannot apply to %v", v.Path, v.Tag, v.Type)
}

// Tags that only operate on string values.
var stringOnly = map[string]struct{}{
	"email": {}, "url": {}, "uri": {}, "uuid": {}, "uuid4": {}, "alpha": {}, "alphanum": {},
	"hexadecimal": {}, "contains": {}, "containsany": {}, "excludes": {}, "startswith": {},
	"endswith": {}, "lowercase": {}, "uppercase": {}, "ascii": {}, "ip": {}, "ipv4": {},
	"ipv6": {}, "hostname": {}, "base64": {}, "e164": {},
}

// Tags measuring length or magnitude; undefined for bools and for structs
// other than time.Time.
var sized = map[string]struct{}{"len": {}, "min": {}, "max": {}}

var timeType = reflect.TypeOf(time.Time{})

// Inspect returns every violation reachable from t. t may be a struct, a
// pointer to one, or a slice of either.
func Inspect(t reflect.Type) []Violation {
	root := indirect(t)
	for isCollection(root) {
		root = indirect(root.Elem())
	}

	w := &walker{visited: make(map[reflect.Type]bool)}
	w.walk(root, root.Name())
	return w.violations
}

// Check returns a definition error listing the violations of t, or nil.
func Check(t reflect.Type) error {
	var errs []error
	for _, v := range Inspect(t) {
		errs = append(errs, definitionError(t, v))
	}
	return errors.Join(errs...)
}

func definitionError(form reflect.Type, v Violation) error {
	e := deferr.New("formcheck", form.String(), "%s", v.String())
	if v.Kind == Lonely {
		return e.WithAdvice("add dive so the validator descends into the elements").
			WithExamples("(x) Items []ItemBean `validate:\"required\"`",
				"(o) Items []ItemBean `validate:\"required,dive\"`")
	}
	return e.WithAdvice("remove the tag or change the field type").
		WithExamples("(x) Age int `validate:\"email\"`", "(o) Mail string `validate:\"email\"`")
}

type walker struct {
	visited    map[reflect.Type]bool
	violations []Violation
}

func (w *walker) report(kind Kind, path, tag string, t reflect.Type) {
	w.violations = append(w.violations, Violation{Kind: kind, Path: path, Tag: tag, Type: t})
}

func (w *walker) walk(t reflect.Type, path string) {
	t = indirect(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		w.walk(t.Elem(), path+"[]")
	case reflect.Struct:
		w.walkStruct(t, path)
	}
}

func (w *walker) walkStruct(t reflect.Type, path string) {
	if w.visited[t] || execarg.IsStdlib(t.PkgPath()) {
		return
	}
	w.visited[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		fieldPath := path + "." + f.Name
		tokens := splitTag(tag)
		w.checkMismatched(fieldPath, f.Type, tokens)
		w.checkLonely(fieldPath, f.Type, tokens)
		w.walk(f.Type, fieldPath)
	}
}

// checkMismatched follows dive and keys/endkeys so each tag is checked
// against the type it is applied to.
func (w *walker) checkMismatched(path string, t reflect.Type, tokens []string) {
	cur := t
	var container reflect.Type
	for _, tok := range tokens {
		switch tok {
		case "dive":
			c := indirect(cur)
			if !isCollection(c) {
				w.report(Mismatched, path, tok, cur)
				return
			}
			container, cur = c, c.Elem()
		case "keys":
			if container == nil || container.Kind() != reflect.Map {
				w.report(Mismatched, path, tok, cur)
				return
			}
			cur = container.Key()
		case "endkeys":
			if container != nil && container.Kind() == reflect.Map {
				cur = container.Elem()
			}
		default:
			for _, alt := range strings.Split(tok, "|") {
				name, _, _ := strings.Cut(alt, "=")
				if !applies(name, cur) {
					w.report(Mismatched, path, name, cur)
				}
			}
		}
	}
}

func (w *walker) checkLonely(path string, t reflect.Type, tokens []string) {
	c := indirect(t)
	if !isCollection(c) {
		return
	}
	for _, tok := range tokens {
		if tok == "dive" {
			return
		}
	}

	elem := indirect(c.Elem())
	for isCollection(elem) {
		elem = indirect(elem.Elem())
	}
	if elem.Kind() == reflect.Struct && hasConstraints(elem, make(map[reflect.Type]bool)) {
		w.report(Lonely, path, "", c)
	}
}

func applies(name string, t reflect.Type) bool {
	k := indirect(t).Kind()
	if _, ok := stringOnly[name]; ok {
		return k == reflect.String
	}
	if _, ok := sized[name]; ok {
		return k != reflect.Bool && (k != reflect.Struct || indirect(t) == timeType)
	}
	if name == "unique" {
		return k == reflect.Slice || k == reflect.Array || k == reflect.Map
	}
	return true
}

// hasConstraints reports whether t, or a struct it embeds or holds by
// value, carries a validate tag. The validator descends into such fields on
// its own.
func hasConstraints(t reflect.Type, visited map[reflect.Type]bool) bool {
	t = indirect(t)
	if t.Kind() != reflect.Struct || visited[t] {
		return false
	}
	visited[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		if tag != "" {
			return true
		}
		if hasConstraints(f.Type, visited) {
			return true
		}
	}
	return false
}

func splitTag(tag string) []string {
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "omitempty" {
			out = append(out, p)
		}
	}
	return out
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
