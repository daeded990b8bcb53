package mux

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/execarg"
	"github.com/vitalvas/flute/formcheck"
	"github.com/vitalvas/flute/restful"
	"github.com/vitalvas/flute/urlpattern"
)

// RootAction is the action name mapped to "/".
const RootAction = "root"

var actionNamePattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

var (
	contextType = reflect.TypeOf((*Context)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Execute declares one execute method of an action.
type Execute struct {
	// Method is the execute method name, optionally prefixed by an HTTP
	// verb: "index", "sea", "get$index", "post$sea".
	Method string

	// URLPattern is the optional URL pattern, e.g. "{}/@word/@word".
	URLPattern string

	// Handler is a func(*mux.Context, ...) error. Parameters after the
	// context are path parameters, optional path parameters and a trailing
	// form.
	Handler any
}

// Action is a named group of executes mapped under a common path prefix.
// The camel-case name gives the prefix: productsPurchases serves
// /products/purchases/.
type Action struct {
	router    *Router
	name      string
	words     []string
	hyphenate []string
	restful   bool
	executes  []*execute
	err       error
}

// execute is the compiled form of an Execute. It is read-only after
// registration.
type execute struct {
	action  *Action
	index   int
	method  urlpattern.MethodName
	pattern *urlpattern.Spec
	box     *execarg.Box
	fn      reflect.Value
	info    *RouteInfo
	handler http.Handler
}

// Name returns the action name.
func (a *Action) Name() string {
	return a.name
}

// Words returns the lower-cased words of the action name.
func (a *Action) Words() []string {
	return append([]string(nil), a.words...)
}

// Path returns the path prefix of the action, e.g. "/products/purchases/".
func (a *Action) Path() string {
	if len(a.words) == 0 {
		return "/"
	}
	return "/" + strings.Join(a.words, "/") + "/"
}

// IsRestful reports whether the action accepts restful paths.
func (a *Action) IsRestful() bool {
	return a.restful
}

// Err returns the definition errors of the action, if any. An action with
// errors never matches.
func (a *Action) Err() error {
	return a.err
}

func (a *Action) fail(err error) {
	a.err = errors.Join(a.err, err)
}

// Restful marks the action as a restful resource. hyphenate declares the
// multi-word resource names, in resource order, that appear hyphenated in
// URLs: balletDancersGreatestProducts with "ballet-dancers" and
// "greatest-products" serves /ballet-dancers/1/greatest-products/2/.
func (a *Action) Restful(hyphenate ...string) *Action {
	if err := restful.CheckHyphenate(a.words, hyphenate); err != nil {
		a.fail(err)
		return a
	}
	a.restful = true
	a.hyphenate = append([]string(nil), hyphenate...)
	for _, ex := range a.executes {
		ex.info.Restful = true
	}
	return a
}

func newAction(r *Router, name string) *Action {
	a := &Action{router: r, name: name}
	if name == RootAction {
		return a
	}
	if !actionNamePattern.MatchString(name) {
		a.fail(deferr.New("mux", name, "action name %q is not lower camel-case", name).
			WithExamples("(x) Products", "(x) products-purchases", "(o) productsPurchases"))
		return a
	}
	a.words = urlpattern.SplitWords(name)
	if urlpattern.JoinWords(a.words) != name {
		a.fail(deferr.New("mux", name, "action name %q does not survive word splitting, it reads as %v", name, a.words).
			WithAdvice("write acronyms as ordinary words").
			WithExamples("(x) getHTTPStatus", "(o) getHttpStatus"))
	}
	return a
}

func (a *Action) addExecute(e Execute) {
	subject := a.name + "." + e.Method

	fn := reflect.ValueOf(e.Handler)
	if err := checkHandler(subject, e.Handler); err != nil {
		a.fail(err)
		return
	}

	method, err := urlpattern.ParseMethodName(e.Method)
	if err != nil {
		a.fail(err)
		return
	}

	box, err := execarg.Analyze(subject, fn.Type(), 1)
	if err != nil {
		a.fail(err)
		return
	}

	spec, err := urlpattern.Analyze(urlpattern.Input{
		Subject:   subject,
		Method:    method.Mapping,
		Pattern:   e.URLPattern,
		Params:    box.PathParams,
		Optionals: box.Optionals,
	})
	if err != nil {
		a.fail(err)
		return
	}

	if box.HasForm() {
		if err := formcheck.Check(box.Form); err != nil {
			a.fail(err)
			return
		}
		if !box.IsBody() {
			if err := checkFormFields(subject, box.Form); err != nil {
				a.fail(err)
				return
			}
		}
	}

	// One method name may be declared several times when the parameter
	// types differ: index(int) and index(string) compile to different
	// regexps and are told apart at request time.
	for _, other := range a.executes {
		if other.pattern.Regexp.String() == spec.Regexp.String() && other.method.HTTPMethod == method.HTTPMethod {
			a.fail(deferr.New("mux", subject, "execute %q maps the same URL pattern %q as %q",
				e.Method, spec.Source, other.method.Raw).
				WithAdvice("change the method name, URL pattern or parameter types of one of them"))
			return
		}
	}

	ex := &execute{
		action:  a,
		index:   len(a.executes),
		method:  method,
		pattern: spec,
		box:     box,
		fn:      fn,
	}
	ex.info = &RouteInfo{
		Action:  a.name,
		Method:  method.Raw,
		Verb:    method.HTTPMethod,
		Mapping: method.Mapping,
		Pattern: spec.Source,
		Regexp:  spec.Regexp.String(),
		Path:    a.Path() + spec.Source,
		Restful: a.restful,
	}
	switch {
	case box.IsBody():
		ex.info.Form = FormSourceBody
	case box.HasForm():
		ex.info.Form = FormSourceForm
	}
	ex.handler = &executeHandler{router: a.router, ex: ex}
	a.executes = append(a.executes, ex)
}

func checkHandler(subject string, handler any) error {
	fn := reflect.ValueOf(handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return deferr.New("mux", subject, "execute handler is %T, not a function", handler).
			WithExamples("(o) func(c *mux.Context) error")
	}
	t := fn.Type()
	if t.NumIn() == 0 || t.In(0) != contextType || t.IsVariadic() {
		return deferr.New("mux", subject, "execute handler %v must take *mux.Context first", t).
			WithExamples("(x) func(id int) error", "(o) func(c *mux.Context, id int) error")
	}
	if t.NumOut() != 1 || t.Out(0) != errorType {
		return deferr.New("mux", subject, "execute handler %v must return exactly one error", t).
			WithExamples("(x) func(c *mux.Context) (string, error)", "(o) func(c *mux.Context) error")
	}
	return nil
}

// match selects the execute serving paramPath. Among executes whose pattern
// matches, the one with more literal segments wins, then the one with more
// constrained slots, then an explicit verb over any verb, then the first
// declared. match.MatchErr is set to ErrMethodMismatch when only the verb
// was wrong.
func (a *Action) match(method, paramPath string, m *RouteMatch) bool {
	if a.err != nil {
		return false
	}

	var (
		best     *execute
		values   []string
		present  []bool
		mismatch bool
	)
	for _, ex := range a.executes {
		vals, pres, ok := ex.pattern.Match(paramPath)
		if !ok {
			continue
		}
		if !ex.method.AcceptsMethod(method) {
			mismatch = true
			continue
		}
		if best == nil || ex.moreSpecific(best) {
			best, values, present = ex, vals, pres
		}
	}

	if best == nil {
		if mismatch {
			m.MatchErr = ErrMethodMismatch
		}
		return false
	}

	m.Action = a
	m.Route = best.info
	m.Values = values
	m.Present = present
	m.Handler = best.handler
	m.execute = best
	return true
}

func (ex *execute) moreSpecific(than *execute) bool {
	if l, o := ex.pattern.LiteralCount(), than.pattern.LiteralCount(); l != o {
		return l > o
	}
	if c, o := ex.pattern.ConstrainedCount(), than.pattern.ConstrainedCount(); c != o {
		return c > o
	}
	if v, o := ex.method.HTTPMethod != "", than.method.HTTPMethod != ""; v != o {
		return v
	}
	return false
}

// Form parameter sources reported by RouteInfo.Form.
const (
	FormSourceForm = "form"
	FormSourceBody = "body"
)

// RouteInfo describes one compiled execute.
type RouteInfo struct {
	Action  string `json:"action"`
	Method  string `json:"method"`
	Verb    string `json:"verb,omitempty"` // empty when any verb is accepted
	Mapping string `json:"mapping"`
	Pattern string `json:"pattern"`
	Regexp  string `json:"regexp"`
	Path    string `json:"path"`
	Restful bool   `json:"restful,omitempty"`
	// Form is "form" for a query or post-form bound parameter, "body" for
	// a JSON body parameter and empty without one.
	Form string `json:"form,omitempty"`
}

func (ri RouteInfo) String() string {
	verb := ri.Verb
	if verb == "" {
		verb = "*"
	}
	return fmt.Sprintf("%-7s %s -> %s.%s", verb, ri.Path, ri.Action, ri.Method)
}
