package mux

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

var ctxKey = routeContextKey{}

// RouteMatch stores information about a matched execute.
type RouteMatch struct {
	// Action is the matched action, if any.
	Action *Action

	// Route describes the matched execute.
	Route *RouteInfo

	// Values are the captured path parameter strings in declaration order.
	// Present tells, for each, whether it was captured; only optional
	// parameters can be absent.
	Values  []string
	Present []bool

	// Handler is the handler to use for the matched execute, wrapped with
	// the router middleware.
	Handler http.Handler

	// MatchErr is set to ErrMethodMismatch when the request method does not
	// match but the path does, and to ErrNotFound when nothing matches.
	MatchErr error

	// MappingPath is the path the execute was resolved from. It differs
	// from the request path when a restful path was converted.
	MappingPath string

	execute *execute
}

// setRouteContext stores the match in the request context.
func setRouteContext(r *http.Request, m *RouteMatch) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey, m))
}

func routeMatch(r *http.Request) *RouteMatch {
	m, _ := r.Context().Value(ctxKey).(*RouteMatch)
	return m
}

// CurrentAction returns the matched action for the current request, if any.
func CurrentAction(r *http.Request) *Action {
	if m := routeMatch(r); m != nil {
		return m.Action
	}
	return nil
}

// CurrentRoute returns the matched execute for the current request, if any.
func CurrentRoute(r *http.Request) *RouteInfo {
	if m := routeMatch(r); m != nil {
		return m.Route
	}
	return nil
}

// Vars returns the captured path parameters of the current request, named
// arg0, arg1, ... in declaration order. Absent optional parameters are left
// out.
func Vars(r *http.Request) map[string]string {
	m := routeMatch(r)
	if m == nil {
		return nil
	}
	vars := make(map[string]string, len(m.Values))
	for i, v := range m.Values {
		if m.Present[i] {
			vars["arg"+strconv.Itoa(i)] = v
		}
	}
	return vars
}

// Context carries one request through an execute handler.
type Context struct {
	w      *statusWriter
	req    *http.Request
	router *Router
	match  *RouteMatch

	locale    language.Tag
	hasLocale bool
}

func newContext(w http.ResponseWriter, req *http.Request, router *Router) *Context {
	sw, ok := w.(*statusWriter)
	if !ok {
		sw = &statusWriter{ResponseWriter: w}
	}
	return &Context{w: sw, req: req, router: router, match: routeMatch(req)}
}

// Request returns the HTTP request.
func (c *Context) Request() *http.Request {
	return c.req
}

// Writer returns the response writer.
func (c *Context) Writer() http.ResponseWriter {
	return c.w
}

// Action returns the matched action.
func (c *Context) Action() *Action {
	if c.match == nil {
		return nil
	}
	return c.match.Action
}

// Route returns the matched execute.
func (c *Context) Route() *RouteInfo {
	if c.match == nil {
		return nil
	}
	return c.match.Route
}

// Logger returns the router logger with the action and method attached.
func (c *Context) Logger() *log.Logger {
	l := c.router.logger
	if ri := c.Route(); ri != nil {
		l = l.With("action", ri.Action, "method", ri.Method)
	}
	return l
}

// Locale returns the locale negotiated from the Accept-Language header.
// Without a message bundle it is language.Und.
func (c *Context) Locale() language.Tag {
	if !c.hasLocale {
		if c.router.messages != nil {
			c.locale = c.router.messages.Negotiate(c.req.Header.Get("Accept-Language"))
		}
		c.hasLocale = true
	}
	return c.locale
}

// Message returns the localized message for key, or key itself when no
// bundle is configured or the key is unknown.
func (c *Context) Message(key string, vars map[string]string) string {
	if c.router.messages == nil {
		return key
	}
	return c.router.messages.Render(c.Locale(), key, vars)
}

// JSON serializes v with the router JSON engine and writes it with the
// given status code.
func (c *Context) JSON(code int, v any) error {
	return writeJSON(c.w, c.router.json, code, v)
}

// Text writes a plain text response.
func (c *Context) Text(code int, s string) error {
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(code)
	_, err := c.w.Write([]byte(s))
	return err
}

// NoContent writes a status code without a body.
func (c *Context) NoContent(code int) error {
	c.w.WriteHeader(code)
	return nil
}

// Redirect replies with a redirect to url.
func (c *Context) Redirect(code int, url string) error {
	http.Redirect(c.w, c.req, url, code)
	return nil
}

// URL builds the URL of an execute through the router, see Router.URL.
func (c *Context) URL(action, method string, args ...any) (string, error) {
	return c.router.URL(action, method, args...)
}

// Written reports whether a status code has been written.
func (c *Context) Written() bool {
	return c.w.status != 0
}

// Status returns the written status code, 0 when nothing was written.
func (c *Context) Status() int {
	return c.w.status
}

// FieldError is one failed constraint of a validated value.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports the failed constraints of Context.Validate.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "mux: validation failed"
	}
	f := e.Fields[0]
	msg := "mux: validation failed: " + f.Field + ": " + f.Message
	if len(e.Fields) > 1 {
		msg += " (and " + strconv.Itoa(len(e.Fields)-1) + " more)"
	}
	return msg
}

// Validate checks v against its validate tags. A slice or array is
// validated element by element, with the index prefixed to field names.
// Failures are returned as *ValidationError, with messages looked up as
// "constraints.<tag>.message" in the router bundle.
func (c *Context) Validate(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() != reflect.Struct {
		rv = rv.Elem()
	}

	verr := &ValidationError{}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if err := c.validateOne(rv.Index(i).Interface(), "["+strconv.Itoa(i)+"].", verr); err != nil {
				return err
			}
		}
	} else if err := c.validateOne(v, "", verr); err != nil {
		return err
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func (c *Context) validateOne(v any, prefix string, verr *ValidationError) error {
	err := c.router.validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, c.fieldError(prefix, fe))
	}
	return nil
}

func (c *Context) fieldError(prefix string, fe validator.FieldError) FieldError {
	f := FieldError{
		Field: prefix + fe.Field(),
		Tag:   fe.Tag(),
		Param: fe.Param(),
	}

	key := "constraints." + fe.Tag() + ".message"
	if c.router.messages != nil {
		if _, ok := c.router.messages.Lookup(c.Locale(), key); ok {
			f.Message = c.router.messages.Render(c.Locale(), key, map[string]string{
				"field": fe.Field(),
				"param": fe.Param(),
				"value": formatValue(fe.Value()),
			})
			return f
		}
	}
	f.Message = fe.Error()
	return f
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// statusWriter records the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Unwrap returns the underlying writer for http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
