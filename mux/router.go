package mux

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/vitalvas/flute/deferr"
	"github.com/vitalvas/flute/jsonengine"
	"github.com/vitalvas/flute/message"
	"github.com/vitalvas/flute/restful"
	"rivaas.dev/binding"
)

// Router maps request paths to action executes and dispatches them.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := mux.NewRouter()
//	r.Action("products", mux.Execute{Method: "index", Handler: index})
//	r.MustBoot()
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no execute matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when an execute matches the path
	// but not the method. The Allow header is set before it is invoked.
	MethodNotAllowedHandler http.Handler

	// ErrorHandler writes the response for an error returned by an
	// execute or raised while binding its arguments. If nil,
	// DefaultErrorHandler is used.
	ErrorHandler func(c *Context, err error)

	actions  map[string]*Action // by name
	byPath   map[string]*Action // by words joined with "/"
	order    []*Action
	maxWords int

	restful  restful.Router
	logger   *log.Logger
	json     jsonengine.Engine
	messages *message.Bundle

	formOptions []binding.Option

	validateOnce sync.Once
	validate     *validator.Validate

	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped handler per execute
	// to avoid re-wrapping on every request.
	handlerCache sync.Map // map[*execute]http.Handler

	skipClean bool
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{
		actions:     make(map[string]*Action),
		byPath:      make(map[string]*Action),
		logger:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "flute"}),
		json:        jsonengine.Default,
		formOptions: []binding.Option{binding.WithMaxDepth(maxFormDepth)},
	}
}

// Restful sets the router converting natural resource paths. Without one,
// actions marked restful are only reachable by their mapping paths.
func (r *Router) Restful(rr restful.Router) *Router {
	r.restful = rr
	return r
}

// FormOptions adds options for binding form values, for example
// binding.WithTimeLayouts("2006-01-02").
func (r *Router) FormOptions(opts ...binding.Option) *Router {
	r.formOptions = append(r.formOptions, opts...)
	return r
}

// Logger sets the logger for registration and execute failures.
func (r *Router) Logger(l *log.Logger) *Router {
	r.logger = l
	return r
}

// JSONEngine sets the codec for JSON bodies and responses.
func (r *Router) JSONEngine(e jsonengine.Engine) *Router {
	r.json = e
	return r
}

// Messages sets the bundle for localized messages.
func (r *Router) Messages(b *message.Bundle) *Router {
	r.messages = b
	return r
}

// Validator sets the validator used by Context.Validate.
func (r *Router) Validator(v *validator.Validate) *Router {
	r.validateOnce.Do(func() {})
	r.validate = v
	return r
}

// SkipClean disables path cleaning before matching.
func (r *Router) SkipClean(value bool) *Router {
	r.skipClean = value
	return r
}

func (r *Router) validatorInstance() *validator.Validate {
	r.validateOnce.Do(func() {
		r.validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return r.validate
}

// Action registers an action with its executes. Definition errors are kept
// on the returned action and reported by Err and MustBoot.
func (r *Router) Action(name string, executes ...Execute) *Action {
	a := newAction(r, name)
	if _, ok := r.actions[name]; ok {
		a.fail(deferr.New("mux", name, "action %q is registered twice", name))
	} else if a.err == nil {
		// Names are validated to round-trip through word splitting, so
		// distinct names never share a path.
		r.actions[name] = a
		r.byPath[strings.Join(a.words, "/")] = a
		r.maxWords = max(r.maxWords, len(a.words))
	}
	r.order = append(r.order, a)

	if len(executes) == 0 {
		a.fail(deferr.New("mux", name, "action %q has no execute", name).
			WithExamples(`(o) r.Action("products", mux.Execute{Method: "index", Handler: index})`))
	}
	for _, e := range executes {
		a.addExecute(e)
	}

	for _, ex := range a.executes {
		r.logger.Debug("execute registered", "action", name, "method", ex.method.Raw, "path", ex.info.Path)
	}
	if a.err != nil {
		r.logger.Warn("action rejected", "action", name, "err", a.err)
	}
	return a
}

// GetAction returns a registered action by name.
func (r *Router) GetAction(name string) *Action {
	return r.actions[name]
}

// Err joins the definition errors of every action.
func (r *Router) Err() error {
	var errs []error
	for _, a := range r.order {
		if a.err != nil {
			errs = append(errs, a.err)
		}
	}
	return errors.Join(errs...)
}

// MustBoot panics when any action has definition errors.
func (r *Router) MustBoot() *Router {
	if err := r.Err(); err != nil {
		panic(err)
	}
	return r
}

// Routes lists the compiled executes in registration order.
func (r *Router) Routes() []RouteInfo {
	var routes []RouteInfo
	for _, a := range r.order {
		if a.err != nil {
			continue
		}
		for _, ex := range a.executes {
			routes = append(routes, *ex.info)
		}
	}
	return routes
}

// ServeHTTP dispatches the execute matching the request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !r.skipClean {
		path := req.URL.Path
		if cleaned := cleanPath(path); cleaned != path {
			u := *req.URL
			u.Path = cleaned
			u.RawPath = ""
			req = req.Clone(req.Context())
			req.URL = &u
		}
	}

	var match RouteMatch
	var handler http.Handler

	if r.Match(req, &match) {
		handler = match.Handler
		req = setRouteContext(req, &match)
	} else if match.MatchErr == ErrMethodMismatch {
		// RFC 9110 Section 15.5.6: a 405 response carries an Allow header.
		w.Header().Set("Allow", strings.Join(allowedMethods(r, req), ", "))
		handler = r.MethodNotAllowedHandler
		if handler == nil {
			handler = methodNotAllowedHandler()
		}
	} else {
		handler = r.NotFoundHandler
		if handler == nil {
			handler = http.NotFoundHandler()
		}
	}

	handler.ServeHTTP(w, req)
}

// Match resolves the request path to an execute.
//
// A restful path is first converted and resolved against restful actions
// only. When that fails, or the path is not restful, the path is resolved as
// is: the longest run of leading segments naming an action is tried first,
// then shorter ones, then the root action.
func (r *Router) Match(req *http.Request, match *RouteMatch) bool {
	path := req.URL.Path
	var mismatch bool

	if r.restful != nil {
		opt := r.restful.Mapping(restful.MappingResource{RequestPath: req.RequestURI, MappingPath: path})
		if opt.Restful {
			mapped := opt.PathFilter(path)
			if r.matchPath(req.Method, mapped, true, match) {
				match.MappingPath = mapped
				return r.wrap(match)
			}
			mismatch = match.MatchErr == ErrMethodMismatch
		}
	}

	if r.matchPath(req.Method, path, false, match) {
		match.MappingPath = path
		return r.wrap(match)
	}

	if mismatch || match.MatchErr == ErrMethodMismatch {
		match.MatchErr = ErrMethodMismatch
		return false
	}
	match.MatchErr = ErrNotFound
	return false
}

func (r *Router) matchPath(method, path string, restfulOnly bool, match *RouteMatch) bool {
	segments := splitSegments(path)
	var mismatch bool

	try := func(a *Action, rest []string) bool {
		if a == nil || (restfulOnly && !a.restful) {
			return false
		}
		m := RouteMatch{}
		if a.match(method, strings.Join(rest, "/"), &m) {
			*match = m
			return true
		}
		if m.MatchErr == ErrMethodMismatch {
			mismatch = true
		}
		return false
	}

	for n := min(len(segments), r.maxWords); n > 0; n-- {
		if try(r.byPath[strings.Join(segments[:n], "/")], segments[n:]) {
			return true
		}
	}
	if try(r.byPath[""], segments) {
		return true
	}

	if mismatch {
		match.MatchErr = ErrMethodMismatch
	}
	return false
}

// wrap applies the middleware chain to the matched handler, once per
// execute.
func (r *Router) wrap(match *RouteMatch) bool {
	if len(r.middlewares) == 0 {
		return true
	}
	if cached, ok := r.handlerCache.Load(match.execute); ok {
		match.Handler = cached.(http.Handler)
		return true
	}
	wrapped := r.applyMiddleware(match.Handler)
	r.handlerCache.Store(match.execute, wrapped)
	match.Handler = wrapped
	return true
}

// applyMiddleware wraps the handler with all registered middleware.
func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i].Middleware(handler)
	}
	return handler
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
}

func splitSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
