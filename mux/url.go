package mux

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/vitalvas/flute/execarg"
	"github.com/vitalvas/flute/optional"
	"github.com/vitalvas/flute/restful"
	"github.com/vitalvas/flute/urlpattern"
)

// URL builds the path of an execute from its arguments, the reverse of
// dispatching. method is the execute method name as declared ("get$sea")
// or its mapping name ("sea"). args are the path parameters in declaration
// order; an optional.Value or nil stands for an optional parameter, and a
// trailing url.Values becomes the query.
//
//	r.URL("products", "index", 3)           // "/products/3/"
//	r.URL("products", "index", 3, q)        // "/products/3/?page=2"
//	r.URL("productsPurchases", "index", 1, 2) // "/products/1/purchases/2/" when restful
//
// When several executes carry the name, the ones the arguments fit are
// tried; they must all build the same URL.
func (r *Router) URL(action, method string, args ...any) (string, error) {
	a := r.actions[action]
	if a == nil || a.err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	candidates, err := a.findExecutes(method)
	if err != nil {
		return "", err
	}

	var query url.Values
	if n := len(args); n > 0 {
		if q, ok := args[n-1].(url.Values); ok {
			query = q
			args = args[:n-1]
		}
	}

	var (
		u        string
		builtBy  *execute
		firstErr error
	)
	for _, ex := range candidates {
		built, err := r.buildURL(ex, args)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if builtBy != nil && built != u {
			return "", fmt.Errorf("mux: %q has several executes named %q (%s, %s) building different URLs, name one with its verb",
				a.name, method, builtBy.method.Raw, ex.method.Raw)
		}
		u, builtBy = built, ex
	}
	if builtBy == nil {
		return "", firstErr
	}

	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

func (r *Router) buildURL(ex *execute, args []any) (string, error) {
	a := ex.action
	values, present, err := formatArgs(ex, args)
	if err != nil {
		return "", err
	}

	chain, err := ex.pattern.Chain(values, present)
	if err != nil {
		return "", fmt.Errorf("mux: %s.%s: %w", a.name, ex.method.Raw, err)
	}

	escaped := make([]urlpattern.Segment, len(chain))
	for i, seg := range chain {
		escaped[i] = seg
		if seg.Placeholder {
			escaped[i].Value = url.PathEscape(seg.Value)
		}
	}

	u := a.Path()
	if p := urlpattern.Path(escaped); p != "" {
		u += p + "/"
	}

	if a.restful && r.restful != nil {
		opt, err := r.restful.Reverse(restful.ReverseResource{
			ActionWords: a.words,
			Hyphenate:   a.hyphenate,
			Chain:       escaped,
		})
		if err != nil {
			return "", fmt.Errorf("mux: %s.%s: %w", a.name, ex.method.Raw, err)
		}
		// Keep the natural form only when it resolves back to the execute.
		if opt.Restful {
			natural := opt.URLFilter(u)
			if r.restful.IsRestfulPath(natural) && r.restful.ToMappingPath(natural) == u {
				u = natural
			}
		}
	}
	return u, nil
}

// findExecutes returns the executes declared as method or, when there are
// none, the executes whose mapping name is method.
func (a *Action) findExecutes(method string) ([]*execute, error) {
	var byRaw, byMapping []*execute
	for _, ex := range a.executes {
		switch {
		case ex.method.Raw == method:
			byRaw = append(byRaw, ex)
		case ex.method.Mapping == method:
			byMapping = append(byMapping, ex)
		}
	}

	switch {
	case len(byRaw) > 0:
		return byRaw, nil
	case len(byMapping) > 0:
		return byMapping, nil
	}
	return nil, fmt.Errorf("%w: %q has no execute %q", ErrUnknownAction, a.name, method)
}

func formatArgs(ex *execute, args []any) ([]string, []bool, error) {
	params := ex.box.PathParams
	if len(args) > len(params) {
		return nil, nil, fmt.Errorf("mux: %s.%s takes %d path arguments, got %d",
			ex.action.name, ex.method.Raw, len(params), len(args))
	}

	values := make([]string, len(params))
	present := make([]bool, len(params))
	for i := range params {
		if i >= len(args) || args[i] == nil {
			if _, ok := ex.box.Optionals[i]; !ok {
				return nil, nil, fmt.Errorf("mux: %s.%s: missing path argument %d",
					ex.action.name, ex.method.Raw, i)
			}
			continue
		}

		arg := args[i]
		if optional.IsValueType(reflect.TypeOf(arg)) {
			v, ok := optional.Unwrap(arg)
			if !ok {
				continue
			}
			arg = v
		}

		s, err := execarg.Format(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("mux: %s.%s: path argument %d: %w",
				ex.action.name, ex.method.Raw, i, err)
		}
		values[i] = s
		present[i] = true
	}
	return values, present, nil
}
