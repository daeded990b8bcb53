package config

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vitalvas/flute/jsonengine"
	"github.com/vitalvas/flute/message"
	"github.com/vitalvas/flute/mux"
	"github.com/vitalvas/flute/optional"
	"github.com/vitalvas/flute/restful"
	"golang.org/x/text/language"
)

// BuildOptions configures Manifest.Build.
type BuildOptions struct {
	Logger *log.Logger

	// FS resolves the messages directory. Defaults to the manifest
	// directory.
	FS fs.FS

	// Middleware is applied to every execute.
	Middleware []mux.MiddlewareFunc
}

// Echo is the response of a playground execute.
type Echo struct {
	Action  string `json:"action"`
	Execute string `json:"execute"`
	Path    string `json:"path"`
	Args    []any  `json:"args"`
	Locale  string `json:"locale,omitempty"`
}

// RestfulRouter returns the configured restful router, nil when none is
// configured.
func (m *Manifest) RestfulRouter() restful.Router {
	switch m.Router.Restful {
	case RouterNumeric:
		var opts []restful.NumericOption
		if m.Router.UUIDIDs {
			opts = append(opts, restful.WithIDMatcher(func(segment string) bool {
				return uuid.Validate(segment) == nil
			}))
		}
		return restful.NewNumericRouter(opts...)
	case RouterPair:
		return restful.NewPairRouter()
	}
	return nil
}

// JSONEngine returns the configured JSON engine.
func (m *Manifest) JSONEngine() *jsonengine.Codec {
	return jsonengine.New(jsonengine.Options{
		DisallowUnknownFields: m.JSON.DisallowUnknownFields,
		EmptyBody:             policy(m.JSON.EmptyBody),
		NullBody:              policy(m.JSON.NullBody),
		Indent:                m.JSON.Indent,
	})
}

func policy(name string) jsonengine.Policy {
	if name == PolicyZero {
		return jsonengine.PolicyZero
	}
	return jsonengine.PolicyReject
}

// LoadMessages loads the message bundle from fsys, nil when no messages
// directory is configured.
func (m *Manifest) LoadMessages(fsys fs.FS) (*message.Bundle, error) {
	if m.Messages.Dir == "" {
		return nil, nil
	}

	def, err := language.Parse(m.Messages.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("config: default locale: %w", err)
	}

	if fsys == nil {
		fsys = os.DirFS(m.Dir())
	}

	b, err := message.Load(fsys, m.Messages.Dir, def)
	if err != nil {
		return nil, fmt.Errorf("config: load messages: %w", err)
	}
	return b, nil
}

// Build compiles the declared actions into a router whose executes reply
// with an Echo of their converted path arguments. Definition errors of the
// actions are returned joined, together with the router.
func (m *Manifest) Build(opts BuildOptions) (*mux.Router, error) {
	r := mux.NewRouter().
		JSONEngine(m.JSONEngine()).
		SkipClean(m.Router.SkipClean)

	if opts.Logger != nil {
		r.Logger(opts.Logger)
	}

	if rr := m.RestfulRouter(); rr != nil {
		r.Restful(rr)
	}

	bundle, err := m.LoadMessages(opts.FS)
	if err != nil {
		return nil, err
	}
	if bundle != nil {
		r.Messages(bundle)
	}

	for _, ac := range m.Actions {
		executes := make([]mux.Execute, 0, len(ac.Executes))
		for _, ec := range ac.Executes {
			params := make([]reflect.Type, 0, len(ec.Params))
			for _, name := range ec.Params {
				t, err := ParamType(name)
				if err != nil {
					return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidManifest, ac.Name, ec.Method, err)
				}
				params = append(params, t)
			}

			executes = append(executes, mux.Execute{
				Method:     ec.Method,
				URLPattern: ec.URLPattern,
				Handler:    echoHandler(params),
			})
		}

		a := r.Action(ac.Name, executes...)
		if ac.Restful {
			a.Restful(ac.Hyphenate...)
		}
	}

	r.Use(opts.Middleware...)
	return r, r.Err()
}

var (
	contextType = reflect.TypeFor[*mux.Context]()
	errorType   = reflect.TypeFor[error]()
)

// echoHandler builds func(*mux.Context, params...) error replying with an
// Echo.
func echoHandler(params []reflect.Type) any {
	in := append([]reflect.Type{contextType}, params...)
	fn := reflect.FuncOf(in, []reflect.Type{errorType}, false)

	return reflect.MakeFunc(fn, func(args []reflect.Value) []reflect.Value {
		c := args[0].Interface().(*mux.Context)

		echo := Echo{
			Path: c.Request().URL.Path,
			Args: make([]any, 0, len(args)-1),
		}
		if ri := c.Route(); ri != nil {
			echo.Action, echo.Execute = ri.Action, ri.Method
		}
		if loc := c.Locale(); loc != language.Und {
			echo.Locale = loc.String()
		}
		for _, arg := range args[1:] {
			v := arg.Interface()
			if optional.IsValueType(arg.Type()) {
				v, _ = optional.Unwrap(v)
			}
			echo.Args = append(echo.Args, v)
		}

		out := reflect.Zero(errorType)
		if err := c.JSON(http.StatusOK, echo); err != nil {
			out = reflect.ValueOf(&err).Elem()
		}
		return []reflect.Value{out}
	}).Interface()
}
