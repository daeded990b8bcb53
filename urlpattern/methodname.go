package urlpattern

import (
	"net/http"
	"strings"

	"github.com/vitalvas/flute/deferr"
)

// MethodDelimiter separates an HTTP verb from the mapping name in RESTful
// execute method names, e.g. "get$index".
const MethodDelimiter = "$"

// IndexMethod is the mapping name bound to the action root path.
const IndexMethod = "index"

// restfulVerbs is the whitelist of verbs accepted before the delimiter.
var restfulVerbs = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"delete": http.MethodDelete,
	"patch":  http.MethodPatch,
}

// MethodName is the analyzed form of an execute method name.
type MethodName struct {
	// Raw is the name as declared, e.g. "post$sea".
	Raw string

	// HTTPMethod is the upper-case verb, or empty when any verb is accepted.
	HTTPMethod string

	// Mapping is the name used for URL mapping, e.g. "sea".
	Mapping string
}

// IsIndex reports whether the mapping name is "index".
func (m MethodName) IsIndex() bool {
	return m.Mapping == IndexMethod
}

// AcceptsMethod reports whether the request verb is allowed.
func (m MethodName) AcceptsMethod(method string) bool {
	if m.HTTPMethod == "" {
		return true
	}
	if m.HTTPMethod == method {
		return true
	}
	// RFC 9110 Section 9.3.2: HEAD is served wherever GET is.
	return m.HTTPMethod == http.MethodGet && method == http.MethodHead
}

// ParseMethodName analyzes an execute method name.
func ParseMethodName(name string) (MethodName, error) {
	if name == "" {
		return MethodName{}, deferr.New("urlpattern", name, "empty execute method name")
	}

	idx := strings.Index(name, MethodDelimiter)
	if idx < 0 {
		return MethodName{Raw: name, Mapping: name}, nil
	}

	verb, mapping := name[:idx], name[idx+len(MethodDelimiter):]
	if strings.Contains(mapping, MethodDelimiter) {
		return MethodName{}, deferr.New("urlpattern", name, "execute method name has more than one %q", MethodDelimiter).
			WithAdvice("write a single verb before the delimiter").
			WithExamples("(x) get$sea$land", "(o) get$seaLand")
	}
	if mapping == "" {
		return MethodName{}, deferr.New("urlpattern", name, "execute method name has no mapping name after %q", MethodDelimiter).
			WithExamples("(x) get$", "(o) get$index")
	}

	httpMethod, ok := restfulVerbs[verb]
	if !ok {
		return MethodName{}, deferr.New("urlpattern", name, "unknown HTTP verb %q before %q", verb, MethodDelimiter).
			WithAdvice("use one of get, post, put, delete, patch in lower case").
			WithExamples("(x) fetch$index", "(o) get$index", "(o) post$sea")
	}

	return MethodName{Raw: name, HTTPMethod: httpMethod, Mapping: mapping}, nil
}
