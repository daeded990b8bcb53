package urlpattern

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/vitalvas/flute/deferr"
)

// KeywordMark is replaced by the words of the method name, in order.
const KeywordMark = "@word"

// Placeholder is the only accepted path parameter marker.
const Placeholder = "{}"

// Input describes one execute method to compile.
type Input struct {
	// Subject identifies the execute in error messages, e.g. "products.get$sea".
	Subject string

	// Method is the mapping name, without any HTTP verb prefix.
	Method string

	// Pattern is the declared URL pattern, empty when not specified.
	Pattern string

	// Params are the raw path parameter types in declaration order.
	Params []reflect.Type

	// Optionals maps a parameter index to the element type of its optional
	// wrapper.
	Optionals map[int]reflect.Type
}

// Analyze resolves and compiles the URL pattern of one execute method.
func Analyze(in Input) (*Spec, error) {
	specified := in.Pattern != ""
	if specified {
		if err := checkStructure(in); err != nil {
			return nil, err
		}
	}

	source, err := resolveSource(in)
	if err != nil {
		return nil, err
	}

	segments, err := parseSegments(in, source)
	if err != nil {
		return nil, err
	}

	if err := checkVariableCount(in, source, segments); err != nil {
		return nil, err
	}

	if err := bindSlots(in, source, segments); err != nil {
		return nil, err
	}

	expr, vars := buildRegexp(segments)
	re, err := cache.compile(expr)
	if err != nil {
		return nil, deferr.New("urlpattern", in.Subject, "cannot compile %q: %v", expr, err)
	}

	return &Spec{
		Regexp:    re,
		Vars:      vars,
		Source:    source,
		Specified: specified,
		segments:  segments,
	}, nil
}

// checkStructure validates a declared pattern before resolution.
func checkStructure(in Input) error {
	p := in.Pattern
	if strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return deferr.New("urlpattern", in.Subject, "URL pattern %q must not start or end with '/'", p).
			WithAdvice("remove the padding slashes, the framework adds them").
			WithExamples("(x) /sea/{}/", "(o) sea/{}")
	}
	if strings.Contains(p, "//") {
		return deferr.New("urlpattern", in.Subject, "URL pattern %q has an empty segment", p).
			WithExamples("(x) sea//{}", "(o) sea/{}")
	}

	idxs, err := braceIndices(p)
	if err != nil {
		return deferr.New("urlpattern", in.Subject, "unbalanced braces: %v", err).
			WithExamples("(x) sea/{", "(x) sea/}/land", "(o) sea/{}/land")
	}
	for i := 0; i < len(idxs); i += 2 {
		if inner := p[idxs[i]+1 : idxs[i+1]-1]; inner != "" {
			return deferr.New("urlpattern", in.Subject, "named placeholder %q in %q", p[idxs[i]:idxs[i+1]], p).
				WithAdvice("path parameters are bound by position, write {} without a name").
				WithExamples("(x) sea/{id}", "(o) sea/{}")
		}
	}

	if isAbbreviable(p) {
		return deferr.New("urlpattern", in.Subject, "URL pattern %q only repeats placeholders", p).
			WithAdvice("omit the pattern, one {} per path parameter is derived automatically").
			WithExamples("(x) urlPattern: {}/{}", "(o) urlPattern: (none)", "(o) urlPattern: {}/sea/{}")
	}
	return nil
}

// isAbbreviable reports whether p is exactly {} or {}/{}/.../{}.
func isAbbreviable(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg != Placeholder {
			return false
		}
	}
	return true
}

// resolveSource derives the pattern, applies keyword marks and the method
// name prefix.
func resolveSource(in Input) (string, error) {
	index := in.Method == IndexMethod

	if in.Pattern == "" {
		parts := make([]string, 0, len(in.Params)+1)
		if !index {
			parts = append(parts, in.Method)
		}
		for range in.Params {
			parts = append(parts, Placeholder)
		}
		return strings.Join(parts, "/"), nil
	}

	marks := strings.Count(in.Pattern, KeywordMark)
	if marks == 0 {
		if index {
			return in.Pattern, nil
		}
		return in.Method + "/" + in.Pattern, nil
	}

	if index {
		return "", deferr.New("urlpattern", in.Subject, "keyword mark %s used on the index method", KeywordMark).
			WithAdvice("index is mapped to the action root, rename the method to use keyword marks").
			WithExamples("(x) index + {}/@word", "(o) seaLand + {}/@word/@word")
	}

	words := SplitWords(in.Method)
	if marks != len(words) {
		return "", deferr.New("urlpattern", in.Subject,
			"%d keyword marks in %q but method %q has %d words %v", marks, in.Pattern, in.Method, len(words), words).
			WithAdvice("write one " + KeywordMark + " per camel-case word of the method name").
			WithExamples("(x) seaLand + {}/@word", "(o) seaLand + {}/@word/@word -> {}/sea/land")
	}

	source := in.Pattern
	for _, w := range words {
		source = strings.Replace(source, KeywordMark, w, 1)
	}
	return source, nil
}

// parseSegments splits a resolved source into literal and placeholder
// segments.
func parseSegments(in Input, source string) ([]segment, error) {
	if source == "" {
		return nil, nil
	}

	raw := strings.Split(source, "/")
	segments := make([]segment, 0, len(raw))
	slot := 0
	for _, s := range raw {
		if s == Placeholder {
			segments = append(segments, segment{slot: slot})
			slot++
			continue
		}
		if strings.ContainsAny(s, "{}") {
			return nil, deferr.New("urlpattern", in.Subject, "placeholder must be a whole segment, got %q in %q", s, source).
				WithExamples("(x) sea-{}", "(o) sea/{}")
		}
		segments = append(segments, segment{literal: s, slot: -1})
	}
	return segments, nil
}

// checkVariableCount requires one placeholder per path parameter.
func checkVariableCount(in Input, source string, segments []segment) error {
	count := 0
	for _, seg := range segments {
		if seg.isSlot() {
			count++
		}
	}
	if count == len(in.Params) {
		return nil
	}
	return deferr.New("urlpattern", in.Subject,
		"URL pattern %q has %d placeholders but the method has %d path parameters", source, count, len(in.Params)).
		WithAdvice("write exactly one {} per path parameter, in declaration order").
		WithExamples("(x) sea(int, string) + {}/sea", "(o) sea(int, string) + {}/sea/{}")
}

// bindSlots selects slot kinds and enforces that optional slots form the
// tail of the pattern.
func bindSlots(in Input, source string, segments []segment) error {
	inOptional := false
	for i := range segments {
		seg := &segments[i]
		if !seg.isSlot() {
			if inOptional {
				return optionalContinuation(in, source, seg.literal)
			}
			continue
		}

		typ := in.Params[seg.slot]
		if elem, ok := in.Optionals[seg.slot]; ok {
			typ = elem
			seg.optional = true
			inOptional = true
		} else if inOptional {
			return optionalContinuation(in, source, Placeholder)
		}
		seg.kind = slotKindOf(typ)
	}
	return nil
}

func optionalContinuation(in Input, source, after string) error {
	return deferr.New("urlpattern", in.Subject, "%q follows an optional parameter in %q", after, source).
		WithAdvice("optional path parameters must be the last segments of the pattern").
		WithExamples("(x) {}/sea with optional first parameter", "(o) sea/{} with optional last parameter")
}

// buildRegexp writes the anchored expression. Optional slots become nested
// groups so a later optional value requires the earlier ones.
func buildRegexp(segments []segment) (string, []string) {
	var (
		b      bytes.Buffer
		vars   []string
		opened int
	)

	b.WriteByte('^')
	for i, seg := range segments {
		sep := ""
		if i > 0 {
			sep = "/"
		}
		switch {
		case !seg.isSlot():
			b.WriteString(sep)
			b.WriteString(regexp.QuoteMeta(seg.literal))
		case seg.optional:
			fmt.Fprintf(&b, "(?:%s(%s)", sep, slotPatterns[seg.kind])
			opened++
		default:
			fmt.Fprintf(&b, "%s(%s)", sep, slotPatterns[seg.kind])
		}
		if seg.isSlot() {
			vars = append(vars, fmt.Sprintf("arg%d", seg.slot))
		}
	}
	b.WriteString(strings.Repeat(")?", opened))
	b.WriteByte('$')

	return b.String(), vars
}
