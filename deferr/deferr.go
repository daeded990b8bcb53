// Package deferr holds the error type returned for broken action, pattern
// and form definitions. These errors are raised while routes are registered,
// never while a request is served.
package deferr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDefinition is matched by every *Error via errors.Is.
var ErrDefinition = errors.New("definition error")

// Error describes one broken definition with enough context to fix it.
type Error struct {
	// Component names the analyzer that rejected the definition,
	// e.g. "urlpattern" or "execarg".
	Component string

	// Subject identifies the definition, e.g. "products.get$index".
	Subject string

	// Reason is a one-line statement of what is wrong.
	Reason string

	// Advice says how to fix it.
	Advice string

	// Examples are short good/bad snippets shown under the advice.
	Examples []string
}

// New returns an Error for the given component, subject and reason.
func New(component, subject, reason string, args ...any) *Error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &Error{Component: component, Subject: subject, Reason: reason}
}

// WithAdvice sets the advice text and returns e.
func (e *Error) WithAdvice(advice string) *Error {
	e.Advice = advice
	return e
}

// WithExamples appends example lines and returns e.
func (e *Error) WithExamples(examples ...string) *Error {
	e.Examples = append(e.Examples, examples...)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Component, e.Reason)
	if e.Subject != "" {
		fmt.Fprintf(&b, " (%s)", e.Subject)
	}
	if e.Advice != "" {
		b.WriteString("\n  advice: ")
		b.WriteString(e.Advice)
	}
	for _, ex := range e.Examples {
		b.WriteString("\n    ")
		b.WriteString(ex)
	}
	return b.String()
}

// Is reports whether target is ErrDefinition.
func (e *Error) Is(target error) bool {
	return target == ErrDefinition
}
