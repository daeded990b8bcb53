package mux

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMethodMismatch is returned when the request method does not match
	// any execute while the path does. This results in a 405 response per
	// RFC 9110 Section 15.5.6.
	ErrMethodMismatch = errors.New("mux: method is not allowed")

	// ErrNotFound is returned when no execute matches the request path.
	ErrNotFound = errors.New("mux: no matching execute was found")

	// ErrUnknownAction is returned by URL building for an unregistered
	// action or execute.
	ErrUnknownAction = errors.New("mux: unknown action")
)

// HTTPError is an error carrying the response status. Execute handlers
// return it to reply with a status other than 500.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// NewHTTPError returns an HTTPError. Without a message the status text is
// used.
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mux: %d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("mux: %d %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// BindError reports a request value that could not be bound to an execute
// parameter. It results in a 400 response.
type BindError struct {
	// Source is "path", "form" or "body".
	Source string
	// Name is the parameter or field name.
	Name string
	Err  error
}

func (e *BindError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("mux: cannot bind %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("mux: cannot bind %s %s: %v", e.Source, e.Name, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// DefaultErrorHandler writes the response for an execute error unless the
// handler already wrote one. Validation failures are written as JSON.
func DefaultErrorHandler(c *Context, err error) {
	var (
		verr    *ValidationError
		httpErr *HTTPError
		bindErr *BindError
	)

	switch {
	case errors.As(err, &verr):
		if !c.Written() {
			if jerr := c.JSON(http.StatusBadRequest, verr); jerr != nil {
				c.Logger().Error("write validation errors", "err", jerr)
			}
		}
		return
	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			c.Logger().Error("execute failed", "status", httpErr.Code, "err", err)
		}
		if !c.Written() {
			http.Error(c.w, httpErr.Message, httpErr.Code)
		}
		return
	case errors.As(err, &bindErr):
		c.Logger().Debug("bind failed", "err", err)
		if !c.Written() {
			http.Error(c.w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		}
		return
	}

	c.Logger().Error("execute failed", "err", err)
	if !c.Written() {
		http.Error(c.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
