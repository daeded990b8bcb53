// Package jsonengine is the JSON codec used to bind request bodies and write
// JSON responses.
package jsonengine

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

var (
	ErrEmptyBody    = errors.New("jsonengine: empty body")
	ErrNullBody     = errors.New("jsonengine: null body")
	ErrTrailingData = errors.New("jsonengine: trailing data after JSON value")
)

// Policy decides how an empty or null body is parsed.
type Policy int

const (
	// PolicyReject fails with ErrEmptyBody or ErrNullBody.
	PolicyReject Policy = iota

	// PolicyZero leaves the target untouched, i.e. its zero value.
	PolicyZero
)

// Options configures a Codec.
type Options struct {
	DisallowUnknownFields bool
	EmptyBody             Policy
	NullBody              Policy

	// Indent enables indented output when non-empty.
	Indent string
}

// Engine parses and serializes JSON.
type Engine interface {
	Parse(data []byte, v any) error
	Serialize(v any) ([]byte, error)
}

// Codec is the go-json backed Engine.
type Codec struct {
	opts Options
}

var _ Engine = (*Codec)(nil)

// New returns a Codec with the given options.
func New(opts Options) *Codec {
	return &Codec{opts: opts}
}

// Default rejects empty and null bodies and accepts unknown fields.
var Default = New(Options{})

// Parse decodes data into v, which must be a non-nil pointer.
func (c *Codec) Parse(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		if c.opts.EmptyBody == PolicyZero {
			return nil
		}
		return ErrEmptyBody
	}
	if bytes.Equal(trimmed, []byte("null")) {
		if c.opts.NullBody == PolicyZero {
			return nil
		}
		return ErrNullBody
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if c.opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("jsonengine: %w", err)
	}
	// The first value decoded, so anything making the whole input invalid
	// follows it.
	if !json.Valid(trimmed) {
		return ErrTrailingData
	}
	return nil
}

// Decode reads r to the end and parses it into v.
func (c *Codec) Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("jsonengine: read body: %w", err)
	}
	return c.Parse(data, v)
}

// Serialize encodes v.
func (c *Codec) Serialize(v any) ([]byte, error) {
	if c.opts.Indent != "" {
		return json.MarshalIndent(v, "", c.opts.Indent)
	}
	return json.Marshal(v)
}

// ParseAs decodes data into a new T.
func ParseAs[T any](e Engine, data []byte) (T, error) {
	var v T
	err := e.Parse(data, &v)
	return v, err
}
