// Package optional provides the container used for optional path
// parameters of execute handlers.
//
//	func(c *mux.Context, id int, tab optional.Value[string]) error
//
// The dispatcher fills a Value through reflection, so the package also
// exposes the small reflection surface it needs (IsValueType, Elem, Wrap).
package optional

import (
	"fmt"
	"reflect"
)

// Value holds a T that may be absent.
type Value[T any] struct {
	value   T
	present bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// Empty returns an absent Value.
func Empty[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Value[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the held value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Value[T]) String() string {
	if !o.present {
		return "optional.Empty"
	}
	return fmt.Sprintf("optional.Of(%v)", o.value)
}

// Interface returns the held value as any and whether it is present.
func (o Value[T]) Interface() (any, bool) {
	return o.value, o.present
}

// ElemType returns the reflect.Type of T.
func (o Value[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (o *Value[T]) setAny(v any) {
	o.value = v.(T)
	o.present = true
}

// wrapper is implemented by every Value[T].
type wrapper interface {
	ElemType() reflect.Type
	Interface() (any, bool)
}

type setter interface {
	setAny(v any)
}

var wrapperType = reflect.TypeOf((*wrapper)(nil)).Elem()

// IsValueType reports whether t is an instantiation of Value.
func IsValueType(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	if !t.Implements(wrapperType) {
		return false
	}
	return reflect.PointerTo(t).Implements(reflect.TypeOf((*setter)(nil)).Elem())
}

// Elem returns the element type of a Value type, or nil when t is not one.
func Elem(t reflect.Type) reflect.Type {
	if !IsValueType(t) {
		return nil
	}
	return reflect.Zero(t).Interface().(wrapper).ElemType()
}

// Wrap returns a present Value of type t holding elem. t must satisfy
// IsValueType and elem must be assignable to its element type.
func Wrap(t reflect.Type, elem reflect.Value) reflect.Value {
	v := reflect.New(t)
	v.Interface().(setter).setAny(elem.Interface())
	return v.Elem()
}

// Unwrap returns the held value of v, which must be a Value, and whether it
// is present.
func Unwrap(v any) (any, bool) {
	w, ok := v.(wrapper)
	if !ok {
		return nil, false
	}
	return w.Interface()
}

// Absent returns an empty Value of type t.
func Absent(t reflect.Type) reflect.Value {
	return reflect.Zero(t)
}
