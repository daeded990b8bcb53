package urlpattern

import (
	"reflect"

	"github.com/google/uuid"
)

// slotKind selects the capture sub-pattern of a placeholder.
type slotKind int

const (
	slotGeneral slotKind = iota
	slotInt
	slotFloat
	slotUUID
)

// slotPatterns maps each slot kind to its sub-pattern.
var slotPatterns = map[slotKind]string{
	slotGeneral: `[^/]+`,
	slotInt:     `[0-9]+`,
	slotFloat:   `[0-9]*\.?[0-9]+`,
	slotUUID:    `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// slotKindOf returns the slot kind for a path parameter type. Numeric slots
// let a numeric and a string execute share one URL depth.
func slotKindOf(t reflect.Type) slotKind {
	if t == nil {
		return slotGeneral
	}
	if t == uuidType {
		return slotUUID
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return slotInt
	case reflect.Float32, reflect.Float64:
		return slotFloat
	}
	return slotGeneral
}
