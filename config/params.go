package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vitalvas/flute/optional"
)

var paramTypes = map[string]reflect.Type{
	"string":  reflect.TypeFor[string](),
	"bool":    reflect.TypeFor[bool](),
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
	"uuid":    reflect.TypeFor[uuid.UUID](),
}

var optionalTypes = map[string]reflect.Type{
	"string":  reflect.TypeFor[optional.Value[string]](),
	"bool":    reflect.TypeFor[optional.Value[bool]](),
	"int":     reflect.TypeFor[optional.Value[int]](),
	"int64":   reflect.TypeFor[optional.Value[int64]](),
	"uint64":  reflect.TypeFor[optional.Value[uint64]](),
	"float64": reflect.TypeFor[optional.Value[float64]](),
	"uuid":    reflect.TypeFor[optional.Value[uuid.UUID]](),
}

// ParamType resolves a manifest parameter type name. Optional parameters
// are written "optional[int]".
func ParamType(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)

	if inner, ok := strings.CutPrefix(name, "optional["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if t, found := optionalTypes[strings.TrimSpace(inner)]; ok && found {
			return t, nil
		}
		return nil, fmt.Errorf("unknown optional parameter type %q, known: %s", name, known(optionalTypes))
	}

	if t, ok := paramTypes[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown parameter type %q, known: %s", name, known(paramTypes))
}

func known(types map[string]reflect.Type) string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
