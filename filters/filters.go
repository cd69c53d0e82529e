// Package filters provides a minimal starter filter catalog: a complete
// filter library is out of scope, but the end-to-end rendering scenarios
// and ordinary smoke-testing need at least `minus`, `default`, `size`,
// `first`, `last`, `join`, `upcase`, `downcase` wired up, so callers are
// not left with an empty registry.
//
// Grounded on codingersid-legit-template's DefaultFunctions catalog
// (codingersid-legit-template/engine/functions.go: "upper"/"lower"/
// "first"/"last"/"join" as a flat map of named functions) — the shape
// (one function per name, registered into a table) carries over; the
// signature is replaced with registry.FilterFunc since a Liquid filter
// also receives keyword arguments and a Runtime, which html/template's
// FuncMap entries never needed.
package filters

import (
	"strings"

	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/value"
)

// Register adds the starter catalog to reg.
func Register(reg *registry.Registry) {
	reg.RegisterFilter("minus", "numeric subtraction", "number", minus)
	reg.RegisterFilter("plus", "numeric addition", "number", plus)
	reg.RegisterFilter("default", "substitute a fallback for a default-empty value", "value", defaultFilter)
	reg.RegisterFilter("size", "length of a string, array or object", "", size)
	reg.RegisterFilter("first", "first element of an array", "", first)
	reg.RegisterFilter("last", "last element of an array", "", last)
	reg.RegisterFilter("join", "join an array's rendered elements with a separator", "separator", join)
	reg.RegisterFilter("upcase", "uppercase a string", "", upcase)
	reg.RegisterFilter("downcase", "lowercase a string", "", downcase)
}

func minus(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	a, _ := value.ToFloat(input)
	if len(args) == 0 {
		return value.Float(a), nil
	}
	b, _ := value.ToFloat(args[0])
	if isIntLike(input) && isIntLike(args[0]) {
		ai, _ := value.ToInteger(input)
		bi, _ := value.ToInteger(args[0])
		return value.Int(ai - bi), nil
	}
	return value.Float(a - b), nil
}

func plus(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	a, _ := value.ToFloat(input)
	if len(args) == 0 {
		return value.Float(a), nil
	}
	b, _ := value.ToFloat(args[0])
	if isIntLike(input) && isIntLike(args[0]) {
		ai, _ := value.ToInteger(input)
		bi, _ := value.ToInteger(args[0])
		return value.Int(ai + bi), nil
	}
	return value.Float(a + b), nil
}

func isIntLike(v value.Value) bool {
	return v.Kind() == value.KindScalar && v.ScalarKind() == value.ScalarInt
}

func defaultFilter(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	if !input.IsDefault() {
		return input, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return value.Empty(), nil
}

func size(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	switch input.Kind() {
	case value.KindArray:
		return value.Int(int32(len(input.AsArray()))), nil
	case value.KindObject:
		return value.Int(int32(input.AsObject().Len())), nil
	case value.KindScalar:
		if s, ok := input.AsString(); ok {
			return value.Int(int32(len(s))), nil
		}
	}
	return value.Int(0), nil
}

func first(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	arr := input.AsArray()
	if len(arr) == 0 {
		return value.Nil(), nil
	}
	return arr[0], nil
}

func last(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	arr := input.AsArray()
	if len(arr) == 0 {
		return value.Nil(), nil
	}
	return arr[len(arr)-1], nil
}

func join(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	sep := " "
	if len(args) > 0 {
		sep = value.ToStringCow(args[0])
	}
	arr := input.AsArray()
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = value.RenderString(v)
	}
	return value.String(strings.Join(parts, sep)), nil
}

func upcase(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	return value.String(strings.ToUpper(value.ToStringCow(input))), nil
}

func downcase(input value.Value, args []value.Value, kwargs map[string]value.Value, rt registry.Runtime) (value.Value, error) {
	return value.String(strings.ToLower(value.ToStringCow(input))), nil
}
