package filters_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codingersid/liquidgo/filters"
	"github.com/codingersid/liquidgo/registry"
	"github.com/codingersid/liquidgo/value"
)

type stubRuntime struct{ strict bool }

func (s stubRuntime) Strict() bool              { return s.strict }
func (s stubRuntime) Write(string)              {}
func (stubRuntime) Lookup(string, []string) (value.Value, bool) { return value.Nil(), false }

func apply(t *testing.T, reg *registry.Registry, name string, input value.Value, args []value.Value, kwargs map[string]value.Value) value.Value {
	t.Helper()
	fn, ok := reg.Filter(name)
	require.True(t, ok, "filter %q must be registered", name)
	out, err := fn(input, args, kwargs, stubRuntime{})
	require.NoError(t, err)
	return out
}

func newRegistry() *registry.Registry {
	reg := registry.New()
	filters.Register(reg)
	return reg
}

func TestMinusIntegers(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "minus", value.Int(4), []value.Value{value.Int(2)}, nil)
	require.Equal(t, int32(2), mustInt(t, out))
}

func TestMinusFloats(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "minus", value.Float(4.5), []value.Value{value.Float(1.5)}, nil)
	f, ok := value.ToFloat(out)
	require.True(t, ok)
	require.Equal(t, 3.0, f)
}

func TestPlusIntegers(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "plus", value.Int(1), []value.Value{value.Int(2)}, nil)
	require.Equal(t, int32(3), mustInt(t, out))
}

func TestDefaultSubstitutesOnEmpty(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "default", value.Empty(), []value.Value{value.String("fallback")}, nil)
	s, ok := out.AsString()
	require.True(t, ok)
	require.Equal(t, "fallback", s)
}

func TestDefaultPassesThroughNonEmpty(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "default", value.String("set"), []value.Value{value.String("fallback")}, nil)
	s, ok := out.AsString()
	require.True(t, ok)
	require.Equal(t, "set", s)
}

func TestSizeOfStringAndArray(t *testing.T) {
	reg := newRegistry()
	require.Equal(t, int32(5), mustInt(t, apply(t, reg, "size", value.String("hello"), nil, nil)))
	arr := value.ArrayOf(value.Int(1), value.Int(2), value.Int(3))
	require.Equal(t, int32(3), mustInt(t, apply(t, reg, "size", arr, nil, nil)))
}

func TestFirstAndLast(t *testing.T) {
	reg := newRegistry()
	arr := value.ArrayOf(value.Int(1), value.Int(2), value.Int(3))
	require.Equal(t, int32(1), mustInt(t, apply(t, reg, "first", arr, nil, nil)))
	require.Equal(t, int32(3), mustInt(t, apply(t, reg, "last", arr, nil, nil)))
}

func TestFirstAndLastOnEmptyArray(t *testing.T) {
	reg := newRegistry()
	empty := value.ArrayOf()
	require.Equal(t, value.KindNil, apply(t, reg, "first", empty, nil, nil).Kind())
	require.Equal(t, value.KindNil, apply(t, reg, "last", empty, nil, nil).Kind())
}

func TestJoinWithDefaultAndCustomSeparator(t *testing.T) {
	reg := newRegistry()
	arr := value.ArrayOf(value.String("a"), value.String("b"), value.String("c"))
	out := apply(t, reg, "join", arr, nil, nil)
	s, _ := out.AsString()
	require.Equal(t, "a b c", s)

	out = apply(t, reg, "join", arr, []value.Value{value.String(",")}, nil)
	s, _ = out.AsString()
	require.Equal(t, "a,b,c", s)
}

func TestUpcaseAndDowncase(t *testing.T) {
	reg := newRegistry()
	out := apply(t, reg, "upcase", value.String("Liquid"), nil, nil)
	s, _ := out.AsString()
	require.Equal(t, "LIQUID", s)

	out = apply(t, reg, "downcase", value.String("Liquid"), nil, nil)
	s, _ = out.AsString()
	require.Equal(t, "liquid", s)
}

func mustInt(t *testing.T, v value.Value) int32 {
	t.Helper()
	i, ok := value.ToInteger(v)
	require.True(t, ok)
	return i
}
