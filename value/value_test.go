package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/crates/value/src/values.rs's #[cfg(test)]
// module: empty_equality, blank_equality, boolean/string/number equality
// and truthiness tables.

func TestTruthy(t *testing.T) {
	assert.False(t, Nil().IsTruthy())
	assert.False(t, Empty().IsTruthy())
	assert.False(t, Blank().IsTruthy())
	assert.False(t, Bool(false).IsTruthy())
	assert.True(t, Bool(true).IsTruthy())
	assert.True(t, Int(0).IsTruthy())
	assert.True(t, String("").IsTruthy())
}

func TestEmptyEquality(t *testing.T) {
	assert.True(t, Eq(Empty(), Empty()))
	assert.True(t, Eq(Empty(), String("")))
	assert.True(t, Eq(Empty(), ArrayOf()))
	assert.True(t, Eq(Empty(), ObjectOf(NewObject())))
	assert.True(t, Eq(Empty(), Blank()))
	assert.False(t, Eq(Empty(), String("x")))
}

func TestBlankEquality(t *testing.T) {
	assert.True(t, Eq(Blank(), Nil()))
	assert.True(t, Eq(Blank(), Bool(false)))
	assert.True(t, Eq(Blank(), String("   ")))
	assert.True(t, Eq(Blank(), String("")))
	assert.False(t, Eq(Blank(), Bool(true)))
	assert.False(t, Eq(Blank(), String("x")))
}

func TestMixedComparisonsAreFalse(t *testing.T) {
	assert.False(t, Eq(Int(1), String("1")))
	assert.False(t, Eq(ArrayOf(Int(1)), String("1")))
}

func TestNilIsNotEmptyString(t *testing.T) {
	assert.False(t, Eq(Nil(), String("")))
	assert.True(t, Eq(Nil(), Nil()))
	assert.True(t, Eq(Nil(), Empty()))
}

func TestEmptyIsNotWhitespaceString(t *testing.T) {
	assert.False(t, Eq(Empty(), String(" ")))
}

func TestBooleanVsNonScalarFollowsTruthiness(t *testing.T) {
	assert.True(t, Eq(Bool(true), ArrayOf(Int(5))))
	assert.False(t, Eq(Bool(false), ArrayOf(Int(5))))
	assert.True(t, Eq(Bool(false), Nil()))
}

func TestNumericEquality(t *testing.T) {
	assert.True(t, Eq(Int(2), Float(2.0)))
	assert.False(t, Eq(Int(2), Float(2.5)))
}

func TestArrayIndexing(t *testing.T) {
	a := ArrayOf(Int(1), Int(2), Int(3))
	v, ok := Get(a, Int(-1))
	require.True(t, ok)
	assert.True(t, Eq(v, Int(3)))

	v, ok = Get(a, String("first"))
	require.True(t, ok)
	assert.True(t, Eq(v, Int(1)))

	v, ok = Get(a, String("last"))
	require.True(t, ok)
	assert.True(t, Eq(v, Int(3)))

	_, ok = Get(a, Int(10))
	assert.False(t, ok)
}

func TestNegativeIndexInvariant(t *testing.T) {
	a := ArrayOf(Int(10), Int(20), Int(30))
	n := 3
	for i := -n; i < 0; i++ {
		lhs, lok := Get(a, Int(int32(i)))
		rhs, rok := Get(a, Int(int32(i+n)))
		require.Equal(t, lok, rok)
		if lok {
			assert.True(t, Eq(lhs, rhs))
		}
	}
}

func TestContains(t *testing.T) {
	ok, valid := Contains(String("Star Wars"), String("Star"))
	require.True(t, valid)
	assert.True(t, ok)

	obj := NewObject()
	obj.Set("a", Int(1))
	ok, valid = Contains(ObjectOf(obj), String("a"))
	require.True(t, valid)
	assert.True(t, ok)

	ok, valid = Contains(ArrayOf(Int(1), Int(2)), Int(2))
	require.True(t, valid)
	assert.True(t, ok)

	_, valid = Contains(Int(5), Int(1))
	assert.False(t, valid)
}

func TestRenderString(t *testing.T) {
	assert.Equal(t, "", RenderString(Nil()))
	assert.Equal(t, "", RenderString(Empty()))
	assert.Equal(t, "hi", RenderString(String("hi")))
	assert.Equal(t, "12", RenderString(ArrayOf(Int(1), Int(2))))
}

func TestCoercionsAreTotal(t *testing.T) {
	_, ok := ToInteger(String("not a number"))
	assert.False(t, ok)

	i, ok := ToInteger(String("42"))
	require.True(t, ok)
	assert.Equal(t, int32(42), i)

	f, ok := ToFloat(Int(3))
	require.True(t, ok)
	assert.Equal(t, 3.0, f)
}
