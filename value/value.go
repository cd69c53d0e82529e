// Package value implements the dynamic Value type shared by the lexer,
// parser and renderer: a tagged variant over scalars, arrays, objects and
// the Nil/Empty/Blank sentinels, plus Ruby-flavored truthiness, equality
// and total (never-panicking) coercions.
//
// Grounded on original_source/crates/value/src/values.rs (the ValueCow
// enum, value_eq and value_cmp free functions) from the liquid-rust
// codebase this package's semantics are distilled from.
package value

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindEmpty
	KindBlank
	KindScalar
	KindArray
	KindObject
)

// ScalarKind distinguishes the shape of a Scalar Value.
type ScalarKind int

const (
	ScalarInt ScalarKind = iota
	ScalarFloat
	ScalarBool
	ScalarString
	ScalarDate
	ScalarDateTime
)

// Value is the tagged dynamic value. Exactly one of the fields below is
// meaningful, selected by Kind (and, for KindScalar, by ScalarKind).
type Value struct {
	kind       Kind
	scalarKind ScalarKind

	i  int32
	f  float64
	b  bool
	s  string
	t  time.Time
	dt bool // true if t carries a time-of-day component (datetime vs date)

	arr []Value
	obj *Object
}

// Object is an insertion-ordered string-keyed map.
type Object struct {
	keys []string
	m    map[string]Value
}

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{m: make(map[string]Value)}
}

// Set inserts or updates key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.m[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.m[key] = v
}

// Get returns the value at key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.m[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.keys) }

// Nil is the absent-value sentinel.
func Nil() Value { return Value{kind: KindNil} }

// Empty is the distinguished empty sentinel (equal to any empty string,
// array or object, and to Blank).
func Empty() Value { return Value{kind: KindEmpty} }

// Blank is the distinguished blank sentinel (equal to Nil, false, any
// whitespace-only string, any empty container, and to Empty).
func Blank() Value { return Value{kind: KindBlank} }

// Int builds an integer Scalar.
func Int(i int32) Value { return Value{kind: KindScalar, scalarKind: ScalarInt, i: i} }

// Float builds a float Scalar.
func Float(f float64) Value { return Value{kind: KindScalar, scalarKind: ScalarFloat, f: f} }

// Bool builds a boolean Scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalarKind: ScalarBool, b: b} }

// String builds a string Scalar.
func String(s string) Value { return Value{kind: KindScalar, scalarKind: ScalarString, s: s} }

// Date builds a date-with-offset Scalar (no time-of-day component).
func Date(t time.Time) Value {
	return Value{kind: KindScalar, scalarKind: ScalarDate, t: t}
}

// DateTime builds a datetime-with-offset Scalar.
func DateTime(t time.Time) Value {
	return Value{kind: KindScalar, scalarKind: ScalarDateTime, t: t, dt: true}
}

// ArrayOf builds an Array Value from a slice (copied).
func ArrayOf(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindArray, arr: cp}
}

// ObjectOf builds an Object Value.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// FromAny converts a plain Go value (as supplied by a caller's globals map)
// into a Value. Supported: nil, bool, the integer and float kinds, string,
// time.Time, []interface{}/[]Value, map[string]interface{}, *Object, Value.
func FromAny(v interface{}) Value {
	switch x := v.(type) {
	case Value:
		return x
	case nil:
		return Nil()
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case time.Time:
		return DateTime(x)
	case *Object:
		return ObjectOf(x)
	case []Value:
		return ArrayOf(x...)
	case []interface{}:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = FromAny(e)
		}
		return ArrayOf(out...)
	case map[string]interface{}:
		o := NewObject()
		for k, e := range x {
			o.Set(k, FromAny(e))
		}
		return ObjectOf(o)
	case map[string]Value:
		o := NewObject()
		for k, e := range x {
			o.Set(k, e)
		}
		return ObjectOf(o)
	}
	if i, err := cast.ToInt32E(v); err == nil {
		return Int(i)
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return Float(f)
	}
	if s, err := cast.ToStringE(v); err == nil {
		return String(s)
	}
	return Nil()
}

// Kind returns the variant discriminant.
func (v Value) Kind() Kind { return v.kind }

// ScalarKind returns the scalar sub-variant; meaningless unless
// v.Kind() == KindScalar.
func (v Value) ScalarKind() ScalarKind { return v.scalarKind }

// TypeName returns the user-facing type name, used in diagnostics.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindEmpty:
		return "empty"
	case KindBlank:
		return "blank"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindScalar:
		switch v.scalarKind {
		case ScalarInt:
			return "integer"
		case ScalarFloat:
			return "float"
		case ScalarBool:
			return "boolean"
		case ScalarString:
			return "string"
		case ScalarDate:
			return "date"
		case ScalarDateTime:
			return "datetime"
		}
	}
	return "unknown"
}

// IsTruthy implements every Value is truthy except boolean false,
// Nil, Empty, and Blank.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNil, KindEmpty, KindBlank:
		return false
	case KindScalar:
		if v.scalarKind == ScalarBool {
			return v.b
		}
	}
	return true
}

// IsDefault reports whether v should be replaced by the `default` filter:
// true for Nil/Empty/Blank, false boolean, and empty/whitespace-only
// containers or strings.
func (v Value) IsDefault() bool {
	if !v.IsTruthy() {
		return true
	}
	return v.IsBlank()
}

// IsEmpty reports whether v is the Empty sentinel or an empty string,
// array, or object.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindArray:
		return len(v.arr) == 0
	case KindObject:
		return v.obj == nil || v.obj.Len() == 0
	case KindScalar:
		return v.scalarKind == ScalarString && v.s == ""
	}
	return false
}

// IsBlank reports whether v is Blank, Nil, false, a whitespace-only
// string, or an empty container.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindBlank, KindNil, KindEmpty:
		return true
	case KindScalar:
		if v.scalarKind == ScalarBool {
			return !v.b
		}
		if v.scalarKind == ScalarString {
			return strings.TrimSpace(v.s) == ""
		}
		return false
	case KindArray:
		return len(v.arr) == 0
	case KindObject:
		return v.obj == nil || v.obj.Len() == 0
	}
	return false
}

// AsArray returns the underlying slice for an Array Value, nil otherwise.
func (v Value) AsArray() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// AsObject returns the underlying Object for an Object Value, nil otherwise.
func (v Value) AsObject() *Object {
	if v.kind == KindObject {
		return v.obj
	}
	return nil
}

// AsString returns the raw string for a string Scalar, and ok=false
// otherwise (use ToStringCow for a total coercion).
func (v Value) AsString() (string, bool) {
	if v.kind == KindScalar && v.scalarKind == ScalarString {
		return v.s, true
	}
	return "", false
}

// ConvertIndex resolves the array-special keys "first"/"last" and negative
// indices against a container of length n. ok is false if key is not a
// recognized index form.
func ConvertIndex(key Value, n int) (idx int, ok bool) {
	if s, isStr := key.AsString(); isStr {
		switch s {
		case "first":
			return 0, true
		case "last":
			if n == 0 {
				return 0, false
			}
			return n - 1, true
		}
		return 0, false
	}
	if key.kind == KindScalar && key.scalarKind == ScalarInt {
		i := int(key.i)
		if i < 0 {
			i += n
		}
		return i, true
	}
	return 0, false
}

// ContainsKey reports whether v has an entry at key: for Array, any valid
// index (including "first"/"last"/negative); for Object, key membership.
func ContainsKey(v Value, key Value) bool {
	switch v.kind {
	case KindArray:
		idx, ok := ConvertIndex(key, len(v.arr))
		return ok && idx >= 0 && idx < len(v.arr)
	case KindObject:
		if v.obj == nil {
			return false
		}
		if s, ok := key.AsString(); ok {
			_, found := v.obj.Get(s)
			return found
		}
	}
	return false
}

// Get indexes into v by key, per array-special keys
// "first"/"last", negative indices, and object key lookup. Returns Nil,
// false if there is no such entry (the caller decides whether that is a
// read-time Nil or a write-time error).
func Get(v Value, key Value) (Value, bool) {
	switch v.kind {
	case KindArray:
		idx, ok := ConvertIndex(key, len(v.arr))
		if !ok || idx < 0 || idx >= len(v.arr) {
			return Nil(), false
		}
		return v.arr[idx], true
	case KindObject:
		if v.obj == nil {
			return Nil(), false
		}
		if s, ok := key.AsString(); ok {
			return v.obj.Get(s)
		}
	}
	return Nil(), false
}

// RenderString is the user-visible rendering of v: arrays
// concatenate their elements' renderings, objects concatenate
// key+value_render pairs in insertion order, Nil/Empty/Blank render empty.
func RenderString(v Value) string {
	switch v.kind {
	case KindNil, KindEmpty, KindBlank:
		return ""
	case KindArray:
		var b strings.Builder
		for _, e := range v.arr {
			b.WriteString(RenderString(e))
		}
		return b.String()
	case KindObject:
		if v.obj == nil {
			return ""
		}
		var b strings.Builder
		for _, k := range v.obj.keys {
			b.WriteString(k)
			ev, _ := v.obj.Get(k)
			b.WriteString(RenderString(ev))
		}
		return b.String()
	case KindScalar:
		switch v.scalarKind {
		case ScalarString:
			return v.s
		case ScalarBool:
			if v.b {
				return "true"
			}
			return "false"
		case ScalarInt:
			return fmt.Sprintf("%d", v.i)
		case ScalarFloat:
			return formatFloat(v.f)
		case ScalarDate:
			return v.t.Format("2006-01-02")
		case ScalarDateTime:
			return v.t.Format("2006-01-02 15:04:05 -0700")
		}
	}
	return ""
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// SourceString is the quoting-preserving form used in error messages and
// echo tests: strings are rendered with surrounding quotes.
func SourceString(v Value) string {
	if v.kind == KindScalar && v.scalarKind == ScalarString {
		return fmt.Sprintf("%q", v.s)
	}
	return RenderString(v)
}

// ToInteger is a total coercion: no panics, "no coercion" reported via ok.
func ToInteger(v Value) (int32, bool) {
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarInt:
			return v.i, true
		case ScalarFloat:
			return int32(v.f), true
		case ScalarBool:
			if v.b {
				return 1, true
			}
			return 0, true
		case ScalarString:
			i, err := cast.ToInt32E(strings.TrimSpace(v.s))
			if err != nil {
				return 0, false
			}
			return i, true
		}
	}
	return 0, false
}

// ToFloat is a total coercion.
func ToFloat(v Value) (float64, bool) {
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarFloat:
			return v.f, true
		case ScalarInt:
			return float64(v.i), true
		case ScalarString:
			f, err := cast.ToFloat64E(strings.TrimSpace(v.s))
			if err != nil {
				return 0, false
			}
			return f, true
		}
	}
	return 0, false
}

// ToBool is a total coercion following spec truthiness rather than
// string-literal "true"/"false" parsing, matching IsTruthy.
func ToBool(v Value) (bool, bool) {
	switch v.kind {
	case KindScalar:
		if v.scalarKind == ScalarBool {
			return v.b, true
		}
	case KindNil, KindEmpty, KindBlank:
		return false, true
	}
	return v.IsTruthy(), true
}

// ToDate is a total coercion to a date-with-offset.
func ToDate(v Value) (time.Time, bool) {
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarDate, ScalarDateTime:
			return v.t, true
		case ScalarString:
			t, err := cast.ToTimeE(v.s)
			if err != nil {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// ToDateTime is a total coercion to a datetime-with-offset.
func ToDateTime(v Value) (time.Time, bool) {
	return ToDate(v)
}

// ToStringCow is the total string coercion ("cow" because in the
// reference implementation it is copy-on-write; here it is a plain
// string since Go has no borrow checker to model that with).
func ToStringCow(v Value) string {
	return RenderString(v)
}

// Eq implements the equality table: same-kind values compare
// structurally; Nil, Empty and Blank are all mutually equal; Empty also
// equals an empty string, array or object (Nil itself is still not equal
// to an empty string); Blank also equals false, a whitespace-only string
// or an empty array/object; and a Scalar boolean compared against any
// non-Scalar value (Nil included) follows that boolean's truthiness, the
// one Ruby-ism in the table. Scalars of unrelated kinds (a boolean and an
// integer, say) are never equal.
func Eq(a, b Value) bool {
	if a.kind == KindScalar && b.kind == KindScalar {
		return scalarEq(a, b)
	}
	if a.kind == KindArray && b.kind == KindArray {
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Eq(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	if a.kind == KindObject && b.kind == KindObject {
		ak, bk := a.AsObject(), b.AsObject()
		if ak.Len() != bk.Len() {
			return false
		}
		for _, k := range ak.keys {
			av, _ := ak.Get(k)
			bv, ok := bk.Get(k)
			if !ok || !Eq(av, bv) {
				return false
			}
		}
		return true
	}

	switch {
	case a.kind == KindNil && b.kind == KindNil,
		a.kind == KindEmpty && b.kind == KindEmpty,
		a.kind == KindBlank && b.kind == KindBlank,
		a.kind == KindEmpty && b.kind == KindBlank,
		a.kind == KindBlank && b.kind == KindEmpty,
		a.kind == KindNil && b.kind == KindBlank,
		a.kind == KindBlank && b.kind == KindNil:
		return true
	}

	if a.kind == KindEmpty {
		return isEmptyOrNil(b)
	}
	if b.kind == KindEmpty {
		return isEmptyOrNil(a)
	}

	if a.kind == KindBlank {
		return b.IsBlank()
	}
	if b.kind == KindBlank {
		return a.IsBlank()
	}

	if a.kind == KindScalar && a.scalarKind == ScalarBool {
		return a.b == b.IsTruthy()
	}
	if b.kind == KindScalar && b.scalarKind == ScalarBool {
		return b.b == a.IsTruthy()
	}

	return false
}

// isEmptyOrNil is IsEmpty widened to also treat Nil as empty, matching
// the Empty sentinel's equality arm (but not IsEmpty's own semantics,
// which keep Nil distinct from Empty for every other purpose).
func isEmptyOrNil(v Value) bool {
	return v.kind == KindNil || v.IsEmpty()
}

func scalarEq(a, b Value) bool {
	if a.scalarKind == b.scalarKind {
		switch a.scalarKind {
		case ScalarInt:
			return a.i == b.i
		case ScalarFloat:
			return a.f == b.f
		case ScalarBool:
			return a.b == b.b
		case ScalarString:
			return a.s == b.s
		case ScalarDate, ScalarDateTime:
			return a.t.Equal(b.t)
		}
	}
	// numeric cross-kind comparison: integers coerce to float.
	if isNumeric(a.scalarKind) && isNumeric(b.scalarKind) {
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return af == bf
	}
	return false
}

func isNumeric(k ScalarKind) bool { return k == ScalarInt || k == ScalarFloat }

// Cmp defines ordering within numeric, boolean, string, and temporal
// variants only; ok is false for unrelated types.
func Cmp(a, b Value) (cmp int, ok bool) {
	if a.kind != KindScalar || b.kind != KindScalar {
		return 0, false
	}
	if isNumeric(a.scalarKind) && isNumeric(b.scalarKind) {
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return floatCmp(af, bf), true
	}
	if a.scalarKind == ScalarBool && b.scalarKind == ScalarBool {
		if a.b == b.b {
			return 0, true
		}
		if !a.b {
			return -1, true
		}
		return 1, true
	}
	if a.scalarKind == ScalarString && b.scalarKind == ScalarString {
		return strings.Compare(a.s, b.s), true
	}
	if (a.scalarKind == ScalarDate || a.scalarKind == ScalarDateTime) &&
		(b.scalarKind == ScalarDate || b.scalarKind == ScalarDateTime) {
		if a.t.Equal(b.t) {
			return 0, true
		}
		if a.t.Before(b.t) {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Contains implements the `contains` operator: string
// substring, object key membership, array element equality; any other
// combination is a typed error surfaced by the caller.
func Contains(haystack, needle Value) (bool, bool) {
	switch haystack.kind {
	case KindScalar:
		if haystack.scalarKind == ScalarString {
			if s, ok := needle.AsString(); ok {
				return strings.Contains(haystack.s, s), true
			}
			return strings.Contains(haystack.s, RenderString(needle)), true
		}
	case KindObject:
		if s, ok := needle.AsString(); ok {
			return ContainsKey(haystack, String(s)), true
		}
	case KindArray:
		for _, e := range haystack.arr {
			if Eq(e, needle) {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

// SortKeys is a small helper used by diagnostics that want deterministic
// key ordering distinct from an Object's natural insertion order.
func SortKeys(o *Object) []string {
	ks := o.Keys()
	sort.Strings(ks)
	return ks
}
