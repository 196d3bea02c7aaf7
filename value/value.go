// Package value defines the immutable JSON value model shared by the
// evaluator: an algebraic tag for null/bool/number/string/array/object,
// stable child ordering, and structural equality.
package value

import (
	"math"
	"math/big"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindAbsent is not a JSON kind; it is the sentinel for "property not
	// present", kept distinct from KindNull so the two never compare equal.
	KindAbsent
)

// Absent is the sentinel for a missing member. It is never equal to Null.
var Absent = Value{kind: KindAbsent}

// Null is the JSON null value.
var Null = Value{kind: KindNull}

// Value is an immutable tagged union over the JSON data model.
//
// Numbers preserve their original decimal lexeme, plus an exact big.Rat
// whenever the lexeme parses as one (and always for Int64), so that
// keywords such as multipleOf can apply decimal semantics instead of
// binary-float semantics.
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []Value
	obj  *object
}

// Number carries both a float64 fast-path and, when available, an exact
// rational representation of the original lexeme.
type Number struct {
	f64    float64
	exact  *big.Rat
	lexeme string
}

// object preserves insertion order while offering O(1) lookup.
type object struct {
	keys   []string
	lookup map[string]int
	vals   []Value
}

func newObject(cap int) *object {
	return &object{lookup: make(map[string]int, cap)}
}

func (o *object) set(k string, v Value) {
	if i, ok := o.lookup[k]; ok {
		o.vals[i] = v
		return
	}
	o.lookup[k] = len(o.keys)
	o.keys = append(o.keys, k)
	o.vals = append(o.vals, v)
}

func (o *object) get(k string) (Value, bool) {
	i, ok := o.lookup[k]
	if !ok {
		return Absent, false
	}
	return o.vals[i], true
}

// Constructors.

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, str: s} }

// Float64 builds a Number value from a float64.
func Float64(f float64) Value {
	return Value{kind: KindNumber, num: Number{f64: f, lexeme: strconv.FormatFloat(f, 'g', -1, 64)}}
}

// Int64 builds an exact integer Number value.
func Int64(i int64) Value {
	r := new(big.Rat).SetInt64(i)
	return Value{kind: KindNumber, num: Number{f64: float64(i), exact: r, lexeme: strconv.FormatInt(i, 10)}}
}

// ParseNumber builds a Number value from its original JSON lexeme, keeping
// an exact big.Rat representation so decimal comparisons (multipleOf,
// integer-ness of 1.0) don't suffer float64 rounding.
func ParseNumber(lexeme string) (Value, bool) {
	r, ok := new(big.Rat).SetString(lexeme)
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Value{}, false
	}
	n := Number{f64: f, lexeme: lexeme}
	if ok {
		n.exact = r
	}
	return Value{kind: KindNumber, num: n}, true
}

// Array builds an array Value from a slice; the slice is copied.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// ObjectBuilder accumulates object members in insertion order.
type ObjectBuilder struct{ o *object }

// NewObject starts building an object.
func NewObject() *ObjectBuilder { return &ObjectBuilder{o: newObject(8)} }

// Set adds or overwrites a member, preserving its original insertion
// position on overwrite.
func (b *ObjectBuilder) Set(key string, v Value) *ObjectBuilder {
	b.o.set(key, v)
	return b
}

// Build finalizes the object.
func (b *ObjectBuilder) Build() Value { return Value{kind: KindObject, obj: b.o} }

// Accessors.

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }
func (v Value) IsNull() bool   { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num.f64, true
}

// Rat returns the exact rational value of a number, when known exactly.
func (v Value) Rat() (*big.Rat, bool) {
	if v.kind != KindNumber || v.num.exact == nil {
		return nil, false
	}
	return v.num.exact, true
}

func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Len returns the array length (0 if not an array).
func (v Value) Len() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.arr)
}

// Index returns the array element at i, or Absent if out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Absent
	}
	return v.arr[i]
}

// Items returns the array elements; callers must not mutate the result.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Keys returns object member names in insertion order (nil if not an object).
func (v Value) Keys() []string {
	if v.kind != KindObject || v.obj == nil {
		return nil
	}
	return v.obj.keys
}

// NumProperties returns the number of object members.
func (v Value) NumProperties() int {
	if v.kind != KindObject || v.obj == nil {
		return 0
	}
	return len(v.obj.keys)
}

// Get returns a named member of an object, or Absent/false when the object
// has no such member (or v is not an object). This is the only place where
// "missing" is distinguished from "present with null": a present-with-null
// member returns (Null, true).
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Absent, false
	}
	return v.obj.get(key)
}

// IsInteger reports whether a number is mathematically an integer
// (e.g. 1.0 is an integer; 1.5 is not), independent of the JSON lexeme used.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber {
		return false
	}
	if v.num.exact != nil {
		return v.num.exact.IsInt()
	}
	f := v.num.f64
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

// TypeName returns the JSON Schema "type" keyword name for v's runtime kind,
// with "integer" taking precedence over "number" when applicable handled by
// the caller (TypeName itself always reports "number" for numeric kinds;
// callers check IsInteger separately, matching the "type":"integer" vs
// "number" distinction used by the validation keywords).
func (v Value) TypeName() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "absent"
	}
}

// Equal implements structural equality used by const/enum/uniqueItems:
// numbers compare by mathematical value, object member order is ignored,
// array element order matters. Absent never equals anything, including Null.
func Equal(a, b Value) bool {
	if a.kind == KindAbsent || b.kind == KindAbsent {
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return numbersEqual(a.num, b.num)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.NumProperties() != b.NumProperties() {
			return false
		}
		for _, k := range a.Keys() {
			av, _ := a.Get(k)
			bv, ok := b.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b Number) bool {
	if a.exact != nil && b.exact != nil {
		return a.exact.Cmp(b.exact) == 0
	}
	return a.f64 == b.f64
}

// SortedKeys returns v's keys in lexicographic order, for callers that need
// member iteration independent of insertion order.
func (v Value) SortedKeys() []string {
	ks := append([]string(nil), v.Keys()...)
	sort.Strings(ks)
	return ks
}
