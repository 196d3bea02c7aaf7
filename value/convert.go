package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FromAny converts a generic Go value (as produced by encoding/json-style
// decoders, typically map[string]any / []any / json.Number / string / bool
// / nil) into a Value tree. Object key order is not recoverable from a Go
// map, so FromAny sorts keys lexicographically; callers that need
// insertion-order preservation should decode straight into a Value via the
// decode package instead of going through map[string]any.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		nv, ok := ParseNumber(string(t))
		if !ok {
			return Value{}, fmt.Errorf("value: invalid number literal %q", string(t))
		}
		return nv, nil
	case float64:
		return Float64(t), nil
	case int:
		return Int64(int64(t)), nil
	case int64:
		return Int64(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, ev)
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewObject()
		for _, k := range keys {
			ev, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			b.Set(k, ev)
		}
		return b.Build(), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported Go type %T", v)
	}
}

// ToAny converts a Value tree back into plain Go values (map[string]any,
// []any, json.Number, string, bool, nil), the inverse of FromAny modulo key
// order, which map[string]any cannot preserve.
func ToAny(v Value) any {
	switch v.kind {
	case KindNull, KindAbsent:
		return nil
	case KindBool:
		b, _ := v.Bool()
		return b
	case KindNumber:
		return json.Number(v.num.lexeme)
	case KindString:
		s, _ := v.String()
		return s
	case KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = ToAny(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.NumProperties())
		for _, k := range v.Keys() {
			ev, _ := v.Get(k)
			out[k] = ToAny(ev)
		}
		return out
	default:
		return nil
	}
}
