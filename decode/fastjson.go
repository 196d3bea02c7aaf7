package decode

import (
	"github.com/grbell-ms/json-everything/value"
	"github.com/valyala/fastjson"
)

type fastjsonDriver struct{}

func (fastjsonDriver) Name() string { return "fastjson" }

func (fastjsonDriver) Decode(data []byte) (value.Value, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return value.Value{}, err
	}
	return fastjsonToValue(v)
}

// fastjsonToValue walks a parsed *fastjson.Value tree directly, rather
// than routing through Go's any/map[string]any, so the conversion stays
// on the fast path fastjson exists for.
func fastjsonToValue(v *fastjson.Value) (value.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return value.Null, nil
	case fastjson.TypeTrue:
		return value.Bool(true), nil
	case fastjson.TypeFalse:
		return value.Bool(false), nil
	case fastjson.TypeNumber:
		nv, ok := value.ParseNumber(v.String())
		if !ok {
			return value.Value{}, errInvalidNumber(v.String())
		}
		return nv, nil
	case fastjson.TypeString:
		return value.String(string(v.GetStringBytes())), nil
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return value.Value{}, err
		}
		items := make([]value.Value, 0, len(arr))
		for _, e := range arr {
			cv, err := fastjsonToValue(e)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, cv)
		}
		return value.Array(items...), nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return value.Value{}, err
		}
		b := value.NewObject()
		var visitErr error
		obj.Visit(func(key []byte, mv *fastjson.Value) {
			if visitErr != nil {
				return
			}
			cv, err := fastjsonToValue(mv)
			if err != nil {
				visitErr = err
				return
			}
			b.Set(string(key), cv)
		})
		if visitErr != nil {
			return value.Value{}, visitErr
		}
		return b.Build(), nil
	default:
		return value.Value{}, errInvalidNumber("unknown fastjson value type")
	}
}

type decodeError string

func (e decodeError) Error() string { return string(e) }

func errInvalidNumber(lexeme string) error {
	return decodeError("decode: fastjson: invalid number literal " + lexeme)
}

func init() { register(fastjsonDriver{}) }
