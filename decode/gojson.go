package decode

import (
	"bytes"

	gojson "github.com/goccy/go-json"
	"github.com/grbell-ms/json-everything/value"
)

type gojsonDriver struct{}

func (gojsonDriver) Name() string { return "goccy" }

// Decode walks go-json's token stream directly instead of decoding into
// any/map[string]any first: a Go map can't recover an object's insertion
// order, and this is the default driver, so routing it through FromAny
// would silently drop the ordering the value package otherwise preserves
// end to end (see fastjson.go, which walks its own typed AST for the same
// reason).
func (gojsonDriver) Decode(data []byte) (value.Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := gojsonDecodeValue(dec)
	if err != nil {
		return value.Value{}, err
	}
	return v, nil
}

func gojsonDecodeValue(dec *gojson.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return gojsonTokenToValue(dec, tok)
}

func gojsonTokenToValue(dec *gojson.Decoder, tok gojson.Token) (value.Value, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			b := value.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := gojsonDecodeValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				b.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return value.Value{}, err
			}
			return b.Build(), nil
		case '[':
			var items []value.Value
			for dec.More() {
				val, err := gojsonDecodeValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return value.Value{}, err
			}
			return value.Array(items...), nil
		}
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(t), nil
	case gojson.Number:
		nv, ok := value.ParseNumber(string(t))
		if !ok {
			return value.Value{}, errInvalidNumber(string(t))
		}
		return nv, nil
	case string:
		return value.String(t), nil
	}
	return value.Value{}, decodeError("decode: goccy: unexpected token")
}

func init() { register(gojsonDriver{}) }
