package decode

import (
	"github.com/grbell-ms/json-everything/value"
	"github.com/romshark/jscan"
)

// jscanDriver uses jscan purely as a fast pre-validation pass: jscan's
// single-allocation scanner rejects malformed documents far cheaper than a
// full decode would, so callers pay for the expensive tree-building
// decode only once the bytes are known-valid JSON.
type jscanDriver struct{}

func (jscanDriver) Name() string { return "jscan" }

func (jscanDriver) Decode(data []byte) (value.Value, error) {
	if !jscan.Valid(string(data)) {
		return value.Value{}, decodeError("decode: jscan: invalid JSON")
	}
	return Default().Decode(data)
}

func init() { register(jscanDriver{}) }
