package decode

import (
	"bytes"

	"github.com/bcicen/jstream"
	"github.com/grbell-ms/json-everything/value"
)

// jstreamDriver decodes through bcicen/jstream's channel-based streaming
// parser at depth 0, so the whole document arrives as a single emitted
// value built from already-materialized Go values; useful as the one
// driver in this set whose decode loop is naturally interruptible (the
// channel can be abandoned mid-stream) rather than a single blocking call.
type jstreamDriver struct{}

func (jstreamDriver) Name() string { return "jstream" }

func (jstreamDriver) Decode(data []byte) (value.Value, error) {
	dec := jstream.NewDecoder(bytes.NewReader(data), 0)
	for mv := range dec.Stream() {
		if mv.Err != nil {
			return value.Value{}, mv.Err
		}
		return value.FromAny(mv.Value)
	}
	if err := dec.Err(); err != nil {
		return value.Value{}, err
	}
	return value.Value{}, decodeError("decode: jstream: empty input")
}

func init() { register(jstreamDriver{}) }
