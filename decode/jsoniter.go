package decode

import (
	"github.com/grbell-ms/json-everything/value"
	jsoniter "github.com/json-iterator/go"
)

type jsoniterDriver struct{}

func (jsoniterDriver) Name() string { return "jsoniter" }

func (jsoniterDriver) Decode(data []byte) (value.Value, error) {
	var v any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &v); err != nil {
		return value.Value{}, err
	}
	return value.FromAny(v)
}

func init() { register(jsoniterDriver{}) }
