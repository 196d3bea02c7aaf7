package decode

import (
	"github.com/bytedance/sonic"
	"github.com/grbell-ms/json-everything/value"
)

type sonicDriver struct{}

func (sonicDriver) Name() string { return "sonic" }

func (sonicDriver) Decode(data []byte) (value.Value, error) {
	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return value.Value{}, err
	}
	return value.FromAny(v)
}

func init() { register(sonicDriver{}) }
