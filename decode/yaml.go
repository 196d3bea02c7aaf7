package decode

import (
	"github.com/grbell-ms/json-everything/value"
	yaml "gopkg.in/yaml.v3"
)

type yamlDriver struct{}

func (yamlDriver) Name() string { return "yaml" }

func (yamlDriver) Decode(data []byte) (value.Value, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return value.Value{}, err
	}
	return value.FromAny(v)
}

func init() { register(yamlDriver{}) }
