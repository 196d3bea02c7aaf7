// Package decode provides pluggable structural decoders that turn raw
// schema/instance bytes into a value.Value tree. Decoding is a pure
// structural step: every driver here ultimately agrees on the same
// value.Value shape, and callers choose a driver by throughput/footprint
// trade-off rather than by capability.
package decode

import "github.com/grbell-ms/json-everything/value"

// Driver decodes a single self-contained document (JSON or, for the YAML
// driver, YAML) into a value.Value.
type Driver interface {
	Name() string
	Decode(data []byte) (value.Value, error)
}

var drivers = map[string]Driver{}

func register(d Driver) {
	drivers[d.Name()] = d
}

// ByName looks up a registered driver (see the per-driver files in this
// package for the names: "goccy", "sonic", "jsoniter", "fastjson",
// "jscan", "jstream", "yaml").
func ByName(name string) (Driver, bool) {
	d, ok := drivers[name]
	return d, ok
}

// Default returns the engine's default JSON driver.
func Default() Driver {
	return drivers["goccy"]
}

// Names lists every registered driver name.
func Names() []string {
	names := make([]string, 0, len(drivers))
	for n := range drivers {
		names = append(names, n)
	}
	return names
}
