package jsonschema

import "github.com/grbell-ms/json-everything/value"

// Each built-in Draft carries a minimal meta-schema describing the shape
// of a JSON Schema document itself (a boolean or an object whose
// recognized members have the expected kinds). At package init every
// built-in Draft compiles its own meta-schema and evaluates the
// meta-schema document against itself, the same self-hosting check
// santhosh-tekuri/jsonschema's draft.go runs via MustCompile(d.url):
// catching a broken subschema-position table or vocabulary wiring
// before any caller ever touches the engine.
func trueSchema() value.Value { return value.Bool(true) }

func buildMetaSchema(d *Draft) value.Value {
	b := value.NewObject()
	b.Set("type", value.Array(value.String("boolean"), value.String("object")))

	props := value.NewObject()
	props.Set("type", trueSchema())
	props.Set("enum", trueSchema())
	props.Set("const", trueSchema())
	props.Set("$ref", obj1("type", value.String("string")))
	props.Set("$id", obj1("type", value.String("string")))
	props.Set("$schema", obj1("type", value.String("string")))
	props.Set("$comment", obj1("type", value.String("string")))
	props.Set("title", obj1("type", value.String("string")))
	props.Set("description", obj1("type", value.String("string")))
	props.Set("required", obj1("type", value.String("array")))
	props.Set("properties", obj1("type", value.String("object")))
	props.Set("patternProperties", obj1("type", value.String("object")))
	props.Set("items", trueSchema())
	props.Set("allOf", obj1("type", value.String("array")))
	props.Set("anyOf", obj1("type", value.String("array")))
	props.Set("oneOf", obj1("type", value.String("array")))
	props.Set("not", trueSchema())
	props.Set("$defs", obj1("type", value.String("object")))
	props.Set("definitions", obj1("type", value.String("object")))
	if d.Version >= 2019 {
		props.Set("$vocabulary", obj1("type", value.String("object")))
		props.Set("$anchor", obj1("type", value.String("string")))
		props.Set("$dynamicRef", obj1("type", value.String("string")))
		props.Set("$dynamicAnchor", obj1("type", value.String("string")))
	}
	b.Set("properties", props.Build())

	return b.Build()
}

func obj1(key string, v value.Value) value.Value {
	return value.NewObject().Set(key, v).Build()
}

// metaSchemaSelfCheckErr records the first self-hosting failure found
// while compiling the built-in drafts' meta-schemas, for callers that
// want to confirm the engine passed its own sanity check without risking
// a panic at import time (see SelfCheck).
var metaSchemaSelfCheckErr error

func init() {
	reg := NewRegistry(nil)
	opts := DefaultOptions()
	opts.Registry = reg

	for _, d := range allDrafts {
		opts.EvaluateAs = d
		doc := buildMetaSchema(d)
		sch, err := reg.Compile(doc, d.URL+"/meta-self-check", opts)
		if err != nil {
			metaSchemaSelfCheckErr = err
			return
		}
		res, err := Evaluate(nil, sch, doc, opts)
		if err != nil {
			metaSchemaSelfCheckErr = err
			return
		}
		if !res.Valid {
			metaSchemaSelfCheckErr = &MalformedSchemaError{
				Location: d.URL,
				Reason:   "built-in meta-schema does not validate against itself",
			}
			return
		}
	}
}

// SelfCheck reports whether every built-in Draft's meta-schema compiled
// and validated against itself at package init. Callers embedding this
// engine in a larger binary can call this once at startup to fail fast
// rather than discover a broken dialect wiring mid-request.
func SelfCheck() error { return metaSchemaSelfCheckErr }
