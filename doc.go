// Package jsonschema implements a JSON Schema evaluator spanning Draft 6,
// Draft 7, 2019-09, 2020-12, and a "next" dialect.
//
// The package is organized around the evaluation engine: schema/keyword
// modeling (schema.go, keyword.go, draft.go, vocabulary.go), a schema
// registry with anchor and dynamic-scope tracking (registry.go), a
// reference resolver for $ref/$dynamicRef/$recursiveRef (resolve.go), a
// dynamic evaluation-context stack (context.go), the keyword dispatcher
// (dispatch.go), the result tree (result.go), and the output formatter
// (output.go). Individual keywords plug into the dispatcher through the
// Keyword contract (keyword.go) and live in keywords_*.go.
//
// Deserializing schema/instance text into the value.Value tree is treated
// as a separate, pure structural decode (see package decode) and is not
// part of the evaluation engine itself.
//
// Typical usage:
//
//	reg := jsonschema.NewRegistry(jsonschema.DefaultLoader())
//	opts := jsonschema.DefaultOptions()
//	opts.Registry = reg
//	sch, err := jsonschema.Compile(reg, schemaValue, "", opts)
//	res, err := jsonschema.Evaluate(ctx, sch, instanceValue, opts)
package jsonschema
