// Package middleware validates HTTP request bodies against a compiled
// JSON Schema, framework-agnostically; the gin and echo adapters built on
// top of it only need to plug in how their framework reads the request
// body and writes an error response.
package middleware

import (
	"context"
	"io"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/decode"
)

type ctxKeyResult struct{}

// ContextWithResult attaches a validation Result to ctx, for handlers that
// want to inspect annotations after a middleware pass let the request
// through.
func ContextWithResult(ctx context.Context, res *jsonschema.Result) context.Context {
	return context.WithValue(ctx, ctxKeyResult{}, res)
}

// ResultFromContext retrieves the Result attached by ContextWithResult.
func ResultFromContext(ctx context.Context) (*jsonschema.Result, bool) {
	v, ok := ctx.Value(ctxKeyResult{}).(*jsonschema.Result)
	return v, ok
}

// DefaultOptions returns the recommended Options for validating HTTP JSON
// bodies: detailed output (enough to build a field-level error payload
// without the full verbose tree) and strict custom-keyword passthrough.
func DefaultOptions() jsonschema.Options {
	opts := jsonschema.DefaultOptions()
	opts.OutputFormat = jsonschema.OutputDetailed
	return opts
}

// ValidateBody decodes body with driver (decode.Default() if nil) and
// evaluates it against schema, returning the Result regardless of
// validity; callers decide what counts as a request failure.
func ValidateBody(ctx context.Context, schema *jsonschema.Schema, body io.Reader, opts jsonschema.Options, driver decode.Driver) (*jsonschema.Result, error) {
	if driver == nil {
		driver = decode.Default()
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	instance, err := driver.Decode(raw)
	if err != nil {
		return nil, err
	}
	return jsonschema.Evaluate(ctx, schema, instance, opts)
}

// ErrorPayload shapes a failed Result's Output into a JSON response body.
func ErrorPayload(out *jsonschema.Output) map[string]any {
	return map[string]any{"valid": out.Valid, "errors": out.Errors}
}
