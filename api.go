package jsonschema

import (
	"context"

	"github.com/grbell-ms/json-everything/pointer"
	"github.com/grbell-ms/json-everything/value"
)

// Evaluate checks instance against schema and returns the raw Result tree.
// Callers that want one of the four standard projections call Format on
// the returned Result, without re-evaluating. Under OutputFlag a schema
// node stops running its remaining keywords once it is invalid, so the
// tree can be partial; the other formats build the full tree.
func Evaluate(ctx context.Context, schema *Schema, instance value.Value, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ec := newEvalContext(ctx, opts.registry(), opts)
	res, err := ec.EvaluateChild(pointer.Empty, schema, pointer.Empty, instance)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// EvaluateJSON is a convenience wrapper: compile schemaDoc with opts, then
// evaluate instance against it in one call.
func EvaluateJSON(ctx context.Context, schemaDoc value.Value, instance value.Value, opts Options) (*Result, error) {
	reg := opts.registry()
	opts.Registry = reg
	sch, err := reg.Compile(schemaDoc, opts.DefaultBaseURI, opts)
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, sch, instance, opts)
}
