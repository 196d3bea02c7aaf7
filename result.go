package jsonschema

import "github.com/grbell-ms/json-everything/pointer"

// ResultError is one leaf validation failure, located on all three axes:
// where evaluation was in the schema, where it was in the instance, and
// the absolute schema identity that produced it.
type ResultError struct {
	Keyword          string
	Message          string
	EvaluationPath   string
	InstanceLocation string
	SchemaLocation   string
	Params           map[string]any
}

// Result is one node of the evaluation result tree: one per pushed frame,
// linked into its parent's Details at push time and finalized (Valid set)
// at pop time. Annotations and Errors belong to this node specifically;
// nothing here is inherited from or propagated to ancestors automatically,
// aggregation is each keyword's job, not the tree's.
type Result struct {
	Valid            bool
	EvaluationPath   string
	InstanceLocation string
	SchemaLocation   string

	Errors      []ResultError
	Annotations map[string]any
	Details     []*Result
}

func newResult(evalPath, instanceLoc pointer.Pointer, schemaLoc string) *Result {
	return &Result{
		EvaluationPath:   evalPath.String(),
		InstanceLocation: instanceLoc.String(),
		SchemaLocation:   schemaLoc,
		Annotations:      map[string]any{},
	}
}

// Annotation looks up a value a sibling or descendant keyword published on
// this node, per the cross-keyword annotation protocol. ok is
// false if no keyword at this node published under that name.
func (r *Result) Annotation(name string) (v any, ok bool) {
	v, ok = r.Annotations[name]
	return v, ok
}
