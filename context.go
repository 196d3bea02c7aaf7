package jsonschema

import (
	"context"
	"fmt"

	"github.com/grbell-ms/json-everything/pointer"
	"github.com/grbell-ms/json-everything/value"
)

// Frame is one entry of the dynamic evaluation-context stack: a
// schema paired with the instance location it is being checked against,
// the path taken through the schema to get here, and the base URI/
// vocabulary set/dynamic-scope bookkeeping that travels with it.
type Frame struct {
	Schema           *Schema
	Instance         value.Value
	InstanceLocation pointer.Pointer
	EvaluationPath   pointer.Pointer
	BaseURI          string
	VocabSet         map[string]bool
	DirectRef        bool
	NewDynamicScope  bool

	Result  *Result
	invalid bool
}

// EvalContext is the live, mutable state threaded through one top-level
// Evaluate call: the frame stack, the registry used to resolve references,
// cycle-guard bookkeeping, and a context.Context for cooperative
// cancellation (cancellation never leaks into the result tree, it only
// stops further dispatch).
type EvalContext struct {
	ctx  context.Context
	reg  *Registry
	opts Options

	frames []*Frame
	active map[string]pointer.Pointer // schema identity -> instance location, for cycle detection
}

func newEvalContext(ctx context.Context, reg *Registry, opts Options) *EvalContext {
	return &EvalContext{ctx: ctx, reg: reg, opts: opts, active: map[string]pointer.Pointer{}}
}

func (ec *EvalContext) current() *Frame {
	return ec.frames[len(ec.frames)-1]
}

func schemaIdentity(s *Schema) string {
	return fmt.Sprintf("%p", s)
}

// pushInstance enters sch against a (possibly new) instance location,
// allocating and linking this frame's Result node into the parent's
// Details immediately (no late merging).
func (ec *EvalContext) pushInstance(evalPath pointer.Pointer, sch *Schema, instanceLoc pointer.Pointer, instance value.Value, baseURI string) *Frame {
	parentVocab := map[string]bool{}
	if len(ec.frames) > 0 {
		for k, v := range ec.current().VocabSet {
			parentVocab[k] = v
		}
	}
	if sch != nil && sch.VocabSet != nil {
		parentVocab = sch.VocabSet
	}
	if baseURI == "" && len(ec.frames) > 0 {
		baseURI = ec.current().BaseURI
	}
	if sch != nil && sch.BaseURI != "" {
		baseURI = sch.BaseURI
	}

	schemaLoc := baseURI + "#" + func() string {
		if sch != nil {
			return sch.Location.String()
		}
		return evalPath.String()
	}()

	f := &Frame{
		Schema:           sch,
		Instance:         instance,
		InstanceLocation: instanceLoc,
		EvaluationPath:   evalPath,
		BaseURI:          baseURI,
		VocabSet:         parentVocab,
		Result:           newResult(evalPath, instanceLoc, schemaLoc),
	}
	if len(ec.frames) > 0 {
		parent := ec.current()
		parent.Result.Details = append(parent.Result.Details, f.Result)
	}
	ec.frames = append(ec.frames, f)
	return f
}

// pop finalizes the current frame's Result.Valid from its accumulated
// invalid flag and removes it from the stack, returning it.
func (ec *EvalContext) pop() *Result {
	f := ec.current()
	f.Result.Valid = !f.invalid
	ec.frames = ec.frames[:len(ec.frames)-1]
	return f.Result
}

// Fail records a leaf validation failure on the current frame and marks it
// invalid. Use for assertions and for an applicator's own keyword-level
// failures (oneOf's match count, contains' empty match set).
func (ec *EvalContext) Fail(keyword, message string, params map[string]any) {
	f := ec.current()
	f.invalid = true
	f.Result.Errors = append(f.Result.Errors, ResultError{
		Keyword:          keyword,
		Message:          message,
		EvaluationPath:   f.EvaluationPath.String(),
		InstanceLocation: f.InstanceLocation.String(),
		SchemaLocation:   f.Result.SchemaLocation,
		Params:           params,
	})
}

// Invalidate marks the current frame invalid without adding a message,
// for applicators whose invalidity is fully explained by a child's own
// (already-recorded) errors.
func (ec *EvalContext) Invalidate() {
	ec.current().invalid = true
}

// Annotate publishes a value under name on the current frame, visible to
// sibling and ancestor keywords that read it via Result.Annotation. It
// stores v unconditionally: an annotation from a keyword that then fails
// (properties with an invalid member, contains with no match) stays
// visible to the keywords that run after it.
func (ec *EvalContext) Annotate(name string, v any) {
	ec.current().Result.Annotations[name] = v
}

// Instance, InstanceLocation, EvaluationPath, BaseURI, and Schema expose
// the current frame's fields to keyword evaluators without letting them
// mutate the frame stack directly.
func (ec *EvalContext) Instance() value.Value { return ec.current().Instance }
func (ec *EvalContext) InstanceLocation() pointer.Pointer { return ec.current().InstanceLocation }
func (ec *EvalContext) EvaluationPath() pointer.Pointer { return ec.current().EvaluationPath }
func (ec *EvalContext) BaseURI() string { return ec.current().BaseURI }
func (ec *EvalContext) CurrentSchema() *Schema { return ec.current().Schema }
func (ec *EvalContext) Options() Options { return ec.opts }
func (ec *EvalContext) Registry() *Registry { return ec.reg }
func (ec *EvalContext) Context() context.Context { return ec.ctx }

// scopeResources returns the dynamic scope's resources, outermost first,
// deduplicating consecutive repeats (several frames inside the same
// resource collapse to one entry). Used by $dynamicRef/$recursiveRef to
// search for a matching dynamic anchor starting from the outside in.
func (ec *EvalContext) scopeResources() []*resource {
	var out []*resource
	var last *resource
	for _, f := range ec.frames {
		if f.Schema == nil || f.Schema.resource == nil {
			continue
		}
		if f.Schema.resource != last {
			out = append(out, f.Schema.resource)
			last = f.Schema.resource
		}
	}
	return out
}

// Cancelled reports whether the ambient context.Context has been
// cancelled; the dispatcher polls this between keywords and between
// fanned-out subschema evaluations.
func (ec *EvalContext) Cancelled() bool {
	select {
	case <-ec.ctx.Done():
		return true
	default:
		return false
	}
}

// EvaluateChild pushes a new frame for sch against instanceLoc/instance,
// runs its dispatch loop to completion, and pops it, returning the
// finished Result. This is the primitive every applicator uses to recurse
// (properties, items, allOf, $ref, ...); baseURI="" inherits the parent's.
func (ec *EvalContext) EvaluateChild(evalPath pointer.Pointer, sch *Schema, instanceLoc pointer.Pointer, instance value.Value) (*Result, error) {
	if ec.Cancelled() {
		return nil, ec.ctx.Err()
	}
	ec.pushInstance(evalPath, sch, instanceLoc, instance, "")
	err := ec.dispatch()
	res := ec.pop()
	return res, err
}

// EvaluateRef is EvaluateChild specialized for $ref/$dynamicRef/
// $recursiveRef: the instance and its location stay the same as the
// current frame's, only the schema and base URI change, and the frame's
// DirectRef flag is set (no dispatch or registry logic reads that flag).
// Guards against reference cycles that revisit
// the same schema identity at the same instance location without
// descending into new structure.
func (ec *EvalContext) EvaluateRef(evalPath pointer.Pointer, sch *Schema) (*Result, error) {
	key := schemaIdentity(sch)
	loc := ec.current().InstanceLocation
	if prior, seen := ec.active[key]; seen && pointer.Equal(prior, loc) {
		return nil, &ReferenceCycleError{SchemaURI: sch.BaseURI + "#" + sch.Location.String(), InstanceLocation: loc.String()}
	}
	ec.active[key] = loc
	defer delete(ec.active, key)

	if ec.Cancelled() {
		return nil, ec.ctx.Err()
	}
	f := ec.pushInstance(evalPath, sch, ec.current().InstanceLocation, ec.current().Instance, "")
	f.DirectRef = true
	err := ec.dispatch()
	res := ec.pop()
	return res, err
}
