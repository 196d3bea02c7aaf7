package jsonschema

import "sync"

// dispatch runs every keyword of the current frame's schema in dependency/
// priority order, short-circuiting under flag output once the
// frame is already invalid (flag output never reads annotations, so there
// is nothing further for sibling keywords to contribute).
func (ec *EvalContext) dispatch() error {
	f := ec.current()

	if f.Schema == nil {
		return nil
	}
	if f.Schema.Boolean != nil {
		if !*f.Schema.Boolean {
			ec.Fail("", "boolean schema false never validates", nil)
		}
		return nil
	}

	if ec.opts.Concurrency && ec.canFanOut(f) {
		return ec.dispatchConcurrent(f)
	}
	return ec.dispatchSequential(f)
}

func (ec *EvalContext) dispatchSequential(f *Frame) error {
	for _, ki := range f.Schema.Keywords {
		if ec.Cancelled() {
			return ec.ctx.Err()
		}
		if ec.opts.OutputFormat == OutputFlag && f.invalid {
			break
		}
		if err := ki.Def.Eval(ec, ki); err != nil {
			return err
		}
	}
	return nil
}

// canFanOut reports whether the current frame's keyword set is safe to run
// concurrently: concurrency is only offered when output isn't
// flag-sensitive (so dispatch order doesn't matter for short-circuiting),
// no keyword declares an annotation dependency on another keyword of this
// same frame (so there is no ordering requirement to violate), and no
// keyword is one of the three reference forms. $ref/$dynamicRef/
// $recursiveRef guard against cycles through EvalContext.active, which is
// per-EvalContext state; a forked goroutine's sub-context starts with an
// empty active map that the parent never sees, so a self-referencing
// schema evaluated concurrently would never trip ReferenceCycleError and
// would instead recurse until the stack overflows. Keeping reference
// keywords on the sequential path preserves the shared active map rather
// than trying to share one mutable map across goroutines.
func (ec *EvalContext) canFanOut(f *Frame) bool {
	if ec.opts.OutputFormat == OutputFlag {
		return false
	}
	if len(f.Schema.Keywords) < 2 {
		return false
	}
	for _, ki := range f.Schema.Keywords {
		if len(ki.Def.AnnotationDeps) > 0 {
			return false
		}
		switch ki.Def.Name {
		case "$ref", "$dynamicRef", "$recursiveRef":
			return false
		}
	}
	return true
}

// dispatchConcurrent evaluates every keyword's subschema fan-out
// (Children/ChildrenNamed) is left to each keyword's own Eval, which is
// free to call EvaluateChild sequentially; at this level concurrency means
// running independent keywords of one frame in parallel goroutines, each
// keyword getting its own EvalContext that shares the registry and
// options but keeps a private frame stack rooted at a synthetic copy of
// the current frame, merged back in deterministic keyword order.
func (ec *EvalContext) dispatchConcurrent(f *Frame) error {
	type outcome struct {
		res *Result
		err error
	}
	outcomes := make([]outcome, len(f.Schema.Keywords))
	var wg sync.WaitGroup
	for i, ki := range f.Schema.Keywords {
		wg.Add(1)
		go func(i int, ki *KeywordInstance) {
			defer wg.Done()
			sub := newEvalContext(ec.ctx, ec.reg, ec.opts)
			sub.frames = append(sub.frames, &Frame{
				Schema:           f.Schema,
				Instance:         f.Instance,
				InstanceLocation: f.InstanceLocation,
				EvaluationPath:   f.EvaluationPath,
				BaseURI:          f.BaseURI,
				VocabSet:         f.VocabSet,
				Result:           newResult(f.EvaluationPath, f.InstanceLocation, f.Result.SchemaLocation),
			})
			err := ki.Def.Eval(sub, ki)
			leaf := sub.current()
			leaf.Result.Valid = !leaf.invalid
			outcomes[i] = outcome{res: leaf.Result, err: err}
		}(i, ki)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			return o.err
		}
		if !o.res.Valid {
			f.invalid = true
		}
		for k, v := range o.res.Annotations {
			f.Result.Annotations[k] = v
		}
		f.Result.Errors = append(f.Result.Errors, o.res.Errors...)
		f.Result.Details = append(f.Result.Details, o.res.Details...)
	}
	return nil
}
