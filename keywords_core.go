package jsonschema

// Core/locator keywords: identifiers, anchors, vocabulary declarations and
// the three reference forms. Everything here that only affects schema
// identity ($id, $anchor, $dynamicAnchor, $recursiveAnchor, $schema,
// $vocabulary) has already done its work at compile time (schema.go); at
// evaluation time these are no-ops so the dispatcher can still schedule
// them uniformly. $defs/definitions are pure containers, never applied to
// the instance directly. The three $ref forms are where evaluation-time
// work actually happens.

func init() {
	noop := func(name string, annotationDeps ...string) {
		RegisterKeyword(&KeywordDef{
			Name:           name,
			Kind:           KindLocator,
			AnnotationDeps: annotationDeps,
			Eval:           func(ec *EvalContext, ki *KeywordInstance) error { return nil },
		})
	}
	noop("$id")
	noop("id")
	noop("$anchor")
	noop("$dynamicAnchor")
	noop("$recursiveAnchor")
	noop("$schema")
	noop("$vocabulary")
	noop("$defs")
	noop("definitions")
	RegisterKeyword(&KeywordDef{
		Name: "$comment",
		Kind: KindAnnotation,
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			if s, ok := ki.Raw.String(); ok {
				ec.Options().logger().Debugf("$comment: %s", s)
			}
			return nil
		},
	})

	RegisterKeyword(&KeywordDef{
		Name:     "$ref",
		Kind:     KindApplicator,
		Priority: -100, // $ref runs before sibling keywords (applies whether or not siblings are even honored pre-2019).
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			refValue, ok := ki.Raw.String()
			if !ok {
				return &MalformedSchemaError{Location: ec.EvaluationPath().String(), Reason: "$ref must be a string"}
			}
			target, err := resolveStaticRef(ec, refValue)
			if err != nil {
				return err
			}
			res, err := ec.EvaluateRef(ec.EvaluationPath().Combine("$ref"), target)
			if err != nil {
				return err
			}
			if !res.Valid {
				ec.Invalidate()
			}
			mergeEvaluated(ec, res)
			return nil
		},
	})

	RegisterKeyword(&KeywordDef{
		Name:     "$dynamicRef",
		Kind:     KindApplicator,
		Priority: -100,
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			refValue, ok := ki.Raw.String()
			if !ok {
				return &MalformedSchemaError{Location: ec.EvaluationPath().String(), Reason: "$dynamicRef must be a string"}
			}
			target, err := resolveDynamicRef(ec, refValue)
			if err != nil {
				return err
			}
			res, err := ec.EvaluateRef(ec.EvaluationPath().Combine("$dynamicRef"), target)
			if err != nil {
				return err
			}
			if !res.Valid {
				ec.Invalidate()
			}
			mergeEvaluated(ec, res)
			return nil
		},
	})

	RegisterKeyword(&KeywordDef{
		Name:     "$recursiveRef",
		Kind:     KindApplicator,
		Priority: -100,
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			target, err := resolveRecursiveRef(ec)
			if err != nil {
				return err
			}
			res, err := ec.EvaluateRef(ec.EvaluationPath().Combine("$recursiveRef"), target)
			if err != nil {
				return err
			}
			if !res.Valid {
				ec.Invalidate()
			}
			mergeEvaluated(ec, res)
			return nil
		},
	})
}
