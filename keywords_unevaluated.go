package jsonschema

import (
	"strconv"

	"github.com/grbell-ms/json-everything/value"
)

// unevaluatedProperties and unevaluatedItems are the engine's sharpest test
// of the annotation protocol: they must see which properties/items were
// accounted for not just by their own siblings but by every applicator in
// the schema's tree that reached this instance location (allOf branches,
// the taken if/then/else arm, $ref targets, oneOf's winning branch). That
// visibility comes entirely from mergeEvaluated republishing under the
// canonical annotation names as each applicator returns; these two
// keywords just read the accumulated picture on the current frame.

func init() {
	RegisterKeyword(&KeywordDef{
		Name:           "unevaluatedProperties",
		Kind:           KindApplicator,
		AnnotationDeps: []string{"properties", "patternProperties", "additionalProperties", "allOf", "anyOf", "oneOf", "if", "then", "else", "dependentSchemas", "dependencies", "$ref", "$dynamicRef", "$recursiveRef"},
		Eval:           evalUnevaluatedProperties,
	})
	RegisterKeyword(&KeywordDef{
		Name:           "unevaluatedItems",
		Kind:           KindApplicator,
		AnnotationDeps: []string{"items", "prefixItems", "additionalItems", "contains", "allOf", "anyOf", "oneOf", "if", "then", "else", "$ref", "$dynamicRef", "$recursiveRef"},
		Eval:           evalUnevaluatedItems,
	})
}

func evalUnevaluatedProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	accounted := map[string]bool{}
	for _, key := range []string{annotProperties, annotPatternProp, annotAddlProp, annotUnevalProp} {
		if v, ok := ec.current().Result.Annotation(key); ok {
			for _, n := range toStringSlice(v) {
				accounted[n] = true
			}
		}
	}
	child := ki.Children[0]
	var covered []string
	for _, name := range inst.Keys() {
		if accounted[name] {
			continue
		}
		covered = append(covered, name)
		mv, _ := inst.Get(name)
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("unevaluatedProperties"), child, ec.InstanceLocation().Combine(name), mv)
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	ec.Annotate(annotUnevalProp, covered)
	return nil
}

func evalUnevaluatedItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	items := inst.Items()
	start := 0
	allCovered := false
	if v, ok := ec.current().Result.Annotation(annotItems); ok {
		if cov, ok := v.(itemsCoverage); ok {
			allCovered = cov.All
			start = cov.Prefix
		}
	}
	contained := map[int]bool{}
	if v, ok := ec.current().Result.Annotation(containsAnnotationKey); ok {
		if indices, ok := v.([]int); ok {
			for _, i := range indices {
				contained[i] = true
			}
		}
	}
	if allCovered {
		ec.Annotate(annotUnevalItems, itemsCoverage{All: true})
		return nil
	}
	child := ki.Children[0]
	for i := start; i < len(items); i++ {
		if contained[i] {
			continue
		}
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("unevaluatedItems"), child, ec.InstanceLocation().Combine(strconv.Itoa(i)), items[i])
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	ec.Annotate(annotUnevalItems, itemsCoverage{All: true})
	return nil
}
