package jsonschema

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/grbell-ms/json-everything/value"
)

// Applicators descend into one or more subschemas and decide their own
// validity from the children's Result.Valid: the engine
// never auto-aggregates across an applicator's own children, each
// applicator reads what it evaluated and reports accordingly.
//
// Several applicators also participate in the unevaluatedProperties/
// unevaluatedItems annotation protocol: they publish which property names
// or item indices they are responsible for under a handful of canonical
// annotation keys, and applicators that recurse into subschemas (allOf,
// if/then/else, $ref, oneOf/anyOf's matching branches) re-publish the
// union of what their children reported, so the protocol's reach extends
// transitively rather than stopping at the first level of nesting.

const (
	annotProperties  = "properties"
	annotPatternProp = "patternProperties"
	annotAddlProp    = "additionalProperties"
	annotUnevalProp  = "unevaluatedProperties"
	annotItems       = "items"
	annotUnevalItems = "unevaluatedItems"

	containsAnnotationKey = "contains"
)

func init() {
	RegisterKeyword(&KeywordDef{Name: "properties", Kind: KindApplicator, Eval: evalProperties})
	RegisterKeyword(&KeywordDef{Name: "patternProperties", Kind: KindApplicator, Eval: evalPatternProperties})
	RegisterKeyword(&KeywordDef{
		Name:           "additionalProperties",
		Kind:           KindApplicator,
		AnnotationDeps: []string{"properties", "patternProperties"},
		Eval:           evalAdditionalProperties,
	})
	RegisterKeyword(&KeywordDef{Name: "propertyNames", Kind: KindApplicator, Eval: evalPropertyNames})
	RegisterKeyword(&KeywordDef{
		Name:           "items",
		Kind:           KindApplicator,
		AnnotationDeps: []string{"prefixItems"},
		Eval:           evalItems,
	})
	RegisterKeyword(&KeywordDef{Name: "prefixItems", Kind: KindApplicator, Eval: evalPrefixItems})
	RegisterKeyword(&KeywordDef{
		Name:           "additionalItems",
		Kind:           KindApplicator,
		AnnotationDeps: []string{"items"},
		Eval:           evalAdditionalItems,
	})
	RegisterKeyword(&KeywordDef{Name: "contains", Kind: KindApplicator, Eval: evalContains})
	RegisterKeyword(&KeywordDef{Name: "allOf", Kind: KindApplicator, Eval: evalAllOf})
	RegisterKeyword(&KeywordDef{Name: "anyOf", Kind: KindApplicator, Eval: evalAnyOf})
	RegisterKeyword(&KeywordDef{Name: "oneOf", Kind: KindApplicator, Eval: evalOneOf})
	RegisterKeyword(&KeywordDef{Name: "not", Kind: KindApplicator, Eval: evalNot})
	RegisterKeyword(&KeywordDef{Name: "if", Kind: KindApplicator, Priority: -10, Eval: evalIf})
	RegisterKeyword(&KeywordDef{Name: "then", Kind: KindApplicator, AnnotationDeps: []string{"if"}, Eval: evalThen})
	RegisterKeyword(&KeywordDef{Name: "else", Kind: KindApplicator, AnnotationDeps: []string{"if"}, Eval: evalElse})
	RegisterKeyword(&KeywordDef{Name: "dependentSchemas", Kind: KindApplicator, Eval: evalDependentSchemas})
	RegisterKeyword(&KeywordDef{Name: "dependencies", Kind: KindApplicator, Eval: evalDependencies})
}

// mergeEvaluated unions the transitive evaluated-properties/items
// annotations of child into the current frame's own annotations under the
// same canonical keys, so an ancestor's unevaluatedProperties/
// unevaluatedItems sees through nested allOf/if-then-else/$ref.
func mergeEvaluated(ec *EvalContext, child *Result) {
	mergeStringSetAnnotation(ec, child, annotProperties)
	mergeStringSetAnnotation(ec, child, annotPatternProp)
	mergeStringSetAnnotation(ec, child, annotAddlProp)
	mergeStringSetAnnotation(ec, child, annotUnevalProp)
	mergeItemsAnnotation(ec, child)
	mergeItemsUnevalAnnotation(ec, child)
}

func mergeStringSetAnnotation(ec *EvalContext, child *Result, key string) {
	v, ok := child.Annotation(key)
	if !ok {
		return
	}
	names, ok := v.([]string)
	if !ok {
		return
	}
	existing, _ := ec.current().Result.Annotation(key)
	ec.Annotate(key, unionStrings(toStringSlice(existing), names))
}

func toStringSlice(v any) []string {
	s, _ := v.([]string)
	return s
}

func unionStrings(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// itemsCoverage represents how much of an array a keyword accounted for:
// either "all" (true) or a prefix count.
type itemsCoverage struct {
	All    bool
	Prefix int
}

func mergeItemsAnnotation(ec *EvalContext, child *Result) {
	v, ok := child.Annotation(annotItems)
	if !ok {
		return
	}
	mergeCoverage(ec, annotItems, v)
}

func mergeItemsUnevalAnnotation(ec *EvalContext, child *Result) {
	v, ok := child.Annotation(annotUnevalItems)
	if !ok {
		return
	}
	mergeCoverage(ec, annotUnevalItems, v)
}

func mergeCoverage(ec *EvalContext, key string, v any) {
	cov, ok := v.(itemsCoverage)
	if !ok {
		return
	}
	existing, _ := ec.current().Result.Annotation(key)
	cur, _ := existing.(itemsCoverage)
	if cov.All || cur.All {
		ec.Annotate(key, itemsCoverage{All: true})
		return
	}
	if cov.Prefix > cur.Prefix {
		ec.Annotate(key, itemsCoverage{Prefix: cov.Prefix})
	} else {
		ec.Annotate(key, cur)
	}
}

func evalProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	var matched []string
	for name, child := range ki.ChildrenNamed {
		mv, ok := inst.Get(name)
		if !ok {
			continue
		}
		matched = append(matched, name)
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("properties", name), child, ec.InstanceLocation().Combine(name), mv)
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	ec.Annotate(annotProperties, matched)
	return nil
}

func evalPatternProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	compiled := map[string]*compiledPattern{}
	for pat, child := range ki.ChildrenNamed {
		cp, err := compilePattern(pat)
		if err != nil {
			return &MalformedSchemaError{Location: ec.EvaluationPath().Combine("patternProperties").String(), Reason: err.Error()}
		}
		compiled[pat] = &compiledPattern{re: cp, schema: child}
	}
	var matched []string
	for _, name := range inst.Keys() {
		mv, _ := inst.Get(name)
		hit := false
		for pat, cp := range compiled {
			if !cp.re.MatchString(name) {
				continue
			}
			hit = true
			res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("patternProperties", pat), cp.schema, ec.InstanceLocation().Combine(name), mv)
			if err != nil {
				return err
			}
			if !res.Valid {
				ec.Invalidate()
			}
		}
		if hit {
			matched = append(matched, name)
		}
	}
	ec.Annotate(annotPatternProp, matched)
	return nil
}

type compiledPattern struct {
	re     *regexp.Regexp
	schema *Schema
}

func compilePattern(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(pat)
}

func evalAdditionalProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	handled := map[string]bool{}
	if v, ok := ec.current().Result.Annotation(annotProperties); ok {
		for _, n := range toStringSlice(v) {
			handled[n] = true
		}
	}
	if v, ok := ec.current().Result.Annotation(annotPatternProp); ok {
		for _, n := range toStringSlice(v) {
			handled[n] = true
		}
	}
	child := ki.Children[0]
	var covered []string
	for _, name := range inst.Keys() {
		if handled[name] {
			continue
		}
		covered = append(covered, name)
		mv, _ := inst.Get(name)
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("additionalProperties"), child, ec.InstanceLocation().Combine(name), mv)
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	ec.Annotate(annotAddlProp, covered)
	return nil
}

func evalPropertyNames(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	child := ki.Children[0]
	for _, name := range inst.Keys() {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("propertyNames"), child, ec.InstanceLocation().Combine(name), value.String(name))
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	return nil
}

func evalItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	items := inst.Items()

	// 2020-12 single-schema form (posSelf): one child applied to every
	// item not already covered by prefixItems. Distinguished from the
	// legacy array form by the raw value's own kind, not by how many
	// children compiled (a one-element legacy array also compiles to a
	// single child).
	if ki.Raw.Kind() != value.KindArray {
		start := 0
		if v, ok := ec.current().Result.Annotation(annotItems); ok {
			if cov, ok := v.(itemsCoverage); ok && !cov.All {
				start = cov.Prefix
			}
		}
		for i := start; i < len(items); i++ {
			res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("items"), ki.Children[0], ec.InstanceLocation().Combine(strconv.Itoa(i)), items[i])
			if err != nil {
				return err
			}
			if !res.Valid {
				ec.Invalidate()
			}
		}
		ec.Annotate(annotItems, itemsCoverage{All: true})
		return nil
	}

	// Legacy array form: one child per positional item.
	n := len(ki.Children)
	for i := 0; i < n && i < len(items); i++ {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("items", strconv.Itoa(i)), ki.Children[i], ec.InstanceLocation().Combine(strconv.Itoa(i)), items[i])
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	covered := n
	if covered > len(items) {
		covered = len(items)
	}
	ec.Annotate(annotItems, itemsCoverage{Prefix: covered})
	return nil
}

func evalPrefixItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	items := inst.Items()
	n := len(ki.Children)
	for i := 0; i < n && i < len(items); i++ {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("prefixItems", strconv.Itoa(i)), ki.Children[i], ec.InstanceLocation().Combine(strconv.Itoa(i)), items[i])
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	covered := n
	if covered > len(items) {
		covered = len(items)
	}
	ec.Annotate(annotItems, itemsCoverage{Prefix: covered})
	return nil
}

func evalAdditionalItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	items := inst.Items()
	start := 0
	if v, ok := ec.current().Result.Annotation(annotItems); ok {
		if cov, ok := v.(itemsCoverage); ok {
			if cov.All {
				return nil
			}
			start = cov.Prefix
		}
	}
	child := ki.Children[0]
	for i := start; i < len(items); i++ {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("additionalItems"), child, ec.InstanceLocation().Combine(strconv.Itoa(i)), items[i])
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	ec.Annotate(annotItems, itemsCoverage{All: true})
	return nil
}

func evalContains(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	child := ki.Children[0]
	var matched []int
	for i, item := range inst.Items() {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("contains"), child, ec.InstanceLocation().Combine(strconv.Itoa(i)), item)
		if err != nil {
			return err
		}
		if res.Valid {
			matched = append(matched, i)
		}
	}
	ec.Annotate(containsAnnotationKey, matched)
	// contains itself asserts at least one match unless minContains:0 is
	// present alongside it (that case is left to minContains to report).
	if len(matched) == 0 && !hasZeroMinContains(ec) {
		ec.Fail("contains", "no item matches the contains subschema", nil)
	}
	return nil
}

func hasZeroMinContains(ec *EvalContext) bool {
	for _, ki := range ec.current().Schema.Keywords {
		if ki.Def.Name != "minContains" {
			continue
		}
		if f, ok := ki.Raw.Float64(); ok && f == 0 {
			return true
		}
	}
	return false
}

func evalAllOf(ec *EvalContext, ki *KeywordInstance) error {
	for i, child := range ki.Children {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("allOf", strconv.Itoa(i)), child, ec.InstanceLocation(), ec.Instance())
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
		mergeEvaluated(ec, res)
	}
	return nil
}

func evalAnyOf(ec *EvalContext, ki *KeywordInstance) error {
	anyValid := false
	for i, child := range ki.Children {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("anyOf", strconv.Itoa(i)), child, ec.InstanceLocation(), ec.Instance())
		if err != nil {
			return err
		}
		if res.Valid {
			anyValid = true
			mergeEvaluated(ec, res)
		}
	}
	if !anyValid {
		ec.Fail("anyOf", "value does not match any subschema", nil)
	}
	return nil
}

func evalOneOf(ec *EvalContext, ki *KeywordInstance) error {
	var matchIdx = -1
	var winner *Result
	for i, child := range ki.Children {
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("oneOf", strconv.Itoa(i)), child, ec.InstanceLocation(), ec.Instance())
		if err != nil {
			return err
		}
		if res.Valid {
			if matchIdx >= 0 {
				ec.Fail("oneOf", fmt.Sprintf("value matches more than one subschema (indices %d and %d)", matchIdx, i), nil)
				return nil
			}
			matchIdx = i
			winner = res
		}
	}
	if matchIdx < 0 {
		ec.Fail("oneOf", "value matches none of the subschemas", nil)
		return nil
	}
	mergeEvaluated(ec, winner)
	return nil
}

func evalNot(ec *EvalContext, ki *KeywordInstance) error {
	res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("not"), ki.Children[0], ec.InstanceLocation(), ec.Instance())
	if err != nil {
		return err
	}
	if res.Valid {
		ec.Fail("not", "value matches the \"not\" subschema", nil)
	}
	return nil
}

const ifOutcomeAnnotation = "$if"

func evalIf(ec *EvalContext, ki *KeywordInstance) error {
	res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("if"), ki.Children[0], ec.InstanceLocation(), ec.Instance())
	if err != nil {
		return err
	}
	ec.Annotate(ifOutcomeAnnotation, res.Valid)
	return nil
}

func evalThen(ec *EvalContext, ki *KeywordInstance) error {
	v, ok := ec.current().Result.Annotation(ifOutcomeAnnotation)
	if !ok || v != true {
		return nil
	}
	res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("then"), ki.Children[0], ec.InstanceLocation(), ec.Instance())
	if err != nil {
		return err
	}
	if !res.Valid {
		ec.Invalidate()
	}
	mergeEvaluated(ec, res)
	return nil
}

func evalElse(ec *EvalContext, ki *KeywordInstance) error {
	v, ok := ec.current().Result.Annotation(ifOutcomeAnnotation)
	if !ok || v != false {
		return nil
	}
	res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("else"), ki.Children[0], ec.InstanceLocation(), ec.Instance())
	if err != nil {
		return err
	}
	if !res.Valid {
		ec.Invalidate()
	}
	mergeEvaluated(ec, res)
	return nil
}

func evalDependentSchemas(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	for name, child := range ki.ChildrenNamed {
		if _, present := inst.Get(name); !present {
			continue
		}
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("dependentSchemas", name), child, ec.InstanceLocation(), inst)
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
		mergeEvaluated(ec, res)
	}
	return nil
}

// evalDependencies implements the draft 6/7 combined keyword: a member
// whose value is an array of names is a dependentRequired-style
// assertion; a member whose value is a schema behaves like
// dependentSchemas.
func evalDependencies(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	for _, trigger := range ki.Raw.Keys() {
		if _, present := inst.Get(trigger); !present {
			continue
		}
		mv, _ := ki.Raw.Get(trigger)
		if mv.Kind() == value.KindArray {
			var missing []string
			for _, item := range mv.Items() {
				name, ok := item.String()
				if !ok {
					continue
				}
				if _, ok := inst.Get(name); !ok {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				ec.Fail("dependencies", fmt.Sprintf("property %q requires missing properties: %v", trigger, missing), map[string]any{"trigger": trigger, "missing": missing})
			}
			continue
		}
		child, ok := ki.ChildrenNamed[trigger]
		if !ok {
			continue
		}
		res, err := ec.EvaluateChild(ec.EvaluationPath().Combine("dependencies", trigger), child, ec.InstanceLocation(), inst)
		if err != nil {
			return err
		}
		if !res.Valid {
			ec.Invalidate()
		}
	}
	return nil
}
