package jsonschema

import (
	"fmt"
	"math/big"
	"regexp"
	"unicode/utf8"

	"github.com/grbell-ms/json-everything/value"
)

// Validation keywords are pure local assertions: they read the current
// instance and the keyword's raw value, and either pass silently or call
// ec.Fail. None of them descend into a subschema.

func init() {
	RegisterKeyword(&KeywordDef{Name: "type", Kind: KindAssertion, Eval: evalType})
	RegisterKeyword(&KeywordDef{Name: "enum", Kind: KindAssertion, Eval: evalEnum})
	RegisterKeyword(&KeywordDef{Name: "const", Kind: KindAssertion, Eval: evalConst})
	RegisterKeyword(&KeywordDef{Name: "multipleOf", Kind: KindAssertion, Eval: evalMultipleOf})
	RegisterKeyword(&KeywordDef{Name: "maximum", Kind: KindAssertion, Eval: evalMaximum})
	RegisterKeyword(&KeywordDef{Name: "minimum", Kind: KindAssertion, Eval: evalMinimum})
	RegisterKeyword(&KeywordDef{Name: "exclusiveMaximum", Kind: KindAssertion, Eval: evalExclusiveMaximum})
	RegisterKeyword(&KeywordDef{Name: "exclusiveMinimum", Kind: KindAssertion, Eval: evalExclusiveMinimum})
	RegisterKeyword(&KeywordDef{Name: "maxLength", Kind: KindAssertion, Eval: evalMaxLength})
	RegisterKeyword(&KeywordDef{Name: "minLength", Kind: KindAssertion, Eval: evalMinLength})
	RegisterKeyword(&KeywordDef{Name: "pattern", Kind: KindAssertion, Eval: evalPattern})
	RegisterKeyword(&KeywordDef{Name: "maxItems", Kind: KindAssertion, Eval: evalMaxItems})
	RegisterKeyword(&KeywordDef{Name: "minItems", Kind: KindAssertion, Eval: evalMinItems})
	RegisterKeyword(&KeywordDef{Name: "uniqueItems", Kind: KindAssertion, Eval: evalUniqueItems})
	RegisterKeyword(&KeywordDef{Name: "maxProperties", Kind: KindAssertion, Eval: evalMaxProperties})
	RegisterKeyword(&KeywordDef{Name: "minProperties", Kind: KindAssertion, Eval: evalMinProperties})
	RegisterKeyword(&KeywordDef{Name: "required", Kind: KindAssertion, Eval: evalRequired})
	RegisterKeyword(&KeywordDef{Name: "dependentRequired", Kind: KindAssertion, Eval: evalDependentRequired})
	RegisterKeyword(&KeywordDef{
		Name:           "maxContains",
		Kind:           KindAssertion,
		AnnotationDeps: []string{"contains"},
		Eval:           evalMaxContains,
	})
	RegisterKeyword(&KeywordDef{
		Name:           "minContains",
		Kind:           KindAssertion,
		AnnotationDeps: []string{"contains"},
		Eval:           evalMinContains,
	})
}

func jsonTypeName(v value.Value) string {
	if v.Kind() == value.KindNumber && v.IsInteger() {
		return "integer"
	}
	return v.TypeName()
}

func evalType(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	want := []string{}
	if s, ok := ki.Raw.String(); ok {
		want = append(want, s)
	} else {
		for _, item := range ki.Raw.Items() {
			if s, ok := item.String(); ok {
				want = append(want, s)
			}
		}
	}
	got := inst.TypeName()
	isInt := inst.Kind() == value.KindNumber && inst.IsInteger()
	for _, w := range want {
		if w == got || (w == "integer" && isInt) {
			return nil
		}
	}
	ec.Fail("type", fmt.Sprintf("value is %q, want one of %v", got, want), map[string]any{"types": want})
	return nil
}

func evalEnum(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	for _, item := range ki.Raw.Items() {
		if value.Equal(inst, item) {
			return nil
		}
	}
	ec.Fail("enum", "value does not match any enum member", nil)
	return nil
}

func evalConst(ec *EvalContext, ki *KeywordInstance) error {
	if !value.Equal(ec.Instance(), ki.Raw) {
		ec.Fail("const", "value does not equal the required constant", nil)
	}
	return nil
}

func numberOperand(ec *EvalContext) (*big.Rat, bool) {
	inst := ec.Instance()
	if inst.Kind() != value.KindNumber {
		return nil, false
	}
	if r, ok := inst.Rat(); ok {
		return r, true
	}
	f, _ := inst.Float64()
	return new(big.Rat).SetFloat64(f), true
}

func ratOperand(v value.Value) (*big.Rat, bool) {
	if v.Kind() != value.KindNumber {
		return nil, false
	}
	if r, ok := v.Rat(); ok {
		return r, true
	}
	f, _ := v.Float64()
	return new(big.Rat).SetFloat64(f), true
}

func evalMultipleOf(ec *EvalContext, ki *KeywordInstance) error {
	inst, ok := numberOperand(ec)
	if !ok {
		return nil
	}
	divisor, ok := ratOperand(ki.Raw)
	if !ok || divisor.Sign() == 0 {
		return nil
	}
	q := new(big.Rat).Quo(inst, divisor)
	if !q.IsInt() {
		ec.Fail("multipleOf", "value is not a multiple of the given divisor", nil)
	}
	return nil
}

func compareNumeric(ec *EvalContext, ki *KeywordInstance, keyword string, op func(cmp int) bool, msg string) {
	inst, ok := numberOperand(ec)
	if !ok {
		return
	}
	bound, ok := ratOperand(ki.Raw)
	if !ok {
		return
	}
	if !op(inst.Cmp(bound)) {
		ec.Fail(keyword, msg, nil)
	}
}

func evalMaximum(ec *EvalContext, ki *KeywordInstance) error {
	compareNumeric(ec, ki, "maximum", func(cmp int) bool { return cmp <= 0 }, "value exceeds maximum")
	return nil
}

func evalMinimum(ec *EvalContext, ki *KeywordInstance) error {
	compareNumeric(ec, ki, "minimum", func(cmp int) bool { return cmp >= 0 }, "value is below minimum")
	return nil
}

func evalExclusiveMaximum(ec *EvalContext, ki *KeywordInstance) error {
	compareNumeric(ec, ki, "exclusiveMaximum", func(cmp int) bool { return cmp < 0 }, "value is not strictly less than exclusiveMaximum")
	return nil
}

func evalExclusiveMinimum(ec *EvalContext, ki *KeywordInstance) error {
	compareNumeric(ec, ki, "exclusiveMinimum", func(cmp int) bool { return cmp > 0 }, "value is not strictly greater than exclusiveMinimum")
	return nil
}

func evalMaxLength(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	s, ok := inst.String()
	if !ok {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(utf8.RuneCountInString(s)) > bound {
		ec.Fail("maxLength", "string is longer than maxLength", nil)
	}
	return nil
}

func evalMinLength(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	s, ok := inst.String()
	if !ok {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(utf8.RuneCountInString(s)) < bound {
		ec.Fail("minLength", "string is shorter than minLength", nil)
	}
	return nil
}

func evalPattern(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	s, ok := inst.String()
	if !ok {
		return nil
	}
	pat, ok := ki.Raw.String()
	if !ok {
		return nil
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return &MalformedSchemaError{Location: ec.EvaluationPath().String(), Reason: "invalid pattern: " + err.Error()}
	}
	if !re.MatchString(s) {
		ec.Fail("pattern", "string does not match pattern", map[string]any{"pattern": pat})
	}
	return nil
}

func evalMaxItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(inst.Len()) > bound {
		ec.Fail("maxItems", "array has more items than maxItems", nil)
	}
	return nil
}

func evalMinItems(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(inst.Len()) < bound {
		ec.Fail("minItems", "array has fewer items than minItems", nil)
	}
	return nil
}

func evalUniqueItems(ec *EvalContext, ki *KeywordInstance) error {
	req, ok := ki.Raw.Bool()
	if !ok || !req {
		return nil
	}
	inst := ec.Instance()
	if inst.Kind() != value.KindArray {
		return nil
	}
	items := inst.Items()
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if value.Equal(items[i], items[j]) {
				ec.Fail("uniqueItems", fmt.Sprintf("items at index %d and %d are duplicates", i, j), nil)
				return nil
			}
		}
	}
	return nil
}

func evalMaxProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(inst.NumProperties()) > bound {
		ec.Fail("maxProperties", "object has more members than maxProperties", nil)
	}
	return nil
}

func evalMinProperties(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	if float64(inst.NumProperties()) < bound {
		ec.Fail("minProperties", "object has fewer members than minProperties", nil)
	}
	return nil
}

func evalRequired(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	var missing []string
	for _, item := range ki.Raw.Items() {
		name, ok := item.String()
		if !ok {
			continue
		}
		if _, ok := inst.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		ec.Fail("required", fmt.Sprintf("missing required properties: %v", missing), map[string]any{"missing": missing})
	}
	return nil
}

func evalDependentRequired(ec *EvalContext, ki *KeywordInstance) error {
	inst := ec.Instance()
	if inst.Kind() != value.KindObject {
		return nil
	}
	for _, trigger := range ki.Raw.Keys() {
		if _, present := inst.Get(trigger); !present {
			continue
		}
		deps, _ := ki.Raw.Get(trigger)
		var missing []string
		for _, item := range deps.Items() {
			name, ok := item.String()
			if !ok {
				continue
			}
			if _, ok := inst.Get(name); !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			ec.Fail("dependentRequired", fmt.Sprintf("property %q requires missing properties: %v", trigger, missing), map[string]any{"trigger": trigger, "missing": missing})
		}
	}
	return nil
}

func evalMaxContains(ec *EvalContext, ki *KeywordInstance) error {
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	count := containsMatchCount(ec)
	if count < 0 {
		return nil
	}
	if float64(count) > bound {
		ec.Fail("maxContains", "too many items match the contains subschema", nil)
	}
	return nil
}

func evalMinContains(ec *EvalContext, ki *KeywordInstance) error {
	bound, ok := ki.Raw.Float64()
	if !ok {
		return nil
	}
	count := containsMatchCount(ec)
	if count < 0 {
		count = 0
	}
	if float64(count) < bound {
		ec.Fail("minContains", "too few items match the contains subschema", nil)
	}
	return nil
}

func containsMatchCount(ec *EvalContext) int {
	v, ok := ec.current().Result.Annotation(containsAnnotationKey)
	if !ok {
		return -1
	}
	indices, ok := v.([]int)
	if !ok {
		return -1
	}
	return len(indices)
}
