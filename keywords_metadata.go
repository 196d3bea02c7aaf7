package jsonschema

import "github.com/grbell-ms/json-everything/value"

// Pure annotation keywords: they never inspect the instance, they only
// publish their raw schema value for a caller to read back out of the
// Result tree. Grouped together since none of them need anything beyond
// ec.Annotate.

func init() {
	for _, name := range []string{"title", "description", "default", "deprecated", "readOnly", "writeOnly", "examples"} {
		name := name
		RegisterKeyword(&KeywordDef{
			Name: name,
			Kind: KindAnnotation,
			Eval: func(ec *EvalContext, ki *KeywordInstance) error {
				ec.Annotate(name, value.ToAny(ki.Raw))
				return nil
			},
		})
	}
}
