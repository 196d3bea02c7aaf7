package jsonschema

// contentEncoding/contentMediaType/contentSchema describe an encoded
// string's payload without ever decoding it: contentSchema's compiled
// child exists for tooling to inspect (and is exposed via KeywordInstance)
// but is never itself applied to the instance, matching the vocabulary's
// own annotation-only contract.

func init() {
	for _, name := range []string{"contentEncoding", "contentMediaType"} {
		name := name
		RegisterKeyword(&KeywordDef{
			Name: name,
			Kind: KindAnnotation,
			Eval: func(ec *EvalContext, ki *KeywordInstance) error {
				if s, ok := ki.Raw.String(); ok {
					ec.Annotate(name, s)
				}
				return nil
			},
		})
	}
	RegisterKeyword(&KeywordDef{
		Name: "contentSchema",
		Kind: KindAnnotation,
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			if len(ki.Children) == 1 {
				ec.Annotate("contentSchema", ki.Children[0])
			}
			return nil
		},
	})
}
