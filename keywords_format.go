package jsonschema

// format is an assertion under pre-2019 drafts, the format-assertion
// vocabulary, or Options.RequireFormatValidation, and annotation-only
// otherwise. The format and format-annotation vocabularies are not in the
// 2019-09/2020-12 default vocabulary sets, so there "format" is a
// recognized keyword only when a $vocabulary declares one of them or
// RequireFormatValidation is set; otherwise compileNode handles it like
// any other unrecognized keyword. The keyword has a single Kind
// (KindAssertion); evalFormat decides on each call whether it asserts.

func init() {
	RegisterKeyword(&KeywordDef{
		Name: "format",
		Kind: KindAssertion,
		Eval: evalFormat,
	})
}

func evalFormat(ec *EvalContext, ki *KeywordInstance) error {
	name, ok := ki.Raw.String()
	if !ok {
		return nil
	}
	ec.Annotate("format", name)

	sch := ec.CurrentSchema()
	assertive := ec.opts.RequireFormatValidation || sch.Dialect.Version < 2019 || (sch.resource != nil && sch.resource.formatAssertive)
	if !assertive {
		return nil
	}

	fn, known := LookupFormat(name)
	if !known {
		if ec.opts.OnlyKnownFormats {
			return &UnknownFormatError{Name: name}
		}
		return nil
	}

	s, ok := ec.Instance().String()
	if !ok {
		return nil // format only constrains strings; other instance types always pass.
	}
	if !fn(s) {
		ec.Fail("format", "string does not match format "+name, map[string]any{"format": name})
	}
	return nil
}
