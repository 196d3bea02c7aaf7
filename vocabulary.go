package jsonschema

// DefaultVocabularyRegistry seeds the map from vocabulary URI to the
// keyword names it recognizes, for every built-in dialect. Options.
// VocabularyRegistry starts from this and callers may add entries for
// custom vocabularies without mutating the engine's built-ins.
func DefaultVocabularyRegistry() map[string][]string {
	reg := map[string][]string{}

	core := []string{"$id", "$ref", "$anchor", "$dynamicRef", "$dynamicAnchor", "$recursiveRef", "$recursiveAnchor", "$schema", "$vocabulary", "$defs", "$comment"}
	applicator2019 := []string{"allOf", "anyOf", "oneOf", "not", "if", "then", "else", "properties", "patternProperties", "additionalProperties", "items", "additionalItems", "contains", "propertyNames", "dependentSchemas"}
	applicator2020 := []string{"allOf", "anyOf", "oneOf", "not", "if", "then", "else", "properties", "patternProperties", "additionalProperties", "prefixItems", "items", "contains", "propertyNames", "dependentSchemas"}
	validation := []string{"type", "enum", "const", "multipleOf", "maximum", "exclusiveMaximum", "minimum", "exclusiveMinimum", "maxLength", "minLength", "pattern", "maxItems", "minItems", "uniqueItems", "maxContains", "minContains", "maxProperties", "minProperties", "required", "dependentRequired"}
	metaData := []string{"title", "description", "default", "deprecated", "readOnly", "writeOnly", "examples"}
	content := []string{"contentEncoding", "contentMediaType", "contentSchema"}

	reg["https://json-schema.org/draft/2019-09/vocab/core"] = core
	reg["https://json-schema.org/draft/2019-09/vocab/applicator"] = applicator2019
	reg["https://json-schema.org/draft/2019-09/vocab/validation"] = validation
	reg["https://json-schema.org/draft/2019-09/vocab/meta-data"] = metaData
	reg["https://json-schema.org/draft/2019-09/vocab/format"] = []string{"format"}
	reg["https://json-schema.org/draft/2019-09/vocab/content"] = content

	reg["https://json-schema.org/draft/2020-12/vocab/core"] = core
	reg["https://json-schema.org/draft/2020-12/vocab/applicator"] = applicator2020
	reg["https://json-schema.org/draft/2020-12/vocab/unevaluated"] = []string{"unevaluatedProperties", "unevaluatedItems"}
	reg["https://json-schema.org/draft/2020-12/vocab/validation"] = validation
	reg["https://json-schema.org/draft/2020-12/vocab/meta-data"] = metaData
	reg["https://json-schema.org/draft/2020-12/vocab/format-annotation"] = []string{"format"}
	reg["https://json-schema.org/draft/2020-12/vocab/format-assertion"] = []string{"format"}
	reg["https://json-schema.org/draft/2020-12/vocab/content"] = content

	reg["https://json-schema.org/draft/next/vocab/core"] = core
	reg["https://json-schema.org/draft/next/vocab/applicator"] = applicator2020
	reg["https://json-schema.org/draft/next/vocab/unevaluated"] = []string{"unevaluatedProperties", "unevaluatedItems"}
	reg["https://json-schema.org/draft/next/vocab/validation"] = validation
	reg["https://json-schema.org/draft/next/vocab/format-assertion"] = []string{"format"}

	return reg
}

// pre2019Keywords lists every keyword recognized by Draft 6/7, which predate
// vocabularies: there is no per-vocabulary filtering, just "is this keyword
// known to this draft version".
func pre2019Keywords(d *Draft) map[string]bool {
	known := map[string]bool{
		"$ref": true, "$id": true, "id": true, "$schema": true, "$comment": true,
		"title": true, "description": true, "default": true, "examples": true,
		"type": true, "enum": true, "const": true,
		"multipleOf": true, "maximum": true, "exclusiveMaximum": true, "minimum": true, "exclusiveMinimum": true,
		"maxLength": true, "minLength": true, "pattern": true,
		"maxItems": true, "minItems": true, "uniqueItems": true,
		"maxProperties": true, "minProperties": true, "required": true,
		"allOf": true, "anyOf": true, "oneOf": true, "not": true,
		"properties": true, "patternProperties": true, "additionalProperties": true,
		"items": true, "additionalItems": true, "contains": true, "propertyNames": true,
		"dependencies": true, "definitions": true,
		"format": true, "contentEncoding": true, "contentMediaType": true,
	}
	if d.Version >= 7 {
		known["if"] = true
		known["then"] = true
		known["else"] = true
	}
	return known
}

// resolveVocabularies computes the set of vocabulary URIs active for a
// schema resource: explicit $vocabulary overrides the draft's default set.
// A non-root $vocabulary declaration is advisory only; the caller enforces
// that by only applying this at resource roots.
func resolveVocabularies(d *Draft, declared map[string]bool, opts Options) (active []string, err error) {
	if len(declared) == 0 {
		return d.defaultVocabs, nil
	}
	for uri, required := range declared {
		if _, known := opts.vocabularies()[uri]; !known && required {
			return nil, &UnknownVocabularyError{URI: uri}
		}
		if _, known := opts.vocabularies()[uri]; known {
			active = append(active, uri)
		}
	}
	return active, nil
}

// activeKeywordSet flattens a list of vocabulary URIs into the set of
// keyword names they jointly recognize.
func activeKeywordSet(vocabURIs []string, table map[string][]string) map[string]bool {
	set := map[string]bool{}
	for _, uri := range vocabURIs {
		for _, kw := range table[uri] {
			set[kw] = true
		}
	}
	// $ref/$dynamicRef/etc. and the structural keywords driving dispatch
	// are always recognized regardless of vocabulary, matching the
	// "locators influence the frame" contract.
	for _, kw := range []string{"$ref", "$dynamicRef", "$recursiveRef", "$id", "$anchor", "$dynamicAnchor", "$recursiveAnchor", "$schema", "$vocabulary", "$defs", "definitions"} {
		set[kw] = true
	}
	return set
}
