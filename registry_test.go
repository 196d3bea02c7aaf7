package jsonschema_test

import (
	"testing"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/value"
)

func TestRegistryResolvesAcrossRegisteredDocuments(t *testing.T) {
	reg := jsonschema.NewRegistry(nil)
	reg.Register("https://example.com/defs.json", obj(map[string]value.Value{
		"$defs": obj(map[string]value.Value{
			"positive": obj(map[string]value.Value{"type": value.String("number"), "exclusiveMinimum": value.Int64(0)}),
		}),
	}))

	opts := jsonschema.DefaultOptions()
	opts.Registry = reg
	sch := obj(map[string]value.Value{"$ref": value.String("https://example.com/defs.json#/$defs/positive")})

	if res := evaluate(t, sch, value.Int64(1), opts); !res.Valid {
		t.Fatalf("expected $ref to resolve into a separately registered document")
	}
	if res := evaluate(t, sch, value.Int64(-1), opts); res.Valid {
		t.Fatalf("expected the resolved schema's own constraints to still apply")
	}
}

func TestRegistryLoaderFuncFetchesExternalReferences(t *testing.T) {
	fetched := 0
	loader := jsonschema.LoaderFunc(func(uri string) (value.Value, error) {
		fetched++
		if uri != "https://example.com/remote.json" {
			t.Fatalf("unexpected fetch URI %q", uri)
		}
		return obj(map[string]value.Value{"type": value.String("string")}), nil
	})

	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(loader)
	sch := obj(map[string]value.Value{"$ref": value.String("https://example.com/remote.json")})

	if res := evaluate(t, sch, value.String("x"), opts); !res.Valid {
		t.Fatalf("expected a string to satisfy the fetched remote schema")
	}
	if fetched != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetched)
	}
	// Second evaluation against the same registry must not refetch.
	evaluate(t, sch, value.String("y"), opts)
	if fetched != 1 {
		t.Fatalf("expected the registry to cache the fetched document, got %d fetches", fetched)
	}
}

func TestRegistryUnresolvableReferenceWithNoLoader(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	sch := obj(map[string]value.Value{"$ref": value.String("https://example.com/missing.json")})

	sch2, err := jsonschema.Compile(opts.Registry, sch, "https://example.com/s.json", opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, err = jsonschema.Evaluate(nil, sch2, value.String("x"), opts)
	if err == nil {
		t.Fatalf("expected an unresolvable external $ref with no loader to error")
	}
	if _, ok := jsonschema.AsStructuralError(err); !ok {
		t.Fatalf("expected a recognized structural error")
	}
}

func TestUnknownRequiredVocabularyRejected(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	sch := obj(map[string]value.Value{
		"$vocabulary": obj(map[string]value.Value{
			"https://example.com/vocab/unknown": value.Bool(true),
		}),
	})

	_, err := jsonschema.Compile(opts.Registry, sch, "https://example.com/s.json", opts)
	if err == nil {
		t.Fatalf("expected an unrecognized required vocabulary to fail compilation")
	}
	if _, ok := jsonschema.AsStructuralError(err); !ok {
		t.Fatalf("expected a recognized structural error")
	}
}

func TestUnknownOptionalVocabularyIgnored(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	sch := obj(map[string]value.Value{
		"$vocabulary": obj(map[string]value.Value{
			"https://json-schema.org/draft/2020-12/vocab/core":       value.Bool(true),
			"https://json-schema.org/draft/2020-12/vocab/validation": value.Bool(true),
			"https://example.com/vocab/unknown":                      value.Bool(false),
		}),
		"type": value.String("string"),
	})

	if _, err := jsonschema.Compile(opts.Registry, sch, "https://example.com/s.json", opts); err != nil {
		t.Fatalf("expected an optional (non-required) unknown vocabulary to be ignored, got %v", err)
	}
}

func TestDraftFromURLVariants(t *testing.T) {
	cases := []struct {
		url  string
		want *jsonschema.Draft
	}{
		{"https://json-schema.org/draft/2020-12/schema", jsonschema.Draft2020},
		{"http://json-schema.org/draft/2020-12/schema", jsonschema.Draft2020},
		{"https://json-schema.org/draft/2020-12/schema#", jsonschema.Draft2020},
		{"http://json-schema.org/draft-07/schema", jsonschema.Draft7},
		{"http://json-schema.org/draft-07/schema#", jsonschema.Draft7},
		{"http://json-schema.org/draft-06/schema", jsonschema.Draft6},
		{"https://json-schema.org/draft/2019-09/schema", jsonschema.Draft2019},
		{"https://json-schema.org/schema", jsonschema.Draft2020},
	}
	for _, c := range cases {
		if got := jsonschema.DraftFromURL(c.url); got != c.want {
			t.Errorf("DraftFromURL(%q) = %v, want %v", c.url, got, c.want)
		}
	}

	if got := jsonschema.DraftFromURL("http://json-schema.org/draft-07/schema#/definitions/foo"); got != nil {
		t.Errorf("expected a non-trailing fragment to never identify a built-in draft, got %v", got)
	}
	if got := jsonschema.DraftFromURL("https://example.com/custom-dialect"); got != nil {
		t.Errorf("expected an unrecognized URL to return nil, got %v", got)
	}
}

// TestSubDocumentSchemaIsAdvisoryOnly checks that a $schema declared on a
// node that is not a resource root (no $id of its own) never changes the
// dialect active at that node: the document's own $schema, or its
// enclosing resource's, stays in force. A node that does declare its own
// $id, by contrast, starts a new resource and its own $schema does take
// effect there.
func TestSubDocumentSchemaIsAdvisoryOnly(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)

	sch := obj(map[string]value.Value{
		"$schema": value.String("http://json-schema.org/draft-06/schema"),
		"properties": obj(map[string]value.Value{
			"advisory": obj(map[string]value.Value{
				"$schema": value.String("https://json-schema.org/draft/2020-12/schema"),
				"if":      obj(map[string]value.Value{"const": value.Int64(1)}),
				"then":    obj(map[string]value.Value{"type": value.String("string")}),
			}),
			"ownResource": obj(map[string]value.Value{
				"$id":     value.String("https://example.com/own-resource.json"),
				"$schema": value.String("https://json-schema.org/draft/2020-12/schema"),
				"$vocabulary": obj(map[string]value.Value{
					"https://json-schema.org/draft/2020-12/vocab/core":       value.Bool(true),
					"https://json-schema.org/draft/2020-12/vocab/applicator": value.Bool(true),
					"https://json-schema.org/draft/2020-12/vocab/validation": value.Bool(true),
				}),
				"if":   obj(map[string]value.Value{"const": value.Int64(1)}),
				"then": obj(map[string]value.Value{"type": value.String("string")}),
			}),
		}),
	})

	// "advisory" never became its own resource, so the document's own
	// draft-06 dialect (no if/then/else) still governs there: "then"
	// never applies and a non-string under a const:1 match still passes.
	advisoryInstance := obj(map[string]value.Value{"advisory": value.Int64(1)})
	if res := evaluate(t, sch, advisoryInstance, opts); !res.Valid {
		t.Fatalf("expected a sub-document $schema with no $id to be purely advisory and leave draft-06 (no if/then/else) in force")
	}

	// "ownResource" declared its own $id, so it is a resource root and its
	// $schema does switch the dialect to 2020-12, where if/then applies.
	ownResourceInstance := obj(map[string]value.Value{"ownResource": value.Int64(1)})
	if res := evaluate(t, sch, ownResourceInstance, opts); res.Valid {
		t.Fatalf("expected a resource root's own $schema to switch dialects, enforcing then's type:string")
	}
}
