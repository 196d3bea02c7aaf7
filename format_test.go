package jsonschema_test

import (
	"testing"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/value"
)

func TestFormatValidators(t *testing.T) {
	cases := []struct {
		format string
		valid  string
		invalid string
	}{
		{"date-time", "2025-01-01T00:00:00Z", "2025-01-01"},
		{"date", "2025-01-01", "01-01-2025"},
		{"email", "a@example.com", "not-an-email"},
		{"ipv4", "192.168.0.1", "999.1.1.1"},
		{"ipv6", "::1", "192.168.0.1"},
		{"uri", "https://example.com/x", "not a uri"},
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", "not-a-uuid"},
		{"regex", "^a+$", "("},
		{"json-pointer", "/a/b", "a/b"},
	}
	for _, c := range cases {
		fn, ok := jsonschema.LookupFormat(c.format)
		if !ok {
			t.Fatalf("format %q is not registered", c.format)
		}
		if !fn(c.valid) {
			t.Errorf("format %q: expected %q to validate", c.format, c.valid)
		}
		if fn(c.invalid) {
			t.Errorf("format %q: expected %q to fail", c.format, c.invalid)
		}
	}
}

func TestRegisterFormatOverride(t *testing.T) {
	jsonschema.RegisterFormat("always-true-test-format", func(s string) bool { return true })
	fn, ok := jsonschema.LookupFormat("always-true-test-format")
	if !ok || !fn("anything") {
		t.Fatalf("expected custom format to be registered and pass")
	}
}

// formatAnnotationSchema declares the format-annotation vocabulary
// explicitly, since it is not in 2020-12's default vocabulary set.
func formatAnnotationSchema(formatName string) value.Value {
	return obj(map[string]value.Value{
		"$vocabulary": obj(map[string]value.Value{
			"https://json-schema.org/draft/2020-12/vocab/core":       value.Bool(true),
			"https://json-schema.org/draft/2020-12/vocab/validation": value.Bool(true),
			"https://json-schema.org/draft/2020-12/vocab/format-annotation": value.Bool(true),
		}),
		"format": value.String(formatName),
	})
}

func TestFormatKeywordAnnotatesAlways(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft2020
	sch := formatAnnotationSchema("email")

	res := evaluate(t, sch, value.String("not-an-email"), opts)
	if !res.Valid {
		t.Fatalf("expected 2020-12 format-annotation vocabulary to not fail validation")
	}
	if v, ok := res.Annotation("format"); !ok || v != "email" {
		t.Fatalf("expected format annotation to publish the format name regardless of assertiveness")
	}
}

func TestFormatKeywordAssertiveUnderRequireFormatValidation(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft2020
	opts.RequireFormatValidation = true
	sch := formatAnnotationSchema("email")

	if res := evaluate(t, sch, value.String("not-an-email"), opts); res.Valid {
		t.Fatalf("expected RequireFormatValidation to turn format into an assertion")
	}
	if res := evaluate(t, sch, value.String("a@example.com"), opts); !res.Valid {
		t.Fatalf("expected a valid email to still pass as an assertion")
	}
}

func TestFormatKeywordAssertiveUnderFormatAssertionVocabulary(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.DraftNext
	sch := obj(map[string]value.Value{"format": value.String("email")})

	if res := evaluate(t, sch, value.String("not-an-email"), opts); res.Valid {
		t.Fatalf("expected the format-assertion vocabulary to make format an assertion")
	}
}

func TestFormatKeywordAssertiveOnPreVocabularyDrafts(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft7
	sch := obj(map[string]value.Value{"format": value.String("email")})

	if res := evaluate(t, sch, value.String("not-an-email"), opts); res.Valid {
		t.Fatalf("expected draft-07 (pre-vocabulary) format to be assertive by default")
	}
}

func TestFormatKeywordUnknownFormatOnlyKnownFormats(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	opts.EvaluateAs = jsonschema.Draft7
	opts.OnlyKnownFormats = true
	sch := obj(map[string]value.Value{"format": value.String("definitely-not-a-real-format")})

	sch2, err := jsonschema.Compile(jsonschema.NewRegistry(nil), sch, "https://example.com/s.json", opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, err = jsonschema.Evaluate(nil, sch2, value.String("x"), opts)
	if err == nil {
		t.Fatalf("expected an unknown format with OnlyKnownFormats to return a structural error")
	}
	if _, ok := jsonschema.AsStructuralError(err); !ok {
		t.Fatalf("expected the error to be recognized by AsStructuralError")
	}
}
