package jsonschema_test

import (
	"testing"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/value"
)

func countDetails(o *jsonschema.Output) int {
	n := len(o.Details)
	for _, d := range o.Details {
		n += countDetails(d)
	}
	return n
}

func TestDetailedOutputPrunesValidAnnotationFreeBranches(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"type": value.String("object"),
		"properties": obj(map[string]value.Value{
			"a": obj(map[string]value.Value{"type": value.String("string")}),
			"b": obj(map[string]value.Value{"type": value.String("number")}),
		}),
	})
	instance := obj(map[string]value.Value{"a": value.String("x"), "b": value.String("not a number")})

	res := evaluate(t, sch, instance, opts)
	detailed := jsonschema.Format(res, jsonschema.OutputDetailed)
	verbose := jsonschema.Format(res, jsonschema.OutputVerbose)

	if detailed.Valid {
		t.Fatalf("expected detailed output to report invalid")
	}
	if countDetails(detailed) >= countDetails(verbose) {
		t.Fatalf("expected detailed to prune more nodes than verbose: detailed=%d verbose=%d", countDetails(detailed), countDetails(verbose))
	}
	if countDetails(detailed) == 0 {
		t.Fatalf("expected detailed output to still surface the failing branch")
	}
}

func TestDetailedOutputKeepsBranchWithOnlyAnnotations(t *testing.T) {
	opts := jsonschema.DefaultOptions()
	sch := obj(map[string]value.Value{
		"type": value.String("object"),
		"properties": obj(map[string]value.Value{
			"a": obj(map[string]value.Value{"title": value.String("a label")}),
		}),
	})
	instance := obj(map[string]value.Value{"a": value.Int64(1)})

	res := evaluate(t, sch, instance, opts)
	detailed := jsonschema.Format(res, jsonschema.OutputDetailed)
	if !detailed.Valid {
		t.Fatalf("expected a passing instance to report valid")
	}
	if countDetails(detailed) == 0 {
		t.Fatalf("expected a valid branch that carries an annotation to survive pruning")
	}
}
