package middleware_test

import (
	"context"
	"strings"
	"testing"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/middleware"
	"github.com/grbell-ms/json-everything/value"
)

func compileStringSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	b := value.NewObject()
	b.Set("type", value.String("object"))
	props := value.NewObject()
	props.Set("name", value.NewObject().Set("type", value.String("string")).Build())
	b.Set("properties", props.Build())
	b.Set("required", value.Array(value.String("name")))
	sch, err := jsonschema.Compile(opts.Registry, b.Build(), "https://example.com/s.json", opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return sch
}

func TestContextWithResultRoundTrips(t *testing.T) {
	res := &jsonschema.Result{Valid: true}
	ctx := middleware.ContextWithResult(context.Background(), res)

	got, ok := middleware.ResultFromContext(ctx)
	if !ok || got != res {
		t.Fatalf("expected ResultFromContext to retrieve the attached Result")
	}
	if _, ok := middleware.ResultFromContext(context.Background()); ok {
		t.Fatalf("expected a context with no attached Result to report not-ok")
	}
}

func TestDefaultOptionsUsesDetailedOutput(t *testing.T) {
	opts := middleware.DefaultOptions()
	if opts.OutputFormat != jsonschema.OutputDetailed {
		t.Fatalf("expected middleware.DefaultOptions to select detailed output, got %v", opts.OutputFormat)
	}
}

func TestValidateBodyDecodesAndEvaluates(t *testing.T) {
	sch := compileStringSchema(t)
	opts := middleware.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)

	res, err := middleware.ValidateBody(context.Background(), sch, strings.NewReader(`{"name":"ada"}`), opts, nil)
	if err != nil {
		t.Fatalf("ValidateBody: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected a valid body to produce a valid Result")
	}

	res, err = middleware.ValidateBody(context.Background(), sch, strings.NewReader(`{}`), opts, nil)
	if err != nil {
		t.Fatalf("ValidateBody: %v", err)
	}
	if res.Valid {
		t.Fatalf("expected a body missing the required \"name\" to produce an invalid Result")
	}
}

func TestValidateBodyPropagatesDecodeErrors(t *testing.T) {
	sch := compileStringSchema(t)
	opts := middleware.DefaultOptions()

	if _, err := middleware.ValidateBody(context.Background(), sch, strings.NewReader(`not json`), opts, nil); err == nil {
		t.Fatalf("expected malformed JSON body to produce a decode error")
	}
}

func TestErrorPayloadShapesOutput(t *testing.T) {
	out := &jsonschema.Output{Valid: false, Errors: []jsonschema.OutputError{{Error: "boom"}}}
	payload := middleware.ErrorPayload(out)

	if payload["valid"] != false {
		t.Fatalf("expected payload[\"valid\"] to be false")
	}
	errs, ok := payload["errors"].([]jsonschema.OutputError)
	if !ok || len(errs) != 1 || errs[0].Error != "boom" {
		t.Fatalf("expected payload[\"errors\"] to carry the Output's errors, got %v", payload["errors"])
	}
}
