package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	jsonschema "github.com/grbell-ms/json-everything"
	echomw "github.com/grbell-ms/json-everything/middleware/echo"
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

func newEcho(sch *jsonschema.Schema, opts jsonschema.Options) *echo.Echo {
	e := echo.New()
	e.POST("/x", func(c echo.Context) error {
		res, ok := echomw.GetResult(c)
		if !ok || !res.Valid {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no valid result attached"})
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, echomw.ValidateJSON(sch, opts))
	return e
}

func TestValidateJSONLetsValidBodyThrough(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	e := newEcho(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"ada"}`))
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid body, got %d: %s", w.Code, w.Body.String())
	}
}

func TestValidateJSONRejectsInvalidBody(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	e := newEcho(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	e.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a body missing the required property, got %d", w.Code)
	}
}

func TestValidateJSONRejectsMalformedBody(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	e := newEcho(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`not json`))
	e.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", w.Code)
	}
}
