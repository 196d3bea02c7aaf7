package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	jsonschema "github.com/grbell-ms/json-everything"
	ginmw "github.com/grbell-ms/json-everything/middleware/gin"
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

func newRouter(sch *jsonschema.Schema, opts jsonschema.Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", ginmw.ValidateJSON(sch, opts), func(c *gin.Context) {
		res, ok := ginmw.GetResult(c)
		if !ok || !res.Valid {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no valid result attached"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestValidateJSONLetsValidBodyThrough(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	r := newRouter(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"ada"}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid body, got %d: %s", w.Code, w.Body.String())
	}
}

func TestValidateJSONRejectsInvalidBody(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	r := newRouter(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a body missing the required property, got %d", w.Code)
	}
}

func TestValidateJSONRejectsMalformedBody(t *testing.T) {
	sch := compileStringSchema(t)
	opts := jsonschema.DefaultOptions()
	opts.Registry = jsonschema.NewRegistry(nil)
	r := newRouter(sch, opts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`not json`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", w.Code)
	}
}
