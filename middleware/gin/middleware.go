// Package ginmw adapts the engine's body-validation middleware to gin.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/middleware"
)

// ValidateJSON validates the incoming request body against schema, storing
// the Result in the request context and letting the handler run on
// success. On failure it responds 400 with the detailed error payload and
// aborts the chain.
func ValidateJSON(schema *jsonschema.Schema, opts jsonschema.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := middleware.ValidateBody(c.Request.Context(), schema, c.Request.Body, opts, nil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		out := jsonschema.Format(res, opts.OutputFormat)
		if !out.Valid {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(out))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithResult(c.Request.Context(), res))
		c.Next()
	}
}

// GetResult fetches the Result stored by ValidateJSON from gin.Context.
func GetResult(c *gin.Context) (*jsonschema.Result, bool) {
	return middleware.ResultFromContext(c.Request.Context())
}
