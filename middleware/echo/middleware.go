// Package echomw adapts the engine's body-validation middleware to echo.
package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	jsonschema "github.com/grbell-ms/json-everything"
	"github.com/grbell-ms/json-everything/middleware"
)

// ValidateJSON returns an echo.MiddlewareFunc that validates the request
// body against schema before invoking next, storing the Result in the
// request context on success.
func ValidateJSON(schema *jsonschema.Schema, opts jsonschema.Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := middleware.ValidateBody(c.Request().Context(), schema, c.Request().Body, opts, nil)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			out := jsonschema.Format(res, opts.OutputFormat)
			if !out.Valid {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(out))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithResult(c.Request().Context(), res)))
			return next(c)
		}
	}
}

// GetResult fetches the Result stored by ValidateJSON from echo.Context.
func GetResult(c echo.Context) (*jsonschema.Result, bool) {
	return middleware.ResultFromContext(c.Request().Context())
}
