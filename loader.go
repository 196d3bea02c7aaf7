package jsonschema

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/grbell-ms/json-everything/decode"
	"github.com/grbell-ms/json-everything/value"
)

// Loader fetches an external schema document by absolute URI, returning
// its decoded value. $ref/$dynamicRef/$recursiveRef targets outside the
// registered document set go through this.
type Loader interface {
	Load(uri string) (value.Value, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(uri string) (value.Value, error)

func (f LoaderFunc) Load(uri string) (value.Value, error) { return f(uri) }

// httpFileLoader resolves http(s):// via a bounded-timeout client and
// file:// from local disk; any other scheme is a descriptive error rather
// than a silent failure, matching the registry's own error shape.
type httpFileLoader struct {
	client *http.Client
	driver decode.Driver
}

// DefaultLoader returns a Loader that serves http://, https://, and
// file:// schema references, decoding bodies with the engine's default
// JSON driver (or the YAML driver when the URI ends in .yaml/.yml).
func DefaultLoader() Loader {
	return &httpFileLoader{
		client: &http.Client{Timeout: 10 * time.Second},
		driver: decode.Default(),
	}
}

func (l *httpFileLoader) Load(uri string) (value.Value, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return value.Value{}, fmt.Errorf("jsonschema: invalid reference URI %q: %w", uri, err)
	}

	var body []byte
	switch u.Scheme {
	case "http", "https":
		resp, err := l.client.Get(uri)
		if err != nil {
			return value.Value{}, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return value.Value{}, fmt.Errorf("jsonschema: fetching %q: HTTP %d", uri, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return value.Value{}, err
		}
	case "file":
		body, err = os.ReadFile(u.Path)
		if err != nil {
			return value.Value{}, err
		}
	case "":
		body, err = os.ReadFile(uri)
		if err != nil {
			return value.Value{}, err
		}
	default:
		return value.Value{}, fmt.Errorf("jsonschema: unsupported reference scheme %q in %q", u.Scheme, uri)
	}

	driver := l.driver
	if strings.HasSuffix(uri, ".yaml") || strings.HasSuffix(uri, ".yml") {
		if d, ok := decode.ByName("yaml"); ok {
			driver = d
		}
	}
	return driver.Decode(body)
}
