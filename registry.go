package jsonschema

import (
	"fmt"
	"strings"

	"github.com/grbell-ms/json-everything/pointer"
	"github.com/grbell-ms/json-everything/value"
)

// Registry is the schema cache and reference resolver: it interns
// compiled schemas by absolute URI, tracks each root document's internal
// resources (the $id boundaries within it) and their anchors, and fetches
// external documents lazily through a Loader.
type Registry struct {
	loader Loader

	roots    map[string]*rootDoc // canonical base URI (no fragment) -> parsed root document
	compiled map[string]*Schema  // absolute URI (may include a fragment) -> compiled schema
}

// rootDoc is one fetched-or-registered schema document together with the
// resource map discovered inside it: every $id boundary's base URI,
// dialect, and the anchors/dynamic anchors it declares.
type rootDoc struct {
	url string
	doc value.Value

	resources map[string]*resource // base URI -> resource
	schemas   map[string]*Schema   // schema pointer (within doc) -> compiled schema
	compiled  bool
}

// resource is one $id-delimited region of a root document.
type resource struct {
	root            *rootDoc
	baseURI         string
	ptr             pointer.Pointer // location of this resource's root within doc
	dialect         *Draft
	anchors         map[string]pointer.Pointer
	dynamicAnchors  map[string]pointer.Pointer
	formatAssertive bool // this resource declared the format-assertion vocabulary
}

// NewRegistry returns an empty Registry that fetches external references
// through loader. A nil loader leaves external $ref unresolved (every
// fetch attempt becomes a ReferenceResolutionError).
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		loader:   loader,
		roots:    map[string]*rootDoc{},
		compiled: map[string]*Schema{},
	}
}

// Register interns a schema document under uri without compiling it yet;
// compilation happens lazily the first time Get or Compile needs it. This
// lets callers preload a set of documents (e.g. $ref targets) before
// evaluating anything.
func (r *Registry) Register(uri string, doc value.Value) {
	uri = canonicalURI(uri)
	r.roots[uri] = &rootDoc{url: uri, doc: doc, resources: map[string]*resource{}, schemas: map[string]*Schema{}}
}

func (r *Registry) fetchRoot(baseURI string, opts Options) (*rootDoc, error) {
	if rd, ok := r.roots[baseURI]; ok {
		return rd, nil
	}
	if r.loader == nil {
		return nil, &ReferenceResolutionError{URI: baseURI, Reason: "no loader configured"}
	}
	doc, err := r.loader.Load(baseURI)
	if err != nil {
		return nil, &LoaderError{URI: baseURI, Cause: err}
	}
	rd := &rootDoc{url: baseURI, doc: doc, resources: map[string]*resource{}, schemas: map[string]*Schema{}}
	r.roots[baseURI] = rd
	return rd, nil
}

// Compile builds a *Schema from root, using baseURI as the document's
// default base (used when root has no top-level $id) and opts to pick the
// dialect, active vocabularies, and custom-keyword policy.
func (r *Registry) Compile(root value.Value, baseURI string, opts Options) (*Schema, error) {
	baseURI = canonicalURI(baseURI)
	rd := &rootDoc{url: baseURI, doc: root, resources: map[string]*resource{}, schemas: map[string]*Schema{}}
	r.roots[baseURI] = rd

	dialect := draftLatest
	if opts.EvaluateAs != nil {
		dialect = opts.EvaluateAs
	} else if s, ok := topLevelSchemaDraft(root); ok {
		dialect = s
	}

	sch, err := r.compileNode(rd, pointer.Empty, root, baseURI, dialect, nil, opts)
	if err != nil {
		return nil, err
	}
	rd.compiled = true
	r.compiled[baseURI] = sch
	for base, res := range rd.resources {
		if rsch, ok := r.schemaAt(rd, res.ptr); ok {
			r.compiled[base] = rsch
		}
	}
	return sch, nil
}

// schemaAt is a placeholder hook for resource-rooted recompilation lookup;
// resources are compiled inline as part of the single top-down pass in
// compileNode, so the pointer always resolves to the same *Schema object
// already produced there. Kept as a seam for Get's cross-document lookups.
func (r *Registry) schemaAt(rd *rootDoc, ptr pointer.Pointer) (*Schema, bool) {
	sch, ok := rd.schemas[ptr.String()]
	return sch, ok
}

func topLevelSchemaDraft(root value.Value) (*Draft, bool) {
	if root.Kind() != value.KindObject {
		return nil, false
	}
	sv, ok := root.Get("$schema")
	if !ok || sv.Kind() != value.KindString {
		return nil, false
	}
	schemaURL, _ := sv.String()
	d := DraftFromURL(schemaURL)
	return d, d != nil
}

// Get resolves an absolute URI (with or without a fragment) to a compiled
// *Schema, fetching and compiling its root document on first use.
func (r *Registry) Get(uri string, opts Options) (*Schema, error) {
	uri = canonicalURI(uri)
	if sch, ok := r.compiled[uri]; ok {
		return sch, nil
	}
	base, frag := splitFragment(uri)
	var rd *rootDoc
	resPtr := pointer.Empty
	if bs, ok := r.compiled[base]; ok && bs.resource != nil && bs.resource.root.compiled {
		// base names an already-compiled resource (a document or an
		// embedded $id); a pointer fragment is relative to its root.
		rd, resPtr = bs.resource.root, bs.Location
	} else {
		fetched, err := r.fetchRoot(base, opts)
		if err != nil {
			return nil, err
		}
		rd = fetched
		if !rd.compiled {
			if _, err := r.Compile(rd.doc, base, opts); err != nil {
				return nil, err
			}
			rd = r.roots[base]
		}
	}

	if frag == "" || strings.HasPrefix(frag, "/") {
		ptr, ok := pointer.Parse(frag)
		if !ok {
			return nil, &ReferenceResolutionError{URI: uri, Reason: "malformed pointer fragment"}
		}
		ptr = resPtr.CombinePointer(ptr)
		if sch, ok := rd.schemas[ptr.String()]; ok {
			r.compiled[uri] = sch
			return sch, nil
		}
		return nil, &ReferenceResolutionError{URI: uri, Reason: "no schema at pointer " + ptr.String()}
	}

	// Anchor fragment: search every resource's anchor table.
	for _, res := range rd.resources {
		if ap, ok := res.anchors[frag]; ok {
			if sch, ok := rd.schemas[ap.String()]; ok {
				r.compiled[uri] = sch
				return sch, nil
			}
		}
	}
	return nil, &ReferenceResolutionError{URI: uri, Reason: "unknown anchor " + frag}
}

// FindDynamicAnchor walks the dynamic scope outermost-first (the
// $dynamicRef algorithm) looking for the first resource that declares
// anchor as a $dynamicAnchor, matching $dynamicRef's resolution rule.
func (r *Registry) FindDynamicAnchor(scope []*resource, anchor string) (*Schema, bool) {
	for _, res := range scope {
		if res == nil || res.root == nil {
			continue
		}
		if ap, ok := res.dynamicAnchors[anchor]; ok {
			if sch, ok := res.root.schemas[ap.String()]; ok {
				return sch, true
			}
		}
	}
	return nil, false
}

func canonicalURI(u string) string {
	u = strings.TrimSuffix(u, "#")
	return u
}

func splitFragment(u string) (base, frag string) {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i], u[i+1:]
	}
	return u, ""
}

func joinURI(base, ref string) string {
	if ref == "" {
		return base
	}
	if strings.Contains(ref, "://") {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		b, _ := splitFragment(base)
		return b + ref
	}
	if strings.HasPrefix(ref, "/") {
		if i := strings.Index(base, "://"); i >= 0 {
			if j := strings.IndexByte(base[i+3:], '/'); j >= 0 {
				return base[:i+3+j] + ref
			}
			return base[:i+3] + ref
		}
		return ref
	}
	// relative path join against base's directory.
	b, _ := splitFragment(base)
	if i := strings.LastIndexByte(b, '/'); i >= 0 {
		return b[:i+1] + ref
	}
	return fmt.Sprintf("%s/%s", b, ref)
}
