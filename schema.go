package jsonschema

import (
	"strconv"
	"strings"

	"github.com/grbell-ms/json-everything/pointer"
	"github.com/grbell-ms/json-everything/value"
)

// Schema is a compiled schema node: either a boolean leaf or an ordered
// set of keyword instances, tagged with the dialect and vocabulary set
// active at its resource and its location relative to the root schema it
// was compiled from.
type Schema struct {
	Boolean *bool

	BaseURI  string
	Dialect  *Draft
	VocabSet map[string]bool
	Location pointer.Pointer

	Keywords []*KeywordInstance

	resource *resource
}

// Compile builds a *Schema from doc using reg to resolve any references
// and intern the result. baseURI seeds resolution for a document with no
// top-level $id.
func Compile(reg *Registry, doc value.Value, baseURI string, opts Options) (*Schema, error) {
	return reg.Compile(doc, baseURI, opts)
}

// compileNode recursively compiles one schema location. vocabSet is the
// enclosing schema's active keyword set and is nil only for the document
// root; a resource root that declares $vocabulary replaces it, and every
// other node inherits it.
func (r *Registry) compileNode(rd *rootDoc, ptr pointer.Pointer, raw value.Value, base string, dialect *Draft, vocabSet map[string]bool, opts Options) (*Schema, error) {
	if raw.Kind() == value.KindBool {
		b, _ := raw.Bool()
		return &Schema{Boolean: &b, BaseURI: base, Dialect: dialect, VocabSet: vocabSet, Location: ptr}, nil
	}
	if raw.Kind() != value.KindObject {
		return nil, &MalformedSchemaError{Location: ptr.String(), Reason: "schema must be a boolean or an object"}
	}

	res, ok := rd.resources[base]
	if !ok {
		res = &resource{root: rd, baseURI: base, ptr: ptr, dialect: dialect, anchors: map[string]pointer.Pointer{}, dynamicAnchors: map[string]pointer.Pointer{}}
		rd.resources[base] = res
	}

	idKw := dialect.idKeyword
	if dialect.Version < 2019 {
		if _, ok := raw.Get("id"); ok {
			idKw = "id"
		}
	}
	idvStr, idvOk := "", false
	if idv, ok := raw.Get(idKw); ok && idv.Kind() == value.KindString {
		idvStr, idvOk = idv.String()
	}
	if idvOk && idvStr != "" {
		newBase := joinURI(base, idvStr)
		if newBase != base {
			base = newBase
			res, ok = rd.resources[base]
			if !ok {
				res = &resource{root: rd, baseURI: base, ptr: ptr, dialect: dialect, anchors: map[string]pointer.Pointer{}, dynamicAnchors: map[string]pointer.Pointer{}}
				rd.resources[base] = res
			}
		}
	}

	// $schema only changes the active dialect at a resource root (the
	// document root, or a node that just established a new $id base); a
	// sub-document $schema elsewhere is advisory and must not retroactively
	// change the dialect mid-document.
	if sv, ok := raw.Get("$schema"); ok && sv.Kind() == value.KindString && opts.EvaluateAs == nil && pointer.Equal(ptr, res.ptr) {
		schemaURL, _ := sv.String()
		if d := DraftFromURL(schemaURL); d != nil {
			dialect = d
			res.dialect = d
		}
	}

	declared := map[string]bool{}
	if vv, ok := raw.Get("$vocabulary"); ok && vv.Kind() == value.KindObject && dialect.Version >= 2019 && pointer.Equal(ptr, res.ptr) {
		for _, k := range vv.Keys() {
			mv, _ := vv.Get(k)
			b, _ := mv.Bool()
			declared[k] = mv.Kind() == value.KindBool && b
		}
	}
	activeVocabs := vocabSet
	if len(declared) > 0 || vocabSet == nil {
		uris, err := resolveVocabularies(dialect, declared, opts)
		if err != nil {
			return nil, err
		}
		activeVocabs = activeKeywordSet(uris, opts.vocabularies())
		for _, u := range uris {
			if strings.HasSuffix(u, "/format-assertion") {
				res.formatAssertive = true
			}
		}
	}

	if av, ok := raw.Get("$anchor"); ok && av.Kind() == value.KindString {
		name, _ := av.String()
		res.anchors[name] = ptr
	}
	if av, ok := raw.Get("$dynamicAnchor"); ok && av.Kind() == value.KindString {
		name, _ := av.String()
		res.dynamicAnchors[name] = ptr
		res.anchors[name] = ptr
	}
	if rv, ok := raw.Get("$recursiveAnchor"); ok {
		if b, _ := rv.Bool(); b {
			res.dynamicAnchors[""] = ptr
		}
	}

	sch := &Schema{BaseURI: base, Dialect: dialect, VocabSet: activeVocabs, Location: ptr, resource: res}
	rd.schemas[ptr.String()] = sch

	var kis []*KeywordInstance
	for _, name := range raw.Keys() {
		v, _ := raw.Get(name)
		def, known := lookupKeyword(name)
		recognized := activeVocabs[name] || (dialect.Version < 2019 && pre2019Keywords(dialect)[name]) || (name == "format" && opts.RequireFormatValidation)
		isPassthrough := false
		if !known {
			if !opts.ProcessCustomKeywords {
				continue
			}
			def = makePassthroughDef(name)
			isPassthrough = true
		} else if !recognized {
			if !opts.ProcessCustomKeywords {
				continue
			}
			def = makePassthroughDef(name)
			isPassthrough = true
		}

		ki := &KeywordInstance{Def: def, Raw: v}
		if pos, ok := dialect.subschemaPosition(name); ok && !isPassthrough {
			effPos := pos
			if pos&posSelf != 0 && pos&posItem != 0 {
				if v.Kind() == value.KindArray {
					effPos = posItem
				} else {
					effPos = posSelf
				}
			}
			switch {
			case effPos&posSelf != 0:
				child, err := r.compileNode(rd, ptr.Combine(name), v, base, dialect, activeVocabs, opts)
				if err != nil {
					return nil, err
				}
				ki.Children = []*Schema{child}
			case effPos&posItem != 0:
				for i, item := range v.Items() {
					child, err := r.compileNode(rd, ptr.Combine(name, strconv.Itoa(i)), item, base, dialect, activeVocabs, opts)
					if err != nil {
						return nil, err
					}
					ki.Children = append(ki.Children, child)
				}
			case effPos&posProp != 0:
				ki.ChildrenNamed = map[string]*Schema{}
				for _, k := range v.Keys() {
					mv, _ := v.Get(k)
					if name == "dependencies" && mv.Kind() != value.KindObject && mv.Kind() != value.KindBool {
						continue
					}
					child, err := r.compileNode(rd, ptr.Combine(name, k), mv, base, dialect, activeVocabs, opts)
					if err != nil {
						return nil, err
					}
					ki.ChildrenNamed[k] = child
				}
			}
		}
		kis = append(kis, ki)
	}

	sch.Keywords = orderKeywords(kis)
	return sch, nil
}

// makePassthroughDef returns the Annotation-kind keyword used for a
// custom/unrecognized keyword named name when Options.ProcessCustomKeywords
// is true: it simply republishes its own raw value as an annotation under
// its own name, never affecting validity.
func makePassthroughDef(name string) *KeywordDef {
	return &KeywordDef{
		Name: name,
		Kind: KindAnnotation,
		Eval: func(ec *EvalContext, ki *KeywordInstance) error {
			ec.Annotate(name, value.ToAny(ki.Raw))
			return nil
		},
	}
}
