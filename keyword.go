package jsonschema

import (
	"sort"

	"github.com/grbell-ms/json-everything/value"
)

// KeywordKind classifies a keyword's shape: applicators descend into
// subschemas, assertions are pure local predicates, annotations publish a
// value, locators influence the frame rather than (or in addition to)
// producing a result.
type KeywordKind int

const (
	KindApplicator KeywordKind = iota
	KindAssertion
	KindAnnotation
	KindLocator
)

// KeywordDef is the polymorphic keyword contract: a stable name, a
// priority (lower runs earlier), annotation dependencies that must be
// collected before it runs, a kind tag, and the evaluator itself.
// Concrete keywords register one of these via RegisterKeyword; see
// keywords_*.go.
type KeywordDef struct {
	Name           string
	Priority       int
	AnnotationDeps []string
	Kind           KeywordKind
	// Eval runs the keyword against the current frame (ec.current()). It
	// reports validation failures via ec.Fail/ec.Invalidate and returns a
	// non-nil error only for structural failures that must abort the whole
	// evaluation (malformed regex, unresolvable $ref, a detected cycle).
	Eval func(ec *EvalContext, ki *KeywordInstance) error
}

var keywordDefs = map[string]*KeywordDef{}

// RegisterKeyword adds a keyword variant to the engine-wide dispatch table.
// Extensibility is by registering new variants before evaluation starts,
// not by runtime class loading.
func RegisterKeyword(def *KeywordDef) {
	keywordDefs[def.Name] = def
}

func lookupKeyword(name string) (*KeywordDef, bool) {
	d, ok := keywordDefs[name]
	return d, ok
}

// KeywordInstance is a single keyword occurrence within a compiled Schema:
// its definition, its raw value (used by assertions/annotations), and any
// subschemas precompiled from it (used by applicators/locators).
type KeywordInstance struct {
	Def *KeywordDef
	Raw value.Value

	// Children holds subschemas found at a single location (posSelf) or at
	// successive array items (posItem), in document order.
	Children []*Schema
	// ChildrenNamed holds subschemas found at object-member positions
	// (posProp), keyed by member name.
	ChildrenNamed map[string]*Schema
}

// orderKeywords returns ks sorted into the dispatch order: keywords are
// grouped into dependency levels (a keyword's level is one past the
// maximum level of any keyword it names in AnnotationDeps that is also
// present), and within a level ties are broken by declared Priority, then
// lexicographically by name for determinism.
func orderKeywords(ks []*KeywordInstance) []*KeywordInstance {
	present := make(map[string]*KeywordInstance, len(ks))
	for _, k := range ks {
		present[k.Def.Name] = k
	}
	level := make(map[string]int, len(ks))
	var levelOf func(name string, seen map[string]bool) int
	levelOf = func(name string, seen map[string]bool) int {
		if v, ok := level[name]; ok {
			return v
		}
		ki, ok := present[name]
		if !ok {
			return 0
		}
		if seen[name] {
			return 0 // guard against a malformed dependency cycle
		}
		seen[name] = true
		max := 0
		for _, dep := range ki.Def.AnnotationDeps {
			if _, ok := present[dep]; !ok {
				continue
			}
			if l := levelOf(dep, seen); l+1 > max {
				max = l + 1
			}
		}
		level[name] = max
		return max
	}
	for _, k := range ks {
		levelOf(k.Def.Name, map[string]bool{})
	}

	out := append([]*KeywordInstance(nil), ks...)
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := level[out[i].Def.Name], level[out[j].Def.Name]
		if li != lj {
			return li < lj
		}
		if out[i].Def.Priority != out[j].Def.Priority {
			return out[i].Def.Priority < out[j].Def.Priority
		}
		return out[i].Def.Name < out[j].Def.Name
	})
	return out
}
