package jsonschema

import "strings"

// position tells where a keyword's value holds subschemas: a keyword's
// subschema(s) may sit directly at the keyword's value (posSelf), at each
// array item (posItem), or at each object member's value (posProp).
type position uint

const (
	posSelf position = 1 << iota
	posProp
	posItem
)

// Draft describes one schema dialect's identity keyword, its map of
// subschema-bearing keywords, and (2019-09+) the vocabulary URIs it
// recognizes by default.
type Draft struct {
	Version       int
	URL           string
	idKeyword     string // "$id" in every built-in draft; compileNode also accepts "id" before 2019.
	subschemas    map[string]position
	vocabPrefix   string
	allVocabs     []string
	defaultVocabs []string
}

// Name returns a human-readable dialect name.
func (d *Draft) Name() string {
	switch d.Version {
	case 6:
		return "draft-06"
	case 7:
		return "draft-07"
	case 2019:
		return "2019-09"
	case 2020:
		return "2020-12"
	case 2099:
		return "next"
	default:
		return "unknown"
	}
}

func joinPositions(m1, m2 map[string]position) map[string]position {
	m := make(map[string]position, len(m1)+len(m2))
	for k, v := range m1 {
		m[k] = v
	}
	for k, v := range m2 {
		m[k] = v
	}
	return m
}

var (
	draft6Subschemas = map[string]position{
		"$defs":                posProp,
		"not":                  posSelf,
		"allOf":                posItem,
		"anyOf":                posItem,
		"oneOf":                posItem,
		"properties":           posProp,
		"additionalProperties": posSelf,
		"patternProperties":    posProp,
		"propertyNames":        posSelf,
		"items":                posSelf | posItem,
		"additionalItems":      posSelf,
		"contains":             posSelf,
	}

	// Draft6 is the earliest supported dialect: $id/$ref/anchors via id
	// fragments, no if/then/else; subschema containers are "definitions"
	// and, as in every dialect here, "$defs".
	Draft6 = &Draft{
		Version:   6,
		URL:       "http://json-schema.org/draft-06/schema",
		idKeyword: "$id",
		subschemas: joinPositions(draft6Subschemas, map[string]position{
			"definitions":  posProp,
			"dependencies": posProp,
		}),
	}

	// Draft7 adds if/then/else.
	Draft7 = &Draft{
		Version:   7,
		URL:       "http://json-schema.org/draft-07/schema",
		idKeyword: "$id",
		subschemas: joinPositions(Draft6.subschemas, map[string]position{
			"if":   posSelf,
			"then": posSelf,
			"else": posSelf,
		}),
	}

	// Draft2019 introduces vocabularies, $anchor/$dynamicAnchor (recursive
	// variants), $defs, dependentSchemas, unevaluated*.
	Draft2019 = &Draft{
		Version:   2019,
		URL:       "https://json-schema.org/draft/2019-09/schema",
		idKeyword: "$id",
		subschemas: joinPositions(Draft7.subschemas, map[string]position{
			"$defs":                 posProp,
			"dependentSchemas":      posProp,
			"unevaluatedProperties": posSelf,
			"unevaluatedItems":      posSelf,
			"contentSchema":         posSelf,
		}),
		vocabPrefix: "https://json-schema.org/draft/2019-09/vocab/",
		allVocabs:   []string{"core", "applicator", "validation", "meta-data", "format", "content"},
		defaultVocabs: []string{
			"https://json-schema.org/draft/2019-09/vocab/core",
			"https://json-schema.org/draft/2019-09/vocab/applicator",
			"https://json-schema.org/draft/2019-09/vocab/validation",
		},
	}

	// Draft2020 replaces $recursiveRef with $dynamicRef/$dynamicAnchor and
	// adds prefixItems/items-as-single-schema, splitting unevaluated into
	// its own vocabulary.
	Draft2020 = &Draft{
		Version:   2020,
		URL:       "https://json-schema.org/draft/2020-12/schema",
		idKeyword: "$id",
		subschemas: joinPositions(Draft2019.subschemas, map[string]position{
			"prefixItems": posItem,
		}),
		vocabPrefix: "https://json-schema.org/draft/2020-12/vocab/",
		allVocabs:   []string{"core", "applicator", "unevaluated", "validation", "meta-data", "format-annotation", "format-assertion", "content"},
		defaultVocabs: []string{
			"https://json-schema.org/draft/2020-12/vocab/core",
			"https://json-schema.org/draft/2020-12/vocab/applicator",
			"https://json-schema.org/draft/2020-12/vocab/unevaluated",
			"https://json-schema.org/draft/2020-12/vocab/validation",
		},
	}

	// DraftNext is an engine-local "next" dialect: same shape as 2020-12
	// plus format-assertion on by default, used to exercise the dispatcher
	// with a dialect that isn't one of the four standard ones.
	DraftNext = &Draft{
		Version:    2099,
		URL:        "https://json-schema.org/draft/next/schema",
		idKeyword:  "$id",
		subschemas: Draft2020.subschemas,
		vocabPrefix: "https://json-schema.org/draft/next/vocab/",
		allVocabs:   Draft2020.allVocabs,
		defaultVocabs: []string{
			"https://json-schema.org/draft/next/vocab/core",
			"https://json-schema.org/draft/next/vocab/applicator",
			"https://json-schema.org/draft/next/vocab/unevaluated",
			"https://json-schema.org/draft/next/vocab/validation",
			"https://json-schema.org/draft/next/vocab/format-assertion",
		},
	}

	allDrafts = []*Draft{Draft6, Draft7, Draft2019, Draft2020, DraftNext}

	draftLatest = Draft2020
)

// DraftFromVersion returns the built-in Draft for a version tag (6, 7,
// 2019, 2020, or 2099 for DraftNext), or nil if unrecognized.
func DraftFromVersion(version int) *Draft {
	for _, d := range allDrafts {
		if d.Version == version {
			return d
		}
	}
	return nil
}

// DraftFromURL maps a $schema value to a built-in Draft, tolerating the
// http/https scheme ambiguity and a trailing "#".
func DraftFromURL(url string) *Draft {
	u := strings.TrimSuffix(url, "#")
	if strings.ContainsRune(u, '#') {
		return nil // a non-trailing fragment never identifies a built-in draft.
	}
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	switch u {
	case "json-schema.org/schema":
		return draftLatest
	case "json-schema.org/draft/2020-12/schema":
		return Draft2020
	case "json-schema.org/draft/2019-09/schema":
		return Draft2019
	case "json-schema.org/draft-07/schema":
		return Draft7
	case "json-schema.org/draft-06/schema":
		return Draft6
	default:
		return nil
	}
}

// subschemaPosition reports whether kw is known to carry subschemas in
// this draft, and how (posSelf/posProp/posItem).
func (d *Draft) subschemaPosition(kw string) (position, bool) {
	p, ok := d.subschemas[kw]
	return p, ok
}
