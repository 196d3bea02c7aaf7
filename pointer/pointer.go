// Package pointer implements RFC 6901 JSON Pointers and the IETF relative
// JSON Pointer extension used to locate and compose paths into schemas and
// instances.
package pointer

import (
	"strconv"
	"strings"

	"github.com/grbell-ms/json-everything/value"
)

// Pointer is an immutable, cheaply composable sequence of unescaped
// segments. The empty Pointer denotes the document root.
type Pointer struct {
	segs []string
}

// Empty is the root pointer.
var Empty = Pointer{}

// Of builds a Pointer from already-unescaped segments.
func Of(segs ...string) Pointer {
	cp := make([]string, len(segs))
	copy(cp, segs)
	return Pointer{segs: cp}
}

// Parse parses the RFC 6901 string form ("" or starting with "/").
func Parse(s string) (Pointer, bool) {
	if s == "" {
		return Empty, true
	}
	if s[0] != '/' {
		return Pointer{}, false
	}
	parts := strings.Split(s[1:], "/")
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = Unescape(p)
	}
	return Pointer{segs: segs}, true
}

// MustParse parses s, panicking on malformed input; intended for literals.
func MustParse(s string) Pointer {
	p, ok := Parse(s)
	if !ok {
		panic("pointer: malformed JSON Pointer " + s)
	}
	return p
}

// Escape escapes '~' and '/' per RFC 6901.
func Escape(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	var b strings.Builder
	for _, r := range tok {
		switch r {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape.
func Unescape(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// String renders the RFC 6901 string form.
func (p Pointer) String() string {
	if len(p.segs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p.segs {
		b.WriteByte('/')
		b.WriteString(Escape(s))
	}
	return b.String()
}

// IsEmpty reports whether p is the root pointer.
func (p Pointer) IsEmpty() bool { return len(p.segs) == 0 }

// Len returns the number of segments.
func (p Pointer) Len() int { return len(p.segs) }

// Segments returns the unescaped segments; callers must not mutate it.
func (p Pointer) Segments() []string { return p.segs }

// Combine appends segments, returning a new Pointer.
func (p Pointer) Combine(segs ...string) Pointer {
	out := make([]string, len(p.segs)+len(segs))
	copy(out, p.segs)
	copy(out[len(p.segs):], segs)
	return Pointer{segs: out}
}

// CombinePointer concatenates two pointers.
func (p Pointer) CombinePointer(other Pointer) Pointer {
	return p.Combine(other.segs...)
}

// Parent returns the pointer with its last segment removed; it is a no-op
// on the root pointer.
func (p Pointer) Parent() Pointer {
	if len(p.segs) == 0 {
		return p
	}
	return Pointer{segs: p.segs[:len(p.segs)-1]}
}

// Last returns the final segment and true, or ("", false) for the root.
func (p Pointer) Last() (string, bool) {
	if len(p.segs) == 0 {
		return "", false
	}
	return p.segs[len(p.segs)-1], true
}

// Resolve navigates an instance tree by this pointer, returning
// value.Absent (ok=false) when any segment cannot be followed: "absent"
// distinguishes a missing path from a value that happens to be JSON null.
func (p Pointer) Resolve(root value.Value) (value.Value, bool) {
	cur := root
	for _, seg := range p.segs {
		switch cur.Kind() {
		case value.KindObject:
			v, ok := cur.Get(seg)
			if !ok {
				return value.Absent, false
			}
			cur = v
		case value.KindArray:
			idx, ok := arrayIndex(seg, cur.Len())
			if !ok {
				return value.Absent, false
			}
			cur = cur.Index(idx)
		default:
			return value.Absent, false
		}
	}
	return cur, true
}

// arrayIndex parses an array-index segment per RFC 6901: no leading zeros
// except the literal "0", and "-" denotes the (non-existent) end marker.
func arrayIndex(seg string, length int) (int, bool) {
	if seg == "-" {
		return length, false // valid syntax, but never resolvable on read
	}
	if seg == "0" {
		return 0, 0 < length
	}
	if len(seg) == 0 || seg[0] == '0' || seg[0] == '-' {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil || n >= length {
		return 0, false
	}
	return n, true
}

// Equal reports structural equality of two pointers.
func Equal(a, b Pointer) bool {
	if len(a.segs) != len(b.segs) {
		return false
	}
	for i := range a.segs {
		if a.segs[i] != b.segs[i] {
			return false
		}
	}
	return true
}
