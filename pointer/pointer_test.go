package pointer

import (
	"testing"

	"github.com/grbell-ms/json-everything/value"
)

func TestParseAndString(t *testing.T) {
	cases := []string{"", "/a", "/a/b", "/a~1b/c~0d", "/0/1"}
	for _, s := range cases {
		p, ok := Parse(s)
		if !ok {
			t.Fatalf("Parse(%q) failed", s)
		}
		if got := p.String(); got != s {
			t.Fatalf("roundtrip mismatch: Parse(%q).String() = %q", s, got)
		}
	}
}

func TestParseRejectsMissingLeadingSlash(t *testing.T) {
	if _, ok := Parse("a/b"); ok {
		t.Fatalf("expected Parse to reject a pointer missing its leading slash")
	}
}

func TestEscapeUnescape(t *testing.T) {
	tok := "a~b/c"
	esc := Escape(tok)
	if esc != "a~0b~1c" {
		t.Fatalf("Escape(%q) = %q", tok, esc)
	}
	if got := Unescape(esc); got != tok {
		t.Fatalf("Unescape(Escape(%q)) = %q", tok, got)
	}
}

func TestResolveDistinguishesMissingFromNull(t *testing.T) {
	doc := value.NewObject().Set("a", value.Null).Build()

	v, ok := MustParse("/a").Resolve(doc)
	if !ok || !v.IsNull() {
		t.Fatalf("expected present null at /a, got %v, %v", v, ok)
	}

	v, ok = MustParse("/b").Resolve(doc)
	if ok || !v.IsAbsent() {
		t.Fatalf("expected absent at /b, got %v, %v", v, ok)
	}
}

func TestResolveArrayIndex(t *testing.T) {
	doc := value.Array(value.Int64(10), value.Int64(20))

	v, ok := MustParse("/1").Resolve(doc)
	if !ok {
		t.Fatalf("expected /1 to resolve")
	}
	f, _ := v.Float64()
	if f != 20 {
		t.Fatalf("expected 20, got %v", f)
	}

	if _, ok := MustParse("/2").Resolve(doc); ok {
		t.Fatalf("expected out-of-range index to fail to resolve")
	}
	if _, ok := MustParse("/-").Resolve(doc); ok {
		t.Fatalf("expected '-' index to fail to resolve")
	}
	if _, ok := MustParse("/01").Resolve(doc); ok {
		t.Fatalf("expected leading-zero index to fail to resolve")
	}
}

func TestCombineAndParent(t *testing.T) {
	p := Of("a").Combine("b", "c")
	if p.String() != "/a/b/c" {
		t.Fatalf("Combine produced %q", p.String())
	}
	if got := p.Parent().String(); got != "/a/b" {
		t.Fatalf("Parent produced %q", got)
	}
	last, ok := p.Last()
	if !ok || last != "c" {
		t.Fatalf("Last() = %q, %v", last, ok)
	}
}

func TestEqual(t *testing.T) {
	a := Of("a", "b")
	b := Of("a", "b")
	c := Of("a", "c")
	if !Equal(a, b) {
		t.Fatalf("expected equal pointers to compare equal")
	}
	if Equal(a, c) {
		t.Fatalf("expected differing pointers to compare unequal")
	}
}

func TestParseRelative(t *testing.T) {
	cases := []struct {
		in         string
		up         int
		hasDelta   bool
		indexDelta int
		nameOf     bool
		suffix     string
	}{
		{"0", 0, false, 0, false, ""},
		{"1/foo/bar", 1, false, 0, false, "/foo/bar"},
		{"2#", 2, false, 0, true, ""},
		{"0+1", 0, true, 1, false, ""},
		{"0-1/name", 0, true, -1, false, "/name"},
	}
	for _, c := range cases {
		r, err := ParseRelative(c.in)
		if err != nil {
			t.Fatalf("ParseRelative(%q) error: %v", c.in, err)
		}
		if r.Up != c.up || r.HasDelta != c.hasDelta || r.IndexDelta != c.indexDelta || r.NameOf != c.nameOf {
			t.Fatalf("ParseRelative(%q) = %+v, want up=%d delta=%d/%v nameOf=%v", c.in, r, c.up, c.indexDelta, c.hasDelta, c.nameOf)
		}
		if r.Suffix.String() != c.suffix {
			t.Fatalf("ParseRelative(%q).Suffix = %q, want %q", c.in, r.Suffix.String(), c.suffix)
		}
	}
}

func TestParseRelativeRejectsLeadingZeroUpCount(t *testing.T) {
	if _, err := ParseRelative("01"); err == nil {
		t.Fatalf("expected error for leading zero up-count")
	}
}

func TestParseRelativeRejectsEmpty(t *testing.T) {
	if _, err := ParseRelative(""); err == nil {
		t.Fatalf("expected error for empty relative pointer")
	}
}
