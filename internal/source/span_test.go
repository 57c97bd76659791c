package source

import "testing"

func TestJoinIdempotent(t *testing.T) {
	s := Span{File: 1, Lo: 2, Hi: 5}
	if got := s.Join(s); got != s {
		t.Fatalf("s|s = %v, want %v", got, s)
	}
}

func TestJoinAssociative(t *testing.T) {
	a := Span{File: 1, Lo: 0, Hi: 2}
	b := Span{File: 1, Lo: 3, Hi: 6}
	c := Span{File: 1, Lo: 7, Hi: 9}
	left := a.Join(b).Join(c)
	right := a.Join(b.Join(c))
	if left != right {
		t.Fatalf("(a|b)|c = %v, a|(b|c) = %v", left, right)
	}
}

func TestJoinDummyIsIdentity(t *testing.T) {
	s := Span{File: 1, Lo: 2, Hi: 5}
	if got := Dummy.Join(s); got != s {
		t.Fatalf("dummy|s = %v, want %v", got, s)
	}
	if got := s.Join(Dummy); got != s {
		t.Fatalf("s|dummy = %v, want %v", got, s)
	}
}

func TestIdentEqualityIgnoresSpan(t *testing.T) {
	in := NewInterner()
	a := NewIdent(in, "foo", Span{File: 1, Lo: 0, Hi: 3})
	b := NewIdent(in, "foo", Span{File: 2, Lo: 10, Hi: 13})
	if !a.Equal(b) {
		t.Fatalf("identifiers with equal text should be equal regardless of span")
	}
}

func TestInternerReturnsStableIDs(t *testing.T) {
	in := NewInterner()
	id1 := in.Intern("bar")
	id2 := in.Intern("bar")
	if id1 != id2 {
		t.Fatalf("interning the same text twice should return the same id")
	}
	text, ok := in.Lookup(id1)
	if !ok || text != "bar" {
		t.Fatalf("lookup got (%q, %v), want (bar, true)", text, ok)
	}
}
