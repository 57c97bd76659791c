package diag

import (
	"testing"

	"corefront/internal/source"
)

func TestBagCapacity(t *testing.T) {
	b := NewBag(1)
	if !b.Emit(Error(TypeNotFound, "first", source.Dummy)) {
		t.Fatalf("first emit within capacity should succeed")
	}
	if b.Emit(Error(TypeNotFound, "second", source.Dummy)) {
		t.Fatalf("emit beyond capacity should fail")
	}
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Emit(Warning(AmbiguousType, "warn", source.Dummy))
	if b.HasErrors() {
		t.Fatalf("a warning-only bag should not report errors")
	}
	b.Emit(Error(Mismatch, "bad", source.Dummy))
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an error")
	}
}

func TestSortOrder(t *testing.T) {
	b := NewBag(8)
	b.Emit(Error(Mismatch, "b", source.Span{File: 1, Lo: 5, Hi: 6}))
	b.Emit(Warning(AmbiguousType, "a", source.Span{File: 1, Lo: 1, Hi: 2}))
	b.Sort()
	items := b.Items()
	if items[0].Title != "a" || items[1].Title != "b" {
		t.Fatalf("expected sort by span start, got %v then %v", items[0].Title, items[1].Title)
	}
}
