package arena

import "testing"

func TestPushGet(t *testing.T) {
	a := New[int]()
	id := a.Push(42)
	v, ok := a.Get(id)
	if !ok || v != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", v, ok)
	}
}

func TestReserveThenInsert(t *testing.T) {
	a := New[string]()
	id := a.Reserve()
	if _, ok := a.Get(id); ok {
		t.Fatalf("reserved slot should read as empty before Insert")
	}
	a.Insert(id, "hello")
	v, ok := a.Get(id)
	if !ok || v != "hello" {
		t.Fatalf("got (%v, %v), want (hello, true)", v, ok)
	}
}

func TestRemoveThenPushReusesIndexNotData(t *testing.T) {
	a := New[int]()
	id := a.Push(1)
	removed, ok := a.Remove(id)
	if !ok || removed != 1 {
		t.Fatalf("remove got (%v, %v)", removed, ok)
	}
	if _, ok := a.Get(id); ok {
		t.Fatalf("removed slot should read empty")
	}
	id2 := a.Push(2)
	if id2.RawIndex() != id.RawIndex() {
		t.Fatalf("expected index reuse, got %d != %d", id2.RawIndex(), id.RawIndex())
	}
	v, ok := a.Get(id2)
	if !ok || v != 2 {
		t.Fatalf("reused slot should hold fresh data, got (%v, %v)", v, ok)
	}
}

func TestIdEqualityIsIndexEquality(t *testing.T) {
	a := New[int]()
	id1 := a.Push(10)
	id2 := a.Push(20)
	if id1 == id2 {
		t.Fatalf("distinct pushes should not share an id")
	}
	if id1 != id1 {
		t.Fatalf("an id should equal itself")
	}
}

func TestCast(t *testing.T) {
	type A struct{ X int }
	type B struct{ Y string }
	a := New[A]()
	idA := a.Push(A{X: 1})
	idB := Cast[A, B](idA)
	if idB.RawIndex() != idA.RawIndex() {
		t.Fatalf("cast must preserve raw index")
	}
}

func TestAllIterationOrder(t *testing.T) {
	a := New[int]()
	a.Push(1)
	a.Push(2)
	a.Push(3)
	var sum int
	var got []int
	for _, v := range a.All {
		got = append(got, v)
		sum += v
	}
	if sum != 6 {
		t.Fatalf("sum = %d, want 6", sum)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("All yielded %v, want [1 2 3]", got)
	}
}
