package patrol

import "testing"

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected miss for unknown id")
	}

	r.Add("p1", nil, nil)
	r.Add("p2", nil, nil)
	if r.Count() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Count())
	}

	if _, ok := r.Get("p1"); !ok {
		t.Fatal("expected to find p1")
	}

	if _, ok := r.Remove("p1"); !ok {
		t.Fatal("expected to remove p1")
	}
	if _, ok := r.Get("p1"); ok {
		t.Fatal("p1 should be gone after removal")
	}
	if r.Count() != 1 {
		t.Fatalf("expected 1 session left, got %d", r.Count())
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Add("p1", nil, nil)

	if _, ok := r.Remove("p1"); !ok {
		t.Fatal("first removal should succeed")
	}
	if _, ok := r.Remove("p1"); ok {
		t.Fatal("second removal should report a miss")
	}
}
