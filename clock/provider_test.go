package clock

import "testing"

func TestProviderNextIsMonotonic(t *testing.T) {
	p := NewProvider[string]("A", Constant)
	first := p.Next()
	second := p.Next()
	if second.PartialOrder(first) != Descending {
		t.Fatalf("successive Next() calls should strictly descend, got %v", second.PartialOrder(first))
	}
	if p.Actor() != "A" {
		t.Fatalf("Actor() = %q, want %q", p.Actor(), "A")
	}
}

func TestProviderMergeAbsorbsRemote(t *testing.T) {
	p := NewProvider[string]("A", Constant)
	p.Next()

	remote := New[string](Constant).Increment("B").Increment("B")
	p.Merge(remote)

	if p.Current().Get("B") != 2 {
		t.Fatalf("expected merged counter for B to be 2, got %d", p.Current().Get("B"))
	}
	if p.Current().Get("A") != 1 {
		t.Fatalf("merge should not clobber the provider's own counter, got %d", p.Current().Get("A"))
	}
}

func TestProviderCloneIsIndependent(t *testing.T) {
	p := NewProvider[string]("A", Constant)
	p.Next()

	clone := p.Clone()
	clone.Next()

	if p.Current().Get("A") == clone.Current().Get("A") {
		t.Fatalf("mutating a clone should not affect the original provider")
	}
}
