package binding

import "testing"

func TestBindFirstTime(t *testing.T) {
	snap, outcome := Bind(NewSnapshot(), "U1", "Alice")

	if outcome != OutcomeBound {
		t.Errorf("expected outcome bound, got %s", outcome)
	}
	if name, ok := snap.Name("U1"); !ok || name != "Alice" {
		t.Errorf("expected U1 bound to Alice, got %q (ok=%v)", name, ok)
	}
	if id, ok := snap.UserID("Alice"); !ok || id != "U1" {
		t.Errorf("expected Alice resolving to U1, got %q (ok=%v)", id, ok)
	}
}

func TestBindRebindRemovesOldReverseEntry(t *testing.T) {
	snap, _ := Bind(NewSnapshot(), "U1", "A")
	snap, outcome := Bind(snap, "U1", "B")

	if outcome != OutcomeUpdated {
		t.Errorf("expected outcome updated, got %s", outcome)
	}
	if name, _ := snap.Name("U1"); name != "B" {
		t.Errorf("expected U1 bound to B, got %q", name)
	}
	if _, ok := snap.UserID("A"); ok {
		t.Error("stale reverse entry for A should have been removed")
	}
	if id, _ := snap.UserID("B"); id != "U1" {
		t.Errorf("expected B resolving to U1, got %q", id)
	}
}

func TestBindSameNameTwiceStaysBound(t *testing.T) {
	snap, first := Bind(NewSnapshot(), "U1", "A")
	snap, second := Bind(snap, "U1", "A")

	if first != OutcomeBound {
		t.Errorf("first bind: expected bound, got %s", first)
	}
	// Rebinding the identical name is not a name change, so it reports
	// bound again rather than updated.
	if second != OutcomeBound {
		t.Errorf("identical rebind: expected bound, got %s", second)
	}
	if name, _ := snap.Name("U1"); name != "A" {
		t.Errorf("expected U1 bound to A, got %q", name)
	}
	if id, _ := snap.UserID("A"); id != "U1" {
		t.Errorf("expected A resolving to U1, got %q", id)
	}
}

func TestBindNameTheft(t *testing.T) {
	snap, _ := Bind(NewSnapshot(), "U1", "Shared")
	snap, outcome := Bind(snap, "U2", "Shared")

	if outcome != OutcomeBound {
		t.Errorf("expected outcome bound, got %s", outcome)
	}
	// Last write wins on the reverse index: the name now resolves to U2,
	// while U1's forward entry is left in place (and inconsistent).
	if id, _ := snap.UserID("Shared"); id != "U2" {
		t.Errorf("expected Shared resolving to U2, got %q", id)
	}
	if name, ok := snap.Name("U1"); !ok || name != "Shared" {
		t.Errorf("expected U1 forward entry untouched, got %q (ok=%v)", name, ok)
	}
}

func TestBindVictimRebindDoesNotClobberThief(t *testing.T) {
	snap, _ := Bind(NewSnapshot(), "U1", "Shared")
	snap, _ = Bind(snap, "U2", "Shared")
	// U1 rebinds away; the reverse entry for Shared belongs to U2 now
	// and must survive.
	snap, _ = Bind(snap, "U1", "Other")

	if id, _ := snap.UserID("Shared"); id != "U2" {
		t.Errorf("expected Shared still resolving to U2, got %q", id)
	}
	if id, _ := snap.UserID("Other"); id != "U1" {
		t.Errorf("expected Other resolving to U1, got %q", id)
	}
}

func TestBindDoesNotMutateInput(t *testing.T) {
	orig, _ := Bind(NewSnapshot(), "U1", "A")
	Bind(orig, "U1", "B")

	if name, _ := orig.Name("U1"); name != "A" {
		t.Errorf("input snapshot was mutated: U1 now %q", name)
	}
	if _, ok := orig.UserID("A"); !ok {
		t.Error("input snapshot was mutated: reverse entry for A gone")
	}
}
