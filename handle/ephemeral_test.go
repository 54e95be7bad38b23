package handle

import "testing"

// TestEphemeralLookupOrInsertDedups exercises cache property 13:
// get_or_insert(k) called twice with equal keys returns the same inner id
// (here, the same generation on the same key) and creates only once.
func TestEphemeralLookupOrInsertDedups(t *testing.T) {
	creates := 0
	s := NewEphemeralStore[string, int](1, 0, nil)

	h1, err := s.LookupOrInsert("x", func() (int, error) { creates++; return 100, nil })
	if err != nil {
		t.Fatalf("first LookupOrInsert: %v", err)
	}
	h2, err := s.LookupOrInsert("x", func() (int, error) { creates++; return 999, nil })
	if err != nil {
		t.Fatalf("second LookupOrInsert: %v", err)
	}
	if creates != 1 {
		t.Fatalf("create called %d times, want 1", creates)
	}
	if h1 != h2 {
		t.Fatalf("h1 != h2: %+v vs %+v", h1, h2)
	}
}

// TestEphemeralImmediateDisposalWithoutGrace exercises cache property 14
// for the grace==0 configuration: last release disposes immediately.
func TestEphemeralImmediateDisposalWithoutGrace(t *testing.T) {
	disposed := false
	s := NewEphemeralStore[string, int](1, 0, func(int) { disposed = true })

	h, _ := s.LookupOrInsert("x", func() (int, error) { return 1, nil })
	if err := s.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !disposed {
		t.Fatal("expected immediate disposal with grace=0")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

// TestEphemeralDeferredEvictionWithinEpoch exercises cache property 14's
// "within one epoch of the deferred-eviction policy" wording directly.
func TestEphemeralDeferredEvictionWithinEpoch(t *testing.T) {
	disposed := false
	s := NewEphemeralStore[string, int](1, 2, func(int) { disposed = true })

	h, _ := s.LookupOrInsert("x", func() (int, error) { return 1, nil })
	s.Release(h)
	if disposed {
		t.Fatal("should not dispose before grace epochs elapse")
	}

	s.AdvanceEpoch()
	if disposed {
		t.Fatal("should not dispose after only 1 of 2 grace epochs")
	}

	s.AdvanceEpoch()
	if !disposed {
		t.Fatal("should dispose once grace epochs have elapsed")
	}
}

func TestEphemeralReReferenceDuringGraceCancelsEviction(t *testing.T) {
	disposed := false
	s := NewEphemeralStore[string, int](1, 1, func(int) { disposed = true })

	h, _ := s.LookupOrInsert("x", func() (int, error) { return 1, nil })
	s.Release(h)

	// Re-referenced before the grace epoch elapses.
	if _, err := s.LookupOrInsert("x", func() (int, error) { t.Fatal("should not recreate"); return 0, nil }); err != nil {
		t.Fatalf("re-lookup: %v", err)
	}

	s.AdvanceEpoch()
	if disposed {
		t.Fatal("re-referenced entry must not be disposed")
	}
}
