package handle

import "testing"

func TestInstanceStoreInsertGetRelease(t *testing.T) {
	var disposed []int
	s := NewInstanceStore[int](1, func(v int) { disposed = append(disposed, v) })

	h := s.Insert(42)
	v, err := s.Get(h)
	if err != nil || v != 42 {
		t.Fatalf("Get = %v, %v, want 42, nil", v, err)
	}

	if err := s.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(disposed) != 1 || disposed[0] != 42 {
		t.Fatalf("dispose called with %v, want [42]", disposed)
	}
	if _, err := s.Get(h); err != ErrDropped {
		t.Fatalf("Get after release = %v, want ErrDropped", err)
	}
}

func TestInstanceStoreRetainKeepsAlive(t *testing.T) {
	disposeCount := 0
	s := NewInstanceStore[string](1, func(string) { disposeCount++ })

	h := s.Insert("a")
	h2, err := s.Retain(h)
	if err != nil {
		t.Fatalf("Retain: %v", err)
	}

	s.Release(h)
	if disposeCount != 0 {
		t.Fatalf("disposed after one of two releases")
	}
	if _, err := s.Get(h2); err != nil {
		t.Fatalf("Get after partial release: %v", err)
	}

	s.Release(h2)
	if disposeCount != 1 {
		t.Fatalf("dispose count = %d, want 1", disposeCount)
	}
}

func TestInstanceStoreStaleAfterSlotReuse(t *testing.T) {
	s := NewInstanceStore[int](1, nil)

	h1 := s.Insert(1)
	s.Release(h1)

	h2 := s.Insert(2) // should reuse h1's freed slot with a bumped generation

	if _, err := s.Get(h1); err != ErrStale {
		t.Fatalf("Get(h1) after reuse = %v, want ErrStale", err)
	}
	v, err := s.Get(h2)
	if err != nil || v != 2 {
		t.Fatalf("Get(h2) = %v, %v, want 2, nil", v, err)
	}
}

func TestInstanceStoreWrongDevice(t *testing.T) {
	s := NewInstanceStore[int](1, nil)
	h := s.Insert(1)
	h.device = 2
	if _, err := s.Get(h); err != ErrWrongDevice {
		t.Fatalf("Get with wrong device = %v, want ErrWrongDevice", err)
	}
}
