package bitgrid

import "testing"

func TestAcquireBlockEmpty(t *testing.T) {
	var h Hierarchy
	if _, _, ok := h.AcquireBlock(); ok {
		t.Fatal("AcquireBlock on empty hierarchy should fail")
	}
}

func TestActivateAndDrainChunk(t *testing.T) {
	var h Hierarchy
	h.ActivateChunk(3)

	seen := map[int]bool{}
	for i := 0; i < BlocksPerChunk; i++ {
		chunk, block, ok := h.AcquireBlock()
		if !ok {
			t.Fatalf("AcquireBlock failed at i=%d", i)
		}
		if chunk != 3 {
			t.Fatalf("chunk = %d, want 3", chunk)
		}
		if seen[block] {
			t.Fatalf("block %d returned twice", block)
		}
		seen[block] = true
	}
	if _, _, ok := h.AcquireBlock(); ok {
		t.Fatal("chunk should be fully drained")
	}
}

func TestReleaseBlockReportsFull(t *testing.T) {
	var h Hierarchy
	h.ActivateChunk(0)

	var acquired []int
	for i := 0; i < BlocksPerChunk; i++ {
		_, block, _ := h.AcquireBlock()
		acquired = append(acquired, block)
	}
	for i, block := range acquired {
		full := h.ReleaseBlock(0, block)
		wantFull := i == len(acquired)-1
		if full != wantFull {
			t.Fatalf("ReleaseBlock at i=%d full=%v, want %v", i, full, wantFull)
		}
	}
}

func TestDeactivateChunkRemovesVacancy(t *testing.T) {
	var h Hierarchy
	h.ActivateChunk(5)
	h.DeactivateChunk(5)

	if _, _, ok := h.AcquireBlock(); ok {
		t.Fatal("deactivated chunk should not be selectable")
	}
}

func TestMultipleChunksLowestIndexFirst(t *testing.T) {
	var h Hierarchy
	h.ActivateChunk(10)
	h.ActivateChunk(2)

	chunk, _, ok := h.AcquireBlock()
	if !ok {
		t.Fatal("AcquireBlock should succeed")
	}
	if chunk != 2 {
		t.Fatalf("chunk = %d, want 2 (lowest active chunk)", chunk)
	}
}
