package memory

import (
	"testing"

	"github.com/gogpu/forge/backend/software"
	"github.com/gogpu/forge/internal/bitgrid"
)

func TestDynamicBucketsWithinOneChunk(t *testing.T) {
	dev := software.New()
	a := NewDynamicAllocator(256, 32<<20, deviceLocalProps(), 0)

	var blocks []Block
	var firstChunkTaken uint64
	for i := 0; i < bitgrid.BlocksPerChunk; i++ {
		b, taken, err := a.Alloc(dev, 0, 200, 1)
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		if i == 0 {
			firstChunkTaken = taken
			if taken == 0 {
				t.Fatalf("first alloc should take a fresh chunk")
			}
		} else if taken != 0 {
			t.Fatalf("alloc %d took %d bytes from device, want 0 (reuse chunk)", i, taken)
		}
		blocks = append(blocks, b)
	}

	// The chunk is now full; one more request opens a second chunk.
	_, taken, err := a.Alloc(dev, 0, 200, 1)
	if err != nil {
		t.Fatalf("overflow alloc: %v", err)
	}
	if taken != firstChunkTaken {
		t.Fatalf("overflow alloc took %d, want a fresh chunk of %d", taken, firstChunkTaken)
	}

	// Freeing every block of the first chunk should return it to the device.
	var reclaimed uint64
	for _, b := range blocks {
		reclaimed += a.Free(dev, b)
	}
	if reclaimed != firstChunkTaken {
		t.Fatalf("reclaimed %d across first chunk's frees, want %d", reclaimed, firstChunkTaken)
	}
}

func TestDynamicSizeClassRounding(t *testing.T) {
	a := NewDynamicAllocator(256, 32<<20, deviceLocalProps(), 0)
	if got := a.sizeClass(100, 1); got != 256 {
		t.Fatalf("sizeClass(100,1) = %d, want 256 (min bucket)", got)
	}
	if got := a.sizeClass(300, 1); got != 512 {
		t.Fatalf("sizeClass(300,1) = %d, want 512", got)
	}
	if got := a.sizeClass(100, 1024); got != 1024 {
		t.Fatalf("sizeClass(100,1024) = %d, want 1024 (align dominates)", got)
	}
}

func TestDynamicFallsBackToDedicatedAboveMaxBucket(t *testing.T) {
	dev := software.New()
	a := NewDynamicAllocator(256, 4096, deviceLocalProps(), 0)

	size := uint64(1 << 20)
	block, taken, err := a.Alloc(dev, 0, size, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if taken != size {
		t.Fatalf("taken = %d, want %d (dedicated fallback)", taken, size)
	}
	if reclaimed := a.Free(dev, block); reclaimed != size {
		t.Fatalf("reclaimed = %d, want %d", reclaimed, size)
	}
}
