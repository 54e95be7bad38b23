package memory

import (
	"testing"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/backend/software"
)

func deviceLocalProps() backend.MemoryPropertyFlags { return backend.MemoryPropDeviceLocal }
func hostProps() backend.MemoryPropertyFlags {
	return backend.MemoryPropHostVisible | backend.MemoryPropHostCoherent
}

func TestDedicatedAllocAndFree(t *testing.T) {
	dev := software.New()
	a := NewDedicatedAllocator(deviceLocalProps(), 64)

	block, taken, err := a.Alloc(dev, 0, 4096, 256)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if taken != 4096 {
		t.Fatalf("taken = %d, want 4096", taken)
	}
	if block.Size() != 4096 {
		t.Fatalf("block size = %d", block.Size())
	}

	reclaimed := a.Free(dev, block)
	if reclaimed != 4096 {
		t.Fatalf("reclaimed = %d, want 4096", reclaimed)
	}
}

func TestDedicatedAllocHostVisibleMaps(t *testing.T) {
	dev := software.New()
	a := NewDedicatedAllocator(hostProps(), 64)

	block, _, err := a.Alloc(dev, 1, 128, 16)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	buf, err := block.Mapped()
	if err != nil {
		t.Fatalf("Mapped: %v", err)
	}
	if len(buf) != 128 {
		t.Fatalf("mapped len = %d, want 128", len(buf))
	}
	a.Free(dev, block)
}

func TestDedicatedRoundsToAtomForNonCoherent(t *testing.T) {
	dev := software.New()
	a := NewDedicatedAllocator(backend.MemoryPropHostVisible, 64) // non-coherent

	_, taken, err := a.Alloc(dev, 1, 10, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if taken != 64 {
		t.Fatalf("taken = %d, want 64 (rounded to atom)", taken)
	}
}
