package descriptor

import (
	"testing"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/backend/software"
)

func sampledSamplerBindings() []backend.DescriptorBindingInfo {
	return []backend.DescriptorBindingInfo{
		{Binding: 0, Type: backend.DescriptorTypeSampledImage, Count: 1, StageFlags: 1},
		{Binding: 1, Type: backend.DescriptorTypeSampler, Count: 1, StageFlags: 1},
	}
}

func TestAllocateFirstPoolSizedToMinSets(t *testing.T) {
	dev := software.New()
	layout, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: sampledSamplerBindings()})
	if err != nil {
		t.Fatalf("CreateDescriptorSetLayout: %v", err)
	}

	a := New()
	sets, err := a.Allocate(dev, layout, sampledSamplerBindings(), 5)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(sets) != 5 {
		t.Fatalf("len(sets) = %d, want 5", len(sets))
	}

	sig := ComputeSignature(sampledSamplerBindings())
	b := a.buckets[sig]
	if len(b.pools) != 1 {
		t.Fatalf("pool count = %d, want 1", len(b.pools))
	}
	if b.pools[0].capacity != MinSets {
		t.Fatalf("pool capacity = %d, want %d", b.pools[0].capacity, MinSets)
	}
}

// TestFreeThenLargerAllocateReusesSamePool reproduces the spec's descriptor
// scenario: allocate 5 sets (creates a size-64 pool), free them, then
// allocate 60 sets — the second request must be served from the same pool
// rather than creating a new one.
func TestFreeThenLargerAllocateReusesSamePool(t *testing.T) {
	dev := software.New()
	bindings := sampledSamplerBindings()
	layout, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: bindings})
	if err != nil {
		t.Fatalf("CreateDescriptorSetLayout: %v", err)
	}

	a := New()
	sig := ComputeSignature(bindings)

	first, err := a.Allocate(dev, layout, bindings, 5)
	if err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	a.Free(dev, sig, first)

	second, err := a.Allocate(dev, layout, bindings, 60)
	if err != nil {
		t.Fatalf("second Allocate: %v", err)
	}
	if len(second) != 60 {
		t.Fatalf("len(second) = %d, want 60", len(second))
	}

	b := a.buckets[sig]
	if len(b.pools) != 1 {
		t.Fatalf("pool count = %d, want 1 (second allocation should reuse the first pool)", len(b.pools))
	}
}

func TestAllocateBeyondCapacityCreatesNewPool(t *testing.T) {
	dev := software.New()
	bindings := sampledSamplerBindings()
	layout, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: bindings})
	if err != nil {
		t.Fatalf("CreateDescriptorSetLayout: %v", err)
	}

	a := New()
	sig := ComputeSignature(bindings)

	// A MinSets request sizes its pool to nextPow2(MinSets-1)*2 = 2*MinSets
	// sets, leaving MinSets free; a request for MinSets+1 cannot fit there.
	if _, err := a.Allocate(dev, layout, bindings, MinSets); err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	if _, err := a.Allocate(dev, layout, bindings, MinSets+1); err != nil {
		t.Fatalf("second Allocate: %v", err)
	}

	b := a.buckets[sig]
	if len(b.pools) != 2 {
		t.Fatalf("pool count = %d, want 2 (first pool lacked room)", len(b.pools))
	}
}

func TestFreeBatchesByOriginPool(t *testing.T) {
	dev := software.New()
	bindings := sampledSamplerBindings()
	layout, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: bindings})
	if err != nil {
		t.Fatalf("CreateDescriptorSetLayout: %v", err)
	}

	a := New()
	sig := ComputeSignature(bindings)

	sets, err := a.Allocate(dev, layout, bindings, 10)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	a.Free(dev, sig, sets)

	b := a.buckets[sig]
	if b.pools[0].used != 0 {
		t.Fatalf("pool used = %d, want 0 after freeing all sets", b.pools[0].used)
	}
	if len(b.setOwner) != 0 {
		t.Fatalf("setOwner has %d leftover entries, want 0", len(b.setOwner))
	}

	// Freeing again must be a no-op, not a panic or double-decrement.
	a.Free(dev, sig, sets)
	if b.pools[0].used != 0 {
		t.Fatalf("pool used = %d after double free, want 0", b.pools[0].used)
	}
}

func TestCleanupDropsEmptyHeadPools(t *testing.T) {
	dev := software.New()
	bindings := sampledSamplerBindings()
	layout, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: bindings})
	if err != nil {
		t.Fatalf("CreateDescriptorSetLayout: %v", err)
	}

	a := New()
	sig := ComputeSignature(bindings)

	first, err := a.Allocate(dev, layout, bindings, MinSets)
	if err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	// MinSets+1 does not fit in the first pool's 2*MinSets capacity beside
	// the first MinSets sets, so it opens a second pool.
	if _, err := a.Allocate(dev, layout, bindings, MinSets+1); err != nil {
		t.Fatalf("second Allocate: %v", err)
	}

	a.Free(dev, sig, first)
	a.Cleanup(dev)

	b := a.buckets[sig]
	if len(b.pools) != 1 {
		t.Fatalf("pool count = %d, want 1 (the emptied head pool should be dropped)", len(b.pools))
	}
	if b.pools[0].used != MinSets+1 {
		t.Fatalf("remaining pool used = %d, want %d", b.pools[0].used, MinSets+1)
	}
}

func TestComputeSignatureOrderIndependent(t *testing.T) {
	a := []backend.DescriptorBindingInfo{
		{Binding: 0, Type: backend.DescriptorTypeSampler, Count: 1},
		{Binding: 1, Type: backend.DescriptorTypeSampledImage, Count: 2},
	}
	bRev := []backend.DescriptorBindingInfo{a[1], a[0]}
	if ComputeSignature(a) != ComputeSignature(bRev) {
		t.Fatal("signature must not depend on binding order")
	}
}
