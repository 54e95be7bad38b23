package memory

import (
	"sync"

	"github.com/gogpu/forge/backend"
)

// typeState is one backend.MemoryType's bookkeeping: which heap it draws
// from, and the three sub-allocators Heaps may dispatch a request to.
type typeState struct {
	props     backend.MemoryPropertyFlags
	heapIndex int

	dedicated *DedicatedAllocator
	linear    *LinearAllocator
	dynamic   *DynamicAllocator
}

// heapState tracks one backend.MemoryHeap's budget.
type heapState struct {
	size uint64
	used uint64
}

func (h *heapState) available() uint64 {
	if h.used >= h.size {
		return 0
	}
	return h.size - h.used
}

// Heaps is the allocation router (spec §4.1 "Routing (Heaps)"): it owns one
// allocator triple (dedicated/linear/dynamic) per memory type, tracks
// per-heap budgets, and picks both the memory type and the sub-allocator
// strategy for each request. It is grounded on the teacher's
// internal/gpu.MemoryManager budget-tracking shape, generalized from one
// allocation strategy to three.
type Heaps struct {
	mu sync.Mutex

	heaps []heapState
	types []typeState
}

// NewHeaps builds a Heaps over the device's reported memory properties.
func NewHeaps(props backend.MemoryProperties, cfg HeapsConfig) *Heaps {
	cfg = cfg.withDefaults()

	h := &Heaps{
		heaps: make([]heapState, len(props.Heaps)),
		types: make([]typeState, len(props.Types)),
	}
	for i, heap := range props.Heaps {
		h.heaps[i] = heapState{size: heap.Size}
	}
	for i, mt := range props.Types {
		h.types[i] = typeState{
			props:     mt.Properties,
			heapIndex: mt.HeapIndex,
			dedicated: NewDedicatedAllocator(mt.Properties, props.NonCoherentAtomSize),
			linear:    NewLinearAllocator(cfg.LinearArenaSize, mt.Properties, props.NonCoherentAtomSize),
			dynamic:   NewDynamicAllocator(cfg.DynamicMinBlockSize, cfg.DynamicMaxBlockSize, mt.Properties, props.NonCoherentAtomSize),
		}
	}
	return h
}

// Allocate routes one request to the best memory type and allocator
// strategy for it (spec §4.1): types are filtered by reqs.TypeMask and by
// usage.PropertiesRequired(), ranked by usage.MemoryFitness among types
// whose heap has room, and the winning type's allocator is chosen by
// comparing usage.AllocatorFitness across Dynamic/Linear/Dedicated, bounded
// by each allocator's MaxAllocation.
func (h *Heaps) Allocate(dev backend.Device, reqs backend.Requirements, usage Usage) (Block, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	required := usage.PropertiesRequired()

	best := -1
	bestFitness := 0
	for i := range h.types {
		if reqs.TypeMask&(1<<uint(i)) == 0 {
			continue
		}
		t := &h.types[i]
		if !t.props.Contains(required) {
			continue
		}
		if h.heaps[t.heapIndex].available() < reqs.Size {
			continue
		}
		fitness := usage.MemoryFitness(t.props)
		if best == -1 || fitness > bestFitness {
			best, bestFitness = i, fitness
		}
	}
	if best == -1 {
		return Block{}, 0, &NoSuitableMemoryError{Mask: reqs.TypeMask, RequiredProps: required}
	}

	t := &h.types[best]
	alloc := h.pickAllocator(t, usage, reqs.Size)

	block, taken, err := alloc.Alloc(dev, best, reqs.Size, reqs.Alignment)
	if err != nil {
		return Block{}, 0, err
	}
	h.heaps[t.heapIndex].used += taken
	return block, best, nil
}

// pickAllocator prefers Dynamic, then Linear, then Dedicated, each gated by
// the request fitting under that allocator's MaxAllocation and scoring
// higher than the next strategy down (spec §4.1 dispatch rule). Linear is
// considered only for host-visible memory types.
func (h *Heaps) pickAllocator(t *typeState, usage Usage, size uint64) Allocator {
	dynFit := usage.AllocatorFitness(Dynamic)
	linFit := usage.AllocatorFitness(Linear)
	dedFit := usage.AllocatorFitness(Dedicated)

	if size <= t.dynamic.MaxAllocation() && dynFit > linFit {
		return t.dynamic
	}
	if t.props.Contains(backend.MemoryPropHostVisible) && size <= t.linear.MaxAllocation() && linFit > dedFit {
		return t.linear
	}
	return t.dedicated
}

// Free returns a Block to its owning allocator and credits the bytes back
// to the heap budget.
func (h *Heaps) Free(dev backend.Device, typeIndex int, block Block) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if typeIndex < 0 || typeIndex >= len(h.types) {
		return
	}
	t := &h.types[typeIndex]

	var alloc Allocator
	switch block.Kind {
	case Linear:
		alloc = t.linear
	case Dynamic:
		alloc = t.dynamic
	default:
		alloc = t.dedicated
	}
	reclaimed := alloc.Free(dev, block)
	hs := &h.heaps[t.heapIndex]
	if reclaimed > hs.used {
		hs.used = 0
	} else {
		hs.used -= reclaimed
	}
}

// Dispose logs a developer warning for each memory type whose linear
// allocator still holds lines (spec §7 allocator-cleanup rule). It frees
// no device memory and does not check the dedicated or dynamic allocators
// for live blocks. Intended for use
// once all resources referencing this Heaps have been destroyed.
func (h *Heaps) Dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.types {
		t := &h.types[i]
		warnNonEmptyDispose("linear", t.linear.LineCount())
	}
}
