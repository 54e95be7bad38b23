// Package memory implements forge's allocator hierarchy (spec §4.1): a
// Memory/Block model sitting on top of raw device allocations, three
// sub-allocator strategies (dedicated, linear arena, dynamic buddy/chunk),
// and a Heaps router that dispatches allocation requests to the best
// strategy for a given memory-type mask and usage hint.
//
// The package is grounded on the teacher's (gogpu/gg) internal/gpu
// MemoryManager — same budget/used/available accounting shape, same
// "round up to alignment, track bytes taken vs. bytes used" split — and on
// amethyst/rendy's memory/src/{allocator,heaps}.rs for the three-strategy
// dispatch this spec asks for, which the teacher's single-budget tracker
// does not need since it only ever does one kind of allocation.
package memory

import (
	"github.com/gogpu/forge/backend"
)

// Kind tags which allocator strategy produced a Block. Block remembers its
// own Kind so Heaps.Free can pick the owning allocator with a switch on the
// tag (a tagged union, spec §9 "Dynamic-dispatch -> capability enum"); the
// chosen allocator's Free is then called through the Allocator interface.
type Kind uint8

const (
	Dedicated Kind = iota
	Linear
	Dynamic
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Dynamic:
		return "dynamic"
	default:
		return "dedicated"
	}
}

// Memory wraps one raw device memory object (spec §3 "Memory"). While any
// Block references it, it must not be freed; allocators enforce this via
// their own bookkeeping rather than a refcount on Memory itself, since each
// allocator knows exactly when its last block on a given Memory is gone.
type Memory struct {
	Raw                 backend.RawMemory
	TypeIndex           int
	Size                uint64
	Properties          backend.MemoryPropertyFlags
	NonCoherentAtomSize uint64

	mapped []byte // non-nil while host-mapped
}

// HostVisible reports whether this memory can be mapped.
func (m *Memory) HostVisible() bool {
	return m.Properties.Contains(backend.MemoryPropHostVisible)
}

// HostCoherent reports whether writes through the mapping are visible to
// the device without an explicit flush.
func (m *Memory) HostCoherent() bool {
	return m.Properties.Contains(backend.MemoryPropHostCoherent)
}

// alignUp rounds size up to the nearest multiple of align (align must be a
// power of two, or zero to mean "no rounding").
func alignUp(size, align uint64) uint64 {
	if align <= 1 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}

// roundToAtom rounds size up to m.NonCoherentAtomSize when the memory is
// host-visible and non-coherent (spec §4.1 Dedicated allocator rule). Only
// the dedicated allocator calls it; linear lines and dynamic chunks are not
// rounded.
func (m *Memory) roundToAtom(size uint64) uint64 {
	if !m.HostVisible() || m.HostCoherent() || m.NonCoherentAtomSize <= 1 {
		return size
	}
	return alignUp(size, m.NonCoherentAtomSize)
}

// Block is a sub-range [Start, End) of exactly one Memory (spec §3
// "Block"). token is allocator-private continuation data needed by Free
// (e.g. the owning line for Linear, the chunk+bit index for Dynamic);
// callers must never inspect it.
type Block struct {
	Memory *Memory
	Start  uint64
	End    uint64
	Kind   Kind

	token any
}

// Size returns the block's byte length.
func (b Block) Size() uint64 { return b.End - b.Start }

// Range returns the block's [start, end) range within its Memory.
func (b Block) Range() (start, end uint64) { return b.Start, b.End }

// Mapped returns the host-mapped byte slice for this block's range.
// Returns ErrHostInvisible if the backing Memory cannot be mapped.
func (b Block) Mapped() ([]byte, error) {
	if b.Memory == nil || b.Memory.mapped == nil {
		return nil, ErrHostInvisible
	}
	if b.End > uint64(len(b.Memory.mapped)) {
		return nil, ErrOutOfBounds
	}
	return b.Memory.mapped[b.Start:b.End], nil
}

// FlushRange validates that offset/size address a sub-range of the block
// and rounds it to the memory's non-coherent atom size, returning the
// backend.MemoryRange ready to pass to Device.FlushRanges/InvalidateRanges.
func (b Block) FlushRange(offset, size uint64) (backend.MemoryRange, error) {
	if b.Memory == nil {
		return backend.MemoryRange{}, ErrHostInvisible
	}
	if offset+size > b.Size() {
		return backend.MemoryRange{}, ErrOutOfBounds
	}
	atom := b.Memory.NonCoherentAtomSize
	if atom == 0 {
		atom = 1
	}
	start := b.Start + offset
	alignedStart := (start / atom) * atom
	alignedEnd := alignUp(start+size, atom)
	return backend.MemoryRange{
		Memory: b.Memory.Raw,
		Offset: alignedStart,
		Size:   alignedEnd - alignedStart,
	}, nil
}

// Usage is the capability surface Heaps.Allocate dispatches through (spec
// §4.1 "usage.properties_required()", "usage.memory_fitness",
// "usage.allocator_fitness"). It is satisfied by resource/access's Buffer
// and Image usage-hint types; the memory package only needs the interface,
// never a concrete resource type, keeping it a dependency leaf.
type Usage interface {
	// PropertiesRequired returns the memory-property flags a memory type
	// must have to be eligible at all.
	PropertiesRequired() backend.MemoryPropertyFlags
	// MemoryFitness scores a candidate memory type's properties; higher is
	// better. Used to rank eligible types against each other.
	MemoryFitness(props backend.MemoryPropertyFlags) int
	// AllocatorFitness scores a candidate allocator Kind for this usage;
	// zero or negative means "do not use this allocator for this usage".
	AllocatorFitness(kind Kind) int
}
