package memory

import (
	"sync"

	"github.com/gogpu/forge/backend"
)

// line is one arena: a host-mapped device allocation of LinearAllocator's
// configured size, bump-allocated from the front.
type line struct {
	mem  *Memory
	used uint64 // bump pointer: bytes handed out so far
	free uint64 // bytes released back by Free calls so far
}

// LinearAllocator is the arena allocator (spec §4.1 "Linear arena
// allocator"): a FIFO of host-mapped lines, each bump-allocated until full,
// freed in batches once every block on a line (from the head) has been
// released. It amortizes per-allocation overhead for short-lived uploads; a
// single pinned block at the FIFO head throttles reclamation of later
// fully-freed lines but can never corrupt correctness (spec §4.1
// rationale).
type LinearAllocator struct {
	mu sync.Mutex

	arenaSize           uint64
	props               backend.MemoryPropertyFlags
	nonCoherentAtomSize uint64

	lines []*line // FIFO; lines[0] is the oldest (head)
}

// NewLinearAllocator constructs a LinearAllocator. arenaSize is the size of
// each line; it must be host-visible memory (linear allocation is only
// ever selected for host-visible types per spec §3 "Heap and MemoryType").
func NewLinearAllocator(arenaSize uint64, props backend.MemoryPropertyFlags, nonCoherentAtomSize uint64) *LinearAllocator {
	return &LinearAllocator{arenaSize: arenaSize, props: props, nonCoherentAtomSize: nonCoherentAtomSize}
}

func (a *LinearAllocator) Kind() Kind { return Linear }

// MaxAllocation is the configured arena size: a request larger than one
// full line is routed elsewhere by Heaps.
func (a *LinearAllocator) MaxAllocation() uint64 { return a.arenaSize }

func (a *LinearAllocator) Alloc(dev backend.Device, typeIndex int, size, align uint64) (Block, uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.lines); n > 0 {
		tail := a.lines[n-1]
		aligned := alignUp(tail.used, align)
		if aligned+size <= tail.mem.Size {
			tail.used = aligned + size
			return Block{Memory: tail.mem, Start: aligned, End: aligned + size, Kind: Linear, token: tail}, 0, nil
		}
	}

	mem := &Memory{
		TypeIndex:           typeIndex,
		Size:                a.arenaSize,
		Properties:          a.props,
		NonCoherentAtomSize: a.nonCoherentAtomSize,
	}
	raw, err := dev.AllocateMemory(typeIndex, mem.Size)
	if err != nil {
		return Block{}, 0, classifyAllocErr(err)
	}
	mem.Raw = raw
	mapped, err := dev.MapMemory(raw, 0, mem.Size)
	if err != nil {
		dev.FreeMemory(raw)
		return Block{}, 0, &OutOfMemoryError{Kind: OutOfMemoryHost, Err: err}
	}
	mem.mapped = mapped

	ln := &line{mem: mem, used: size}
	a.lines = append(a.lines, ln)
	return Block{Memory: mem, Start: 0, End: size, Kind: Linear, token: ln}, mem.Size, nil
}

func (a *LinearAllocator) Free(dev backend.Device, block Block) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	ln, ok := block.token.(*line)
	if !ok || ln == nil {
		return 0
	}
	ln.free += block.Size()

	var reclaimed uint64
	for len(a.lines) > 0 && a.lines[0].free >= a.lines[0].used {
		head := a.lines[0]
		dev.UnmapMemory(head.mem.Raw)
		dev.FreeMemory(head.mem.Raw)
		reclaimed += head.mem.Size
		a.lines = a.lines[1:]
	}
	return reclaimed
}

// LineCount reports the number of live lines; exposed for tests verifying
// scenario S1's line-allocation counts.
func (a *LinearAllocator) LineCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.lines)
}
