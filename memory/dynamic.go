package memory

import (
	"sync"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/internal/bitgrid"
)

// dynToken is the continuation data Alloc stashes in Block.token for a
// bucketed (non-fallback) dynamic block.
type dynToken struct {
	blockSize uint64
	chunkIdx  int
	blockIdx  int
}

// dedicatedFallbackToken marks a block that bypassed the bucket hierarchy
// entirely because it exceeded MaxAllocation.
type dedicatedFallbackToken struct{}

// bucket is one power-of-two size class: up to bitgrid.MaxChunks chunks of
// bitgrid.BlocksPerChunk blocks of blockSize bytes each, tracked by a
// Hierarchy for O(trailing_zeros) vacant-block lookup.
type bucket struct {
	blockSize uint64
	hier      bitgrid.Hierarchy
	chunks    [bitgrid.MaxChunks]*Memory
	freeSlots []int // released chunk indices available for reuse
	nextSlot  int   // first never-yet-used chunk index
}

func (b *bucket) chunkSize() uint64 {
	return b.blockSize * bitgrid.BlocksPerChunk
}

func (b *bucket) acquireSlot() (int, bool) {
	if n := len(b.freeSlots); n > 0 {
		idx := b.freeSlots[n-1]
		b.freeSlots = b.freeSlots[:n-1]
		return idx, true
	}
	if b.nextSlot < bitgrid.MaxChunks {
		idx := b.nextSlot
		b.nextSlot++
		return idx, true
	}
	return 0, false
}

func (b *bucket) releaseSlot(idx int) {
	b.freeSlots = append(b.freeSlots, idx)
}

// DynamicAllocator is the buddy/chunk-hybrid strategy (spec §4.1 "Dynamic
// allocator"): power-of-two size-class buckets, each bucket backed by chunks
// (super-blocks) of BlocksPerChunk equal-sized blocks, located by a
// bitgrid.Hierarchy. When a bucket has no vacant block it allocates a fresh
// chunk from the device; when a whole chunk empties it is returned. Requests
// larger than the biggest configured bucket fall back to one dedicated
// device allocation, so DynamicAllocator never refuses a request on size
// grounds alone.
type DynamicAllocator struct {
	mu sync.Mutex

	props               backend.MemoryPropertyFlags
	nonCoherentAtomSize uint64

	minBlockSize uint64 // smallest bucket's block size (size-class granularity)
	maxBlockSize uint64 // largest bucket's block size; above this, fall back

	buckets map[uint64]*bucket // keyed by blockSize
}

// NewDynamicAllocator constructs a DynamicAllocator. minBlockSize is the
// size-class granularity (the smallest power-of-two bucket); maxBlockSize
// bounds MaxAllocation before Heaps would otherwise route to Dedicated.
func NewDynamicAllocator(minBlockSize, maxBlockSize uint64, props backend.MemoryPropertyFlags, nonCoherentAtomSize uint64) *DynamicAllocator {
	if minBlockSize == 0 {
		minBlockSize = 256
	}
	if maxBlockSize < minBlockSize {
		maxBlockSize = minBlockSize
	}
	return &DynamicAllocator{
		props:               props,
		nonCoherentAtomSize: nonCoherentAtomSize,
		minBlockSize:        nextPow2(minBlockSize),
		maxBlockSize:        nextPow2(maxBlockSize),
		buckets:             make(map[uint64]*bucket),
	}
}

func (a *DynamicAllocator) Kind() Kind { return Dynamic }

// MaxAllocation is the largest bucket's block size; Heaps falls back to
// Dedicated itself above this rather than relying on DynamicAllocator's
// internal dedicated-fallback path, keeping routing decisions in one place.
func (a *DynamicAllocator) MaxAllocation() uint64 { return a.maxBlockSize }

// sizeClass returns the smallest bucket block size that satisfies both size
// and align: blocks sit at multiples of blockSize from a blockSize-aligned
// chunk base, so any align <= blockSize is automatically satisfied.
func (a *DynamicAllocator) sizeClass(size, align uint64) uint64 {
	want := size
	if align > want {
		want = align
	}
	class := nextPow2(want)
	if class < a.minBlockSize {
		class = a.minBlockSize
	}
	return class
}

func (a *DynamicAllocator) bucketFor(blockSize uint64) *bucket {
	b, ok := a.buckets[blockSize]
	if !ok {
		b = &bucket{blockSize: blockSize}
		a.buckets[blockSize] = b
	}
	return b
}

func (a *DynamicAllocator) Alloc(dev backend.Device, typeIndex int, size, align uint64) (Block, uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blockSize := a.sizeClass(size, align)
	if blockSize > a.maxBlockSize {
		return a.allocDedicatedFallback(dev, typeIndex, size)
	}

	b := a.bucketFor(blockSize)
	chunkIdx, blockIdx, ok := b.hier.AcquireBlock()
	var devBytesTaken uint64
	if !ok {
		slot, ok := b.acquireSlot()
		if !ok {
			// Bucket is entirely out of chunk slots; fall back rather than fail.
			return a.allocDedicatedFallback(dev, typeIndex, size)
		}
		mem, err := a.allocChunk(dev, typeIndex, b.chunkSize())
		if err != nil {
			b.releaseSlot(slot)
			return Block{}, 0, err
		}
		b.chunks[slot] = mem
		b.hier.ActivateChunk(slot)
		devBytesTaken = b.chunkSize()

		chunkIdx, blockIdx, ok = b.hier.AcquireBlock()
		if !ok {
			// Unreachable: a just-activated chunk always has a free block.
			return Block{}, 0, ErrMappingFailed
		}
	}

	mem := b.chunks[chunkIdx]
	start := uint64(blockIdx) * b.blockSize
	block := Block{
		Memory: mem,
		Start:  start,
		End:    start + size,
		Kind:   Dynamic,
		token:  dynToken{blockSize: blockSize, chunkIdx: chunkIdx, blockIdx: blockIdx},
	}
	return block, devBytesTaken, nil
}

func (a *DynamicAllocator) Free(dev backend.Device, block Block) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch tok := block.token.(type) {
	case dedicatedFallbackToken:
		return a.freeDedicatedFallback(dev, block)
	case dynToken:
		b, ok := a.buckets[tok.blockSize]
		if !ok {
			return 0
		}
		full := b.hier.ReleaseBlock(tok.chunkIdx, tok.blockIdx)
		if !full {
			return 0
		}
		mem := b.chunks[tok.chunkIdx]
		a.freeChunk(dev, mem)
		b.chunks[tok.chunkIdx] = nil
		b.hier.DeactivateChunk(tok.chunkIdx)
		b.releaseSlot(tok.chunkIdx)
		return mem.Size
	default:
		return 0
	}
}

// allocChunk and freeChunk share the dedicated-allocator's map-if-host-
// visible rule; dynamic chunks are device-local in the overwhelming common
// case but the allocator is type-agnostic like Dedicated, so the same
// mapping logic applies.
func (a *DynamicAllocator) allocChunk(dev backend.Device, typeIndex int, size uint64) (*Memory, error) {
	mem := &Memory{TypeIndex: typeIndex, Size: size, Properties: a.props, NonCoherentAtomSize: a.nonCoherentAtomSize}
	raw, err := dev.AllocateMemory(typeIndex, size)
	if err != nil {
		return nil, classifyAllocErr(err)
	}
	mem.Raw = raw
	if mem.HostVisible() {
		mapped, err := dev.MapMemory(raw, 0, size)
		if err != nil {
			dev.FreeMemory(raw)
			return nil, &OutOfMemoryError{Kind: OutOfMemoryHost, Err: err}
		}
		mem.mapped = mapped
	}
	return mem, nil
}

func (a *DynamicAllocator) freeChunk(dev backend.Device, mem *Memory) {
	if mem.HostVisible() && mem.mapped != nil {
		dev.UnmapMemory(mem.Raw)
	}
	dev.FreeMemory(mem.Raw)
}

func (a *DynamicAllocator) allocDedicatedFallback(dev backend.Device, typeIndex int, size uint64) (Block, uint64, error) {
	mem, err := a.allocChunk(dev, typeIndex, size)
	if err != nil {
		return Block{}, 0, err
	}
	block := Block{Memory: mem, Start: 0, End: size, Kind: Dynamic, token: dedicatedFallbackToken{}}
	return block, size, nil
}

func (a *DynamicAllocator) freeDedicatedFallback(dev backend.Device, block Block) uint64 {
	if block.Memory == nil {
		return 0
	}
	a.freeChunk(dev, block.Memory)
	return block.Memory.Size
}

// nextPow2 rounds v up to the nearest power of two (v=0 rounds to 1).
func nextPow2(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}
