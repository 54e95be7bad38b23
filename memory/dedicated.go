package memory

import (
	"fmt"
	"math"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/forgelog"
)

// DedicatedAllocator issues one device allocation per Block (spec §4.1
// "Dedicated allocator"). Because a fresh device allocation always meets
// maximum alignment, the requested align is satisfied implicitly and the
// block's range is always [0, size).
type DedicatedAllocator struct {
	props               backend.MemoryPropertyFlags
	nonCoherentAtomSize uint64
}

// NewDedicatedAllocator constructs a DedicatedAllocator for memory of the
// given properties.
func NewDedicatedAllocator(props backend.MemoryPropertyFlags, nonCoherentAtomSize uint64) *DedicatedAllocator {
	return &DedicatedAllocator{props: props, nonCoherentAtomSize: nonCoherentAtomSize}
}

func (a *DedicatedAllocator) Kind() Kind { return Dedicated }

// MaxAllocation is unbounded: any size routes here as a fallback.
func (a *DedicatedAllocator) MaxAllocation() uint64 { return math.MaxUint64 }

func (a *DedicatedAllocator) Alloc(dev backend.Device, typeIndex int, size, _ uint64) (Block, uint64, error) {
	mem := &Memory{
		TypeIndex:           typeIndex,
		Size:                size,
		Properties:          a.props,
		NonCoherentAtomSize: a.nonCoherentAtomSize,
	}
	// Host-visible non-coherent memory rounds its allocation size up to
	// the atom boundary so later flush/invalidate ranges always land
	// inside it (spec §4.1).
	allocSize := mem.roundToAtom(size)
	mem.Size = allocSize

	raw, err := dev.AllocateMemory(typeIndex, allocSize)
	if err != nil {
		return Block{}, 0, classifyAllocErr(err)
	}
	mem.Raw = raw

	if mem.HostVisible() {
		mapped, err := dev.MapMemory(raw, 0, allocSize)
		if err != nil {
			dev.FreeMemory(raw)
			return Block{}, 0, fmt.Errorf("memory: dedicated: map failed: %w", err)
		}
		mem.mapped = mapped
	}

	block := Block{Memory: mem, Start: 0, End: size, Kind: Dedicated}
	return block, allocSize, nil
}

func (a *DedicatedAllocator) Free(dev backend.Device, block Block) uint64 {
	if block.Memory == nil {
		return 0
	}
	taken := block.Memory.Size
	if block.Memory.HostVisible() && block.Memory.mapped != nil {
		dev.UnmapMemory(block.Memory.Raw)
	}
	dev.FreeMemory(block.Memory.Raw)
	return taken
}

func classifyAllocErr(err error) error {
	switch {
	case err == backend.ErrOutOfHostMemory:
		return &OutOfMemoryError{Kind: OutOfMemoryHost, Err: err}
	case err == backend.ErrOutOfDeviceMemory:
		return &OutOfMemoryError{Kind: OutOfMemoryDevice, Err: err}
	default:
		return err
	}
}

// warnNonEmptyDispose logs a developer warning when an allocator is asked
// to tear down while it still owns live memory (spec §7 "Allocator cleanup
// is idempotent and non-failing; it logs when non-empty stores are
// disposed").
func warnNonEmptyDispose(allocator string, liveCount int) {
	if liveCount == 0 {
		return
	}
	forgelog.Logger().Warn("memory: disposing non-empty allocator",
		"allocator", allocator, "live_blocks", liveCount)
}
