package memory

import "github.com/gogpu/forge/backend"

// Allocator is the sub-allocator contract every strategy (Dedicated,
// Linear, Dynamic) implements (spec §4.1). Alloc returns both the Block and
// the number of bytes actually taken from the device (which may exceed
// size — a fresh chunk, a fresh arena line); Free returns the number of
// bytes actually given back to the device (zero unless a whole
// line/chunk/dedicated allocation was released).
type Allocator interface {
	Kind() Kind
	// MaxAllocation is the largest single request this allocator will
	// service; Heaps consults it before routing. Dedicated has no limit.
	MaxAllocation() uint64
	Alloc(dev backend.Device, typeIndex int, size, align uint64) (Block, uint64, error)
	Free(dev backend.Device, block Block) uint64
}
