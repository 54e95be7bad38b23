package resource

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/memory"
)

// Buffer owns a raw buffer object and the memory block backing it (spec §3
// "Image / Buffer"). Its creation info is kept for requirement re-queries
// and for any cache key that must distinguish buffers by usage.
type Buffer struct {
	Raw       backend.RawBuffer
	Block     memory.Block
	TypeIndex int
	Info      backend.BufferInfo
}

// CreateBuffer creates the raw buffer, queries its memory requirements,
// allocates and binds a block from heaps, and destroys the raw object if
// any later step fails (spec §7 "Resource constructors perform partial
// rollback").
func CreateBuffer(dev backend.Device, heaps *memory.Heaps, info backend.BufferInfo, usage memory.Usage) (Buffer, error) {
	raw, err := dev.CreateBuffer(info)
	if err != nil {
		return Buffer{}, err
	}

	reqs := dev.GetBufferRequirements(info)
	block, typeIndex, err := heaps.Allocate(dev, reqs, usage)
	if err != nil {
		dev.DestroyBuffer(raw)
		return Buffer{}, err
	}

	if err := dev.BindBufferMemory(raw, block.Memory.Raw, block.Start); err != nil {
		heaps.Free(dev, typeIndex, block)
		dev.DestroyBuffer(raw)
		return Buffer{}, err
	}

	return Buffer{Raw: raw, Block: block, TypeIndex: typeIndex, Info: info}, nil
}

// Dispose destroys the raw buffer and returns its block to heaps.
func (b Buffer) Dispose(dev backend.Device, heaps *memory.Heaps) {
	dev.DestroyBuffer(b.Raw)
	heaps.Free(dev, b.TypeIndex, b.Block)
}
