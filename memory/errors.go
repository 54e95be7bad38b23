package memory

import (
	"errors"
	"fmt"

	"github.com/gogpu/forge/backend"
)

// Sentinel mapping errors (spec §6 MappingError, §7 taxonomy 3). These are
// deterministic from inputs and are programmer errors except
// ErrMappingFailed, which is device-level.
var (
	ErrHostInvisible = errors.New("memory: block is not host-visible")
	ErrOutOfBounds   = errors.New("memory: mapping range out of block bounds")
	ErrMappingFailed = errors.New("memory: backend mapping call failed")
)

// UnalignedError reports a map/flush/invalidate call whose offset does not
// respect the non-coherent atom alignment.
type UnalignedError struct {
	Align  uint64
	Offset uint64
}

func (e *UnalignedError) Error() string {
	return fmt.Sprintf("memory: offset %d is not a multiple of non-coherent atom size %d", e.Offset, e.Align)
}

// NoSuitableMemoryError is returned by Heaps.Allocate when no memory type
// satisfies both the resource's type mask and its required property flags
// (spec §4.1, §6 HeapsError::NoSuitableMemory).
type NoSuitableMemoryError struct {
	Mask            uint32
	RequiredProps   backend.MemoryPropertyFlags
}

func (e *NoSuitableMemoryError) Error() string {
	return fmt.Sprintf("memory: no memory type satisfies mask %#x with required properties %#x", e.Mask, e.RequiredProps)
}

// OutOfMemoryKind distinguishes host vs. device exhaustion (spec §6).
type OutOfMemoryKind uint8

const (
	OutOfMemoryHost OutOfMemoryKind = iota
	OutOfMemoryDevice
)

func (k OutOfMemoryKind) String() string {
	if k == OutOfMemoryDevice {
		return "device"
	}
	return "host"
}

// OutOfMemoryError wraps a backend exhaustion error with which budget was
// exhausted.
type OutOfMemoryError struct {
	Kind OutOfMemoryKind
	Err  error
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("memory: out of %s memory: %v", e.Kind, e.Err)
}

func (e *OutOfMemoryError) Unwrap() error { return e.Err }

// HeapsError wraps a heaps-layer error under one type (spec §6
// HeapsError::{AllocationError, NoSuitableMemory}). Heaps.Allocate does not
// wrap its errors in it: it returns *NoSuitableMemoryError or the
// sub-allocator's error directly.
type HeapsError struct {
	Err error
}

func (e *HeapsError) Error() string { return fmt.Sprintf("heaps: %v", e.Err) }
func (e *HeapsError) Unwrap() error { return e.Err }
