package access

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/memory"
)

// MemoryUsage classifies how a resource's backing memory will be touched
// by the host, independent of which access/usage bits the resource itself
// carries. It is the forge equivalent of rendy's MemoryUsage hierarchy
// (Data/Dynamic/Upload/Download), kept as a small enum rather than one
// marker type per kind since Go has no zero-sized-type-as-trait-impl
// idiom and a field reads just as clearly.
type MemoryUsage uint8

const (
	// MemoryUsageData is for device-only resources the host never touches
	// after upload (e.g. a rendered-to-but-never-read transient image).
	MemoryUsageData MemoryUsage = iota
	// MemoryUsageDynamic is for resources updated from the host every
	// frame or so; both device-local and host-visible are acceptable, but
	// device-local+host-visible is strongly preferred when available.
	MemoryUsageDynamic
	// MemoryUsageUpload is a host-write staging resource: must be
	// host-visible; device-local is not needed and scores slightly lower.
	MemoryUsageUpload
	// MemoryUsageDownload is a host-read readback resource: must be
	// host-visible and host-cached is strongly preferred.
	MemoryUsageDownload
)

// Transient marks a resource as short-lived within a single frame (spec
// §4.1 linear-arena rationale: "amortizes overhead for short-lived
// uploads"), steering Heaps.Allocate toward the Linear allocator over
// Dynamic/Dedicated.
type Transient bool

// BufferUsageHint implements memory.Usage for a buffer (spec §4.1 "usage
// hint" consumed by Heaps.Allocate). Grounded on rendy's heaps.rs
// properties_required/memory_fitness/allocator_fitness contract; the
// concrete scoring is forge's own, since the original MemoryUsage
// implementations live in a source file outside the retrieved excerpt.
type BufferUsageHint struct {
	Memory    MemoryUsage
	Transient Transient
}

func (h BufferUsageHint) PropertiesRequired() backend.MemoryPropertyFlags {
	switch h.Memory {
	case MemoryUsageUpload, MemoryUsageDownload, MemoryUsageDynamic:
		return backend.MemoryPropHostVisible
	default:
		return 0
	}
}

func (h BufferUsageHint) MemoryFitness(props backend.MemoryPropertyFlags) int {
	fitness := 0
	switch h.Memory {
	case MemoryUsageData:
		if props.Contains(backend.MemoryPropDeviceLocal) {
			fitness += 100
		}
	case MemoryUsageDynamic:
		if props.Contains(backend.MemoryPropDeviceLocal) {
			fitness += 100
		}
		if props.Contains(backend.MemoryPropHostVisible) {
			fitness += 50
		}
		if props.Contains(backend.MemoryPropHostCoherent) {
			fitness += 10
		}
	case MemoryUsageUpload:
		if props.Contains(backend.MemoryPropHostVisible) {
			fitness += 100
		}
		if props.Contains(backend.MemoryPropHostCoherent) {
			fitness += 20
		}
		if props.Contains(backend.MemoryPropDeviceLocal) {
			fitness -= 10
		}
	case MemoryUsageDownload:
		if props.Contains(backend.MemoryPropHostVisible) {
			fitness += 100
		}
		if props.Contains(backend.MemoryPropHostCached) {
			fitness += 30
		}
	}
	return fitness
}

func (h BufferUsageHint) AllocatorFitness(kind memory.Kind) int {
	if h.Transient {
		switch kind {
		case memory.Linear:
			return 100
		case memory.Dynamic:
			return 50
		default:
			return 1
		}
	}
	switch kind {
	case memory.Dynamic:
		return 100
	case memory.Linear:
		return 1
	default:
		return 1
	}
}

// ImageUsageHint implements memory.Usage for an image. Images are never
// transient-uploaded through the linear arena directly (they still need a
// dedicated or dynamic allocation even when short-lived), so it never
// favors Linear.
type ImageUsageHint struct {
	Memory MemoryUsage
}

func (h ImageUsageHint) PropertiesRequired() backend.MemoryPropertyFlags {
	if h.Memory == MemoryUsageUpload || h.Memory == MemoryUsageDownload {
		return backend.MemoryPropHostVisible
	}
	return 0
}

func (h ImageUsageHint) MemoryFitness(props backend.MemoryPropertyFlags) int {
	fitness := 0
	if props.Contains(backend.MemoryPropDeviceLocal) {
		fitness += 100
	}
	if h.Memory == MemoryUsageUpload || h.Memory == MemoryUsageDownload {
		if props.Contains(backend.MemoryPropHostVisible) {
			fitness += 50
		}
	}
	return fitness
}

func (h ImageUsageHint) AllocatorFitness(kind memory.Kind) int {
	switch kind {
	case memory.Dynamic:
		return 100
	case memory.Dedicated:
		return 50
	default:
		return 0
	}
}
