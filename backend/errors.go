package backend

import "errors"

// Device-exhaustion errors (spec §7 taxonomy 1). These propagate to the
// caller; the allocator never retries internally.
var (
	ErrOutOfHostMemory   = errors.New("backend: out of host memory")
	ErrOutOfDeviceMemory = errors.New("backend: out of device memory")
	ErrTooManyObjects    = errors.New("backend: too many objects")
)

// Mapping errors (spec §7 taxonomy 3).
var (
	ErrMappingFailed = errors.New("backend: mapping failed")
)

// Descriptor-set allocation errors (spec §6).
var (
	ErrFragmented     = errors.New("backend: descriptor allocation fragmented")
	ErrFragmentedPool = errors.New("backend: descriptor pool fragmented")
)

// ErrBackendNotAvailable is returned when a requested Kind has no
// registered adapter.
var ErrBackendNotAvailable = errors.New("backend: not available")
