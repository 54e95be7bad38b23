package command

// Cirque is a fixed-depth ring of per-frame resources (command pools,
// per-frame descriptor sets), indexed by frame count modulo depth so a
// resource from frame N is never reused until frame N+depth, by which
// point the GPU is guaranteed done with frame N (spec §9 allows depth to
// be fixed at graph-build time). Simplified from rendy's frame/src/
// cirque/mod.rs, which layers a full per-entry typestate (Ready/Exhaust/
// Reset) on top of the ring to track acquisition across multiple
// command-pool "spans" within one frame; forge's frame-graph builds one
// command buffer per submission up front rather than acquiring spans
// lazily mid-frame, so that extra state has no caller here — get/dispose
// per slot is enough.
type Cirque[T any] struct {
	depth int
	slots []T
	valid []bool
	frame []uint64
}

// NewCirque creates a Cirque with the given fixed depth.
func NewCirque[T any](depth int) *Cirque[T] {
	if depth <= 0 {
		depth = 1
	}
	return &Cirque[T]{depth: depth, slots: make([]T, depth), valid: make([]bool, depth), frame: make([]uint64, depth)}
}

// Depth returns the ring's fixed depth.
func (c *Cirque[T]) Depth() int { return c.depth }

// Get returns the slot for frameIndex and whether it already holds a
// value from a previous cycle (the caller must dispose of a previous
// value before overwriting a valid slot — Cirque does not call dispose
// itself since disposal is backend-specific).
func (c *Cirque[T]) Get(frameIndex uint64) (T, bool) {
	i := int(frameIndex % uint64(c.depth))
	return c.slots[i], c.valid[i]
}

// Set stores a value for frameIndex, making it retrievable by Get until
// the ring wraps back to this slot.
func (c *Cirque[T]) Set(frameIndex uint64, v T) {
	i := int(frameIndex % uint64(c.depth))
	c.slots[i] = v
	c.valid[i] = true
	c.frame[i] = frameIndex
}

// GetOrCreate returns the existing slot for frameIndex if it was already
// populated for this exact frame, or calls create and stores its result
// otherwise — running dispose on whatever stale value the slot held from
// an earlier cycle first.
func (c *Cirque[T]) GetOrCreate(frameIndex uint64, dispose func(T), create func() T) T {
	i := int(frameIndex % uint64(c.depth))
	if c.valid[i] && c.frame[i] == frameIndex {
		return c.slots[i]
	}
	if c.valid[i] && dispose != nil {
		dispose(c.slots[i])
	}
	c.slots[i] = create()
	c.valid[i] = true
	c.frame[i] = frameIndex
	return c.slots[i]
}
