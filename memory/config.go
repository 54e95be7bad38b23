package memory

// HeapsConfig tunes the Linear and Dynamic strategies every memory type
// gets (spec §4.1 "Heaps owns one allocator triple per MemoryType"). Zero
// values are replaced with the defaults noted below by NewHeaps.
type HeapsConfig struct {
	// LinearArenaSize is the size of one Linear allocator line. Default 32MiB.
	LinearArenaSize uint64
	// DynamicMinBlockSize is the smallest Dynamic bucket's block size, i.e.
	// the size-class granularity. Default 256B.
	DynamicMinBlockSize uint64
	// DynamicMaxBlockSize is the largest Dynamic bucket's block size;
	// requests above it route to Dedicated instead. Default 32MiB.
	DynamicMaxBlockSize uint64
}

const (
	defaultLinearArenaSize     = 32 << 20
	defaultDynamicMinBlockSize = 256
	defaultDynamicMaxBlockSize = 32 << 20
)

func (c HeapsConfig) withDefaults() HeapsConfig {
	if c.LinearArenaSize == 0 {
		c.LinearArenaSize = defaultLinearArenaSize
	}
	if c.DynamicMinBlockSize == 0 {
		c.DynamicMinBlockSize = defaultDynamicMinBlockSize
	}
	if c.DynamicMaxBlockSize == 0 {
		c.DynamicMaxBlockSize = defaultDynamicMaxBlockSize
	}
	return c
}
