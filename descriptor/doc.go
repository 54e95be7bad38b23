// Package descriptor implements the descriptor-set pool allocator (spec
// §4.3): layouts are grouped by their range signature (the sorted
// (descriptor-type, count) shape of their bindings); each signature owns a
// FIFO of backend descriptor pools sized to amortize many small
// allocations. It depends only on backend, not on resource, since sizing a
// pool needs nothing more than a layout's binding shape and its raw
// backend handle.
package descriptor

const (
	// MinSets is the minimum set count a freshly created pool is sized for
	// (spec §4.3 "MIN_SETS=64").
	MinSets = 64
)
