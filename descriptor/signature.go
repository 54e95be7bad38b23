package descriptor

import (
	"encoding/binary"
	"sort"

	"github.com/gogpu/forge/backend"
)

// RangeSignature is the sorted (descriptor-type, count) shape of a
// layout's bindings (spec §4.3 "The allocator groups descriptor-set
// layouts by their range signature"), encoded as a comparable string so it
// can key the bucket map directly.
type RangeSignature string

type rangeEntry struct {
	typ   backend.DescriptorType
	count uint32
}

// ComputeSignature derives bindings' range signature. Binding order does
// not affect the result: two layouts with the same multiset of
// (type, count) pairs share a bucket regardless of binding-slot order.
func ComputeSignature(bindings []backend.DescriptorBindingInfo) RangeSignature {
	entries := make([]rangeEntry, len(bindings))
	for i, b := range bindings {
		entries[i] = rangeEntry{typ: b.Type, count: b.Count}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].typ != entries[j].typ {
			return entries[i].typ < entries[j].typ
		}
		return entries[i].count < entries[j].count
	})

	buf := make([]byte, 0, len(entries)*5)
	var tmp [4]byte
	for _, e := range entries {
		buf = append(buf, byte(e.typ))
		binary.LittleEndian.PutUint32(tmp[:], e.count)
		buf = append(buf, tmp[:]...)
	}
	return RangeSignature(buf)
}

// typeCapacities sums, per descriptor type, count*poolSetCount across
// bindings — the pool sizing rule from spec §4.3 ("per-descriptor-type
// capacities equal to layout_ranges * pool_set_count").
func typeCapacities(bindings []backend.DescriptorBindingInfo, poolSetCount int) []backend.DescriptorPoolSize {
	totals := make(map[backend.DescriptorType]uint32)
	for _, b := range bindings {
		totals[b.Type] += b.Count * uint32(poolSetCount)
	}
	sizes := make([]backend.DescriptorPoolSize, 0, len(totals))
	for typ, count := range totals {
		sizes = append(sizes, backend.DescriptorPoolSize{Type: typ, Count: count})
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].Type < sizes[j].Type })
	return sizes
}

// nextPow2 rounds v up to the nearest power of two (v=0 rounds to 1).
func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}
