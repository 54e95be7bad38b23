package resource

import "encoding/binary"

// keyBuilder produces a canonical byte encoding for a cache key from a
// sequence of typed fields, turned into a Go string at the end — the same
// "encode then use the string as the comparable key" trick ShaderModuleKey
// uses, shared here so every multi-field key in this package (descriptor
// set layouts, pipeline layouts, render passes, graphics pipelines,
// framebuffers) builds its key the same way instead of each inventing its
// own ad hoc hashing.
type keyBuilder struct {
	buf []byte
}

func (b *keyBuilder) u32(v uint32) *keyBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *keyBuilder) u64(v uint64) *keyBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *keyBuilder) i32(v int32) *keyBuilder { return b.u32(uint32(v)) }
func (b *keyBuilder) i(v int) *keyBuilder     { return b.u64(uint64(v)) }
func (b *keyBuilder) bool(v bool) *keyBuilder {
	if v {
		return b.u32(1)
	}
	return b.u32(0)
}

// sep inserts a separator byte between variable-length groups so that, for
// example, two bindings encoded back to back can't be confused with one
// binding encoded with different field boundaries.
func (b *keyBuilder) sep() *keyBuilder {
	b.buf = append(b.buf, 0xff)
	return b
}

func (b *keyBuilder) String() string { return string(b.buf) }
