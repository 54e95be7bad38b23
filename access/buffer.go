package access

import "github.com/gogpu/forge/backend"

// BufferAccess is the buffer access-flag vocabulary (spec §4.4, grounded on
// rendy's chain/src/resource.rs BUFFER_ACCESSES table).
type BufferAccess uint32

const (
	BufferAccessIndirectCommandRead BufferAccess = 1 << iota
	BufferAccessIndexRead
	BufferAccessVertexAttributeRead
	BufferAccessUniformRead
	BufferAccessShaderRead
	BufferAccessShaderWrite
	BufferAccessTransferRead
	BufferAccessTransferWrite
)

// bufferWriteMask is every buffer access bit that counts as a write for
// link-exclusivity purposes (spec §4.4 "any write access ... is
// exclusive").
const bufferWriteMask = BufferAccessShaderWrite | BufferAccessTransferWrite

// HasWrite reports whether a contains any write-class access bit.
func (a BufferAccess) HasWrite() bool { return a&bufferWriteMask != 0 }

// ValidBufferUsage reports whether usage carries, for every access bit set
// in access, at least one of the usage-flag bits that bit requires (spec
// §4.4 "valid_usage(access, usage): for every single-bit access set, at
// least one corresponding usage-flag bit must be set").
func ValidBufferUsage(a BufferAccess, usage backend.BufferUsage) bool {
	for _, bit := range bufferAccessBits {
		if a&bit.access == 0 {
			continue
		}
		if usage&bit.usage == 0 {
			return false
		}
	}
	return true
}

var bufferAccessBits = []struct {
	access BufferAccess
	usage  backend.BufferUsage
}{
	{BufferAccessIndirectCommandRead, backend.BufferUsageIndirect},
	{BufferAccessIndexRead, backend.BufferUsageIndex},
	{BufferAccessVertexAttributeRead, backend.BufferUsageVertex},
	{BufferAccessUniformRead, backend.BufferUsageUniform},
	{BufferAccessShaderRead, backend.BufferUsageStorage},
	{BufferAccessShaderWrite, backend.BufferUsageStorage},
	{BufferAccessTransferRead, backend.BufferUsageTransferSrc},
	{BufferAccessTransferWrite, backend.BufferUsageTransferDst},
}
