package access

import "github.com/gogpu/forge/backend"

// ImageAccess is the image access-flag vocabulary (spec §4.4, grounded on
// rendy's chain/src/resource.rs IMAGE_ACCESSES table).
type ImageAccess uint32

const (
	ImageAccessInputAttachmentRead ImageAccess = 1 << iota
	ImageAccessColorAttachmentRead
	ImageAccessColorAttachmentWrite
	ImageAccessDepthStencilAttachmentRead
	ImageAccessDepthStencilAttachmentWrite
	ImageAccessShaderRead
	ImageAccessShaderWrite
	ImageAccessTransferRead
	ImageAccessTransferWrite
)

const imageWriteMask = ImageAccessColorAttachmentWrite | ImageAccessDepthStencilAttachmentWrite |
	ImageAccessShaderWrite | ImageAccessTransferWrite

// HasWrite reports whether a contains any write-class access bit.
func (a ImageAccess) HasWrite() bool { return a&imageWriteMask != 0 }

var imageAccessBits = []struct {
	access ImageAccess
	usage  backend.ImageUsage
}{
	{ImageAccessInputAttachmentRead, backend.ImageUsageInputAttachment},
	{ImageAccessColorAttachmentRead, backend.ImageUsageColorAttachment},
	{ImageAccessColorAttachmentWrite, backend.ImageUsageColorAttachment},
	{ImageAccessDepthStencilAttachmentRead, backend.ImageUsageDepthStencilAttachment},
	{ImageAccessDepthStencilAttachmentWrite, backend.ImageUsageDepthStencilAttachment},
	{ImageAccessShaderRead, backend.ImageUsageSampled | backend.ImageUsageStorage},
	{ImageAccessShaderWrite, backend.ImageUsageStorage},
	{ImageAccessTransferRead, backend.ImageUsageTransferSrc},
	{ImageAccessTransferWrite, backend.ImageUsageTransferDst},
}

// ValidImageUsage mirrors ValidBufferUsage for the image vocabulary.
func ValidImageUsage(a ImageAccess, usage backend.ImageUsage) bool {
	for _, bit := range imageAccessBits {
		if a&bit.access == 0 {
			continue
		}
		if usage&bit.usage == 0 {
			return false
		}
	}
	return true
}

// imageAccessLayout is one access-bit's single-access-alone preferred
// layout (spec §4.4 layout_for table).
var imageAccessLayout = map[ImageAccess]backend.ImageLayout{
	ImageAccessInputAttachmentRead:        backend.ImageLayoutShaderReadOnlyOptimal,
	ImageAccessColorAttachmentRead:        backend.ImageLayoutColorAttachmentOptimal,
	ImageAccessColorAttachmentWrite:       backend.ImageLayoutColorAttachmentOptimal,
	ImageAccessDepthStencilAttachmentRead: backend.ImageLayoutDepthStencilReadOnlyOptimal,
	ImageAccessDepthStencilAttachmentWrite: backend.ImageLayoutDepthStencilAttachmentOptimal,
	ImageAccessShaderRead:                 backend.ImageLayoutShaderReadOnlyOptimal,
	ImageAccessTransferRead:               backend.ImageLayoutTransferSrcOptimal,
	ImageAccessTransferWrite:              backend.ImageLayoutTransferDstOptimal,
}

// LayoutFor folds access down to the single layout that serves every bit
// set in it (spec §4.4, §9 open question 3): identical read/write pairs
// collapse to their shared layout; depth-read + depth-write collapses to
// depth-attachment-optimal (Vulkan allows writing through the read-only
// layout's sibling since both alias the same optimal tiling); any other
// combination of access bits that disagree on layout collapses to GENERAL
// rather than refusing — the fallback the original source always takes
// when no single optimal layout serves every requested access.
func LayoutFor(a ImageAccess) backend.ImageLayout {
	var result backend.ImageLayout
	has := false
	for _, bit := range []ImageAccess{
		ImageAccessInputAttachmentRead, ImageAccessColorAttachmentRead, ImageAccessColorAttachmentWrite,
		ImageAccessDepthStencilAttachmentRead, ImageAccessDepthStencilAttachmentWrite,
		ImageAccessShaderRead, ImageAccessTransferRead, ImageAccessTransferWrite,
	} {
		if a&bit == 0 {
			continue
		}
		layout := imageAccessLayout[bit]
		switch {
		case !has:
			result, has = layout, true
		case result == layout:
			// already agrees
		case isDepthPair(result, layout):
			result = backend.ImageLayoutDepthStencilAttachmentOptimal
		default:
			result = backend.ImageLayoutGeneral
		}
	}
	if !has {
		return backend.ImageLayoutGeneral
	}
	return result
}

func isDepthPair(a, b backend.ImageLayout) bool {
	return (a == backend.ImageLayoutDepthStencilReadOnlyOptimal && b == backend.ImageLayoutDepthStencilAttachmentOptimal) ||
		(a == backend.ImageLayoutDepthStencilAttachmentOptimal && b == backend.ImageLayoutDepthStencilReadOnlyOptimal)
}
