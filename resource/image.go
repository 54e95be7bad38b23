package resource

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/memory"
)

// Image owns a raw image object and, unless acquired from a swapchain, the
// memory block backing it (spec §3: "images acquired from a swapchain own
// no block"). HasBlock distinguishes the two cases since a zero-value
// memory.Block cannot be told apart from a genuinely zero-sized one.
type Image struct {
	Raw       backend.RawImage
	Block     memory.Block
	HasBlock  bool
	TypeIndex int
	Info      backend.ImageInfo
}

// CreateImage creates the raw image, allocates and binds a block from
// heaps, and rolls back on any failure (spec §7 partial-rollback rule).
func CreateImage(dev backend.Device, heaps *memory.Heaps, info backend.ImageInfo, usage memory.Usage) (Image, error) {
	raw, err := dev.CreateImage(info)
	if err != nil {
		return Image{}, err
	}

	reqs := dev.GetImageRequirements(info)
	block, typeIndex, err := heaps.Allocate(dev, reqs, usage)
	if err != nil {
		dev.DestroyImage(raw)
		return Image{}, err
	}

	if err := dev.BindImageMemory(raw, block.Memory.Raw, block.Start); err != nil {
		heaps.Free(dev, typeIndex, block)
		dev.DestroyImage(raw)
		return Image{}, err
	}

	return Image{Raw: raw, Block: block, HasBlock: true, TypeIndex: typeIndex, Info: info}, nil
}

// WrapSwapchainImage wraps a raw image the presentation engine already owns
// the memory for. The result owns no block, and Dispose on it does nothing:
// the presentation engine owns the image itself as well.
func WrapSwapchainImage(raw backend.RawImage, info backend.ImageInfo) Image {
	return Image{Raw: raw, Info: info}
}

// Dispose destroys the raw image and returns its block to heaps. On an
// Image from WrapSwapchainImage (HasBlock false) it does nothing, since the
// presentation engine owns that image.
func (img Image) Dispose(dev backend.Device, heaps *memory.Heaps) {
	if !img.HasBlock {
		return
	}
	dev.DestroyImage(img.Raw)
	heaps.Free(dev, img.TypeIndex, img.Block)
}
