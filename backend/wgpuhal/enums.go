package wgpuhal

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/forge/backend"
)

// Conversions below translate forge's backend.* vocabulary (itself a
// Vulkan-shaped placeholder enum set, spec §3) into gputypes' wgpu-shaped
// enums. Only the bits actually exercised by resource/ and descriptor/ are
// covered; anything else folds to a safe default rather than panicking,
// since an unsupported combination should surface as a hal-side validation
// error, not a forge-side one.

func toBufferUsage(u backend.BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if u&backend.BufferUsageTransferSrc != 0 {
		out |= gputypes.BufferUsageCopySrc
	}
	if u&backend.BufferUsageTransferDst != 0 {
		out |= gputypes.BufferUsageCopyDst
	}
	if u&backend.BufferUsageUniform != 0 {
		out |= gputypes.BufferUsageUniform
	}
	if u&backend.BufferUsageStorage != 0 {
		out |= gputypes.BufferUsageStorage
	}
	if u&backend.BufferUsageIndex != 0 {
		out |= gputypes.BufferUsageIndex
	}
	if u&backend.BufferUsageVertex != 0 {
		out |= gputypes.BufferUsageVertex
	}
	if u&backend.BufferUsageIndirect != 0 {
		out |= gputypes.BufferUsageIndirect
	}
	return out
}

func toTextureUsage(u backend.ImageUsage) gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&backend.ImageUsageTransferSrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&backend.ImageUsageTransferDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&backend.ImageUsageSampled != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&backend.ImageUsageStorage != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u&(backend.ImageUsageColorAttachment|backend.ImageUsageDepthStencilAttachment) != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

func toTextureDimension(k backend.ImageKind) gputypes.TextureDimension {
	switch k {
	case backend.ImageKind1D:
		return gputypes.TextureDimension1D
	case backend.ImageKind3D:
		return gputypes.TextureDimension3D
	default:
		return gputypes.TextureDimension2D
	}
}

// toTextureFormat covers the common swapchain/render-target formats; a
// fuller table belongs to resource/ once forge grows a real Format enum
// instead of the opaque backend.Format placeholder (spec §9 leaves the
// exact format vocabulary to implementers).
func toTextureFormat(f backend.Format) gputypes.TextureFormat {
	switch f {
	case 1:
		return gputypes.TextureFormatBGRA8Unorm
	case 2:
		return gputypes.TextureFormatDepth32Float
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

func toFilterMode(v uint8) gputypes.FilterMode {
	if v == 0 {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func toAddressMode(v uint8) gputypes.AddressMode {
	switch v {
	case 1:
		return gputypes.AddressModeMirrorRepeat
	case 2:
		return gputypes.AddressModeClampToEdge
	default:
		return gputypes.AddressModeRepeat
	}
}

func toPrimitiveTopology(kind uint8) gputypes.PrimitiveTopology {
	switch kind {
	case 1:
		return gputypes.PrimitiveTopologyLineList
	case 2:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func toCullMode(v uint8) gputypes.CullMode {
	switch v {
	case 1:
		return gputypes.CullModeFront
	case 2:
		return gputypes.CullModeBack
	default:
		return gputypes.CullModeNone
	}
}

func toBindGroupLayoutEntry(b backend.DescriptorBindingInfo) gputypes.BindGroupLayoutEntry {
	entry := gputypes.BindGroupLayoutEntry{
		Binding:    b.Binding,
		Visibility: gputypes.ShaderStage(b.StageFlags),
	}
	switch b.Type {
	case backend.DescriptorTypeUniformBuffer, backend.DescriptorTypeUniformBufferDynamic:
		entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	case backend.DescriptorTypeStorageBuffer, backend.DescriptorTypeStorageBufferDynamic:
		entry.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
	case backend.DescriptorTypeSampler:
		entry.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case backend.DescriptorTypeSampledImage, backend.DescriptorTypeCombinedImageSampler:
		entry.Texture = &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat}
	case backend.DescriptorTypeStorageImage:
		entry.StorageTexture = &gputypes.StorageTextureBindingLayout{Access: gputypes.StorageTextureAccessWriteOnly, Format: gputypes.TextureFormatRGBA8Unorm}
	}
	return entry
}
