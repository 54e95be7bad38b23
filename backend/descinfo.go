package backend

// Format is a placeholder for a backend pixel/vertex format identifier.
// Concrete adapters translate it to their own format enum (e.g.
// gputypes.TextureFormat for the wgpuhal adapter).
type Format uint32

// BufferUsage is a bitmask of how a buffer will be used, matching the
// access/usage vocabulary the access package validates against.
type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageIndirect
)

// ImageUsage is a bitmask of how an image will be used.
type ImageUsage uint32

const (
	ImageUsageTransferSrc ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageStorage
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
	ImageUsageTransientAttachment
	ImageUsageInputAttachment
)

// ImageKind distinguishes 1D/2D/3D/cube images.
type ImageKind uint8

const (
	ImageKind1D ImageKind = iota
	ImageKind2D
	ImageKind3D
	ImageKindCube
)

// ImageLayout mirrors VkImageLayout's subset the core needs to reason about.
type ImageLayout uint8

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrc
)

// BufferInfo describes a buffer creation request.
type BufferInfo struct {
	Size  uint64
	Usage BufferUsage
}

// ImageInfo describes an image creation request.
type ImageInfo struct {
	Kind        ImageKind
	Width       uint32
	Height      uint32
	Depth       uint32
	Levels      uint32
	Layers      uint32
	Samples     uint32
	Format      Format
	Tiling      uint8
	Usage       ImageUsage
	ViewCaps    uint8 // bitmask: which view kinds may be created of this image
}

// ImageViewInfo describes an image-view creation request.
type ImageViewInfo struct {
	Image      RawImage
	ViewKind   ImageKind
	Format     Format
	BaseLevel  uint32
	LevelCount uint32
	BaseLayer  uint32
	LayerCount uint32
}

// SamplerInfo describes sampler state. It is a plain value type so it can be
// used directly as a cache key (spec §4.8 SamplerDesc).
type SamplerInfo struct {
	MagFilter    uint8
	MinFilter    uint8
	MipmapMode   uint8
	AddressModeU uint8
	AddressModeV uint8
	AddressModeW uint8
	MaxAnisotropy float32
	CompareOp    uint8
	CompareEnable bool
}

// ShaderModuleInfo carries the raw SPIR-V words; the bytes themselves are
// the cache key (spec §4.8 ShaderModuleKey).
type ShaderModuleInfo struct {
	SPIRV []uint32
}

// DescriptorBindingInfo is one binding slot in a descriptor-set-layout.
type DescriptorBindingInfo struct {
	Binding           uint32
	Type              DescriptorType
	Count             uint32
	StageFlags        uint32
	ImmutableSamplers []RawSampler
}

// DescriptorType enumerates the Vulkan descriptor-type vocabulary the
// descriptor allocator buckets pools by.
type DescriptorType uint8

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeCombinedImageSampler
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformBuffer
	DescriptorTypeStorageBuffer
	DescriptorTypeUniformBufferDynamic
	DescriptorTypeStorageBufferDynamic
	DescriptorTypeInputAttachment
	descriptorTypeCount
)

// DescriptorSetLayoutInfo describes a descriptor-set-layout creation
// request.
type DescriptorSetLayoutInfo struct {
	Bindings []DescriptorBindingInfo
}

// PushConstantRange describes one push-constant range in a pipeline layout.
type PushConstantRange struct {
	StageFlags uint32
	Offset     uint32
	Size       uint32
}

// PipelineLayoutInfo describes a pipeline-layout creation request.
type PipelineLayoutInfo struct {
	SetLayouts        []RawDescriptorSetLayout
	PushConstantRanges []PushConstantRange
}

// AttachmentDescription is one render-pass attachment slot.
type AttachmentDescription struct {
	Format         Format
	Samples        uint32
	LoadOp         uint8
	StoreOp        uint8
	StencilLoadOp  uint8
	StencilStoreOp uint8
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

// AttachmentRef references an attachment by index with the layout it is
// used in during a given subpass.
type AttachmentRef struct {
	Attachment uint32
	Layout     ImageLayout
}

// SubpassDescription describes one subpass.
type SubpassDescription struct {
	ColorAttachments    []AttachmentRef
	DepthStencil        *AttachmentRef
	InputAttachments    []AttachmentRef
	ResolveAttachments  []AttachmentRef
	PreserveAttachments []uint32
}

// SubpassDependency describes one inter-subpass dependency. Equality here
// includes Flags (spec §9 open question 2: "implementers should include
// all fields in RenderPassKey equality to be safe").
type SubpassDependency struct {
	SrcSubpass    uint32 // ^uint32(0) means VK_SUBPASS_EXTERNAL
	DstSubpass    uint32
	SrcStageMask  uint32
	DstStageMask  uint32
	SrcAccessMask uint32
	DstAccessMask uint32
	Flags         uint32
}

// RenderPassInfo describes a render-pass creation request.
type RenderPassInfo struct {
	Attachments []AttachmentDescription
	Subpasses   []SubpassDescription
	Dependencies []SubpassDependency
}

// GraphicsPipelineInfo describes a graphics-pipeline creation request.
type GraphicsPipelineInfo struct {
	Layout        RawPipelineLayout
	RenderPass    RawRenderPass
	Subpass       uint32
	Shaders       []RawShaderModule
	PrimitiveKind uint8
	Rasterizer    RasterizerState
	Blend         BlendState
	DepthStencil  DepthStencilState
	Multisample   MultisampleState
}

// RasterizerState, BlendState, DepthStencilState and MultisampleState are
// plain value structs so GraphicsPipelineKey (spec §4.8) can embed and hash
// them directly.
type RasterizerState struct {
	PolygonMode uint8
	CullMode    uint8
	FrontFace   uint8
	LineWidth   float32
}

type BlendState struct {
	Enable         bool
	SrcColorFactor uint8
	DstColorFactor uint8
	ColorOp        uint8
	SrcAlphaFactor uint8
	DstAlphaFactor uint8
	AlphaOp        uint8
	WriteMask      uint8
}

type DepthStencilState struct {
	DepthTestEnable  bool
	DepthWriteEnable bool
	DepthCompareOp   uint8
	StencilEnable    bool
}

type MultisampleState struct {
	Samples uint32
}

// FramebufferInfo describes a framebuffer creation request.
type FramebufferInfo struct {
	RenderPass  RawRenderPass
	Attachments []RawImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

// DescriptorPoolSize is one (type, count) entry of a descriptor pool's
// per-type capacity (spec §4.3).
type DescriptorPoolSize struct {
	Type  DescriptorType
	Count uint32
}

// DescriptorPoolInfo describes a descriptor-pool creation request.
type DescriptorPoolInfo struct {
	MaxSets int
	Sizes   []DescriptorPoolSize
}
