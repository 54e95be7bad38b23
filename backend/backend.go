package backend

// Kind enumerates the graphics APIs forge can sit on top of (spec §6
// "Backend enumeration"). Concrete adapters register under one of these.
type Kind uint8

const (
	Empty Kind = iota
	Dx12
	Gl
	Metal
	Vulkan
)

func (k Kind) String() string {
	switch k {
	case Dx12:
		return "dx12"
	case Gl:
		return "gl"
	case Metal:
		return "metal"
	case Vulkan:
		return "vulkan"
	default:
		return "empty"
	}
}

// BasicPriority is the default auto-selection order: prefer a real native
// API over the always-available Empty stub. Mirrors the teacher's
// backend.backendPriority list (Rust > Native > Software).
var BasicPriority = []Kind{Vulkan, Metal, Dx12, Gl, Empty}

// Device is the capability surface forge consumes from a graphics API
// binding (spec §6). Every method here corresponds 1:1 to a bullet in the
// spec's "Graphics backend surface" section. A Device implementation must
// be safe for concurrent CreateX/DestroyX calls from multiple goroutines
// (spec §5: the derived-object cache performs concurrent get-or-insert).
type Device interface {
	// Identity returns a value that is equal, by ==, only when comparing a
	// Device to itself. Used for the device-identity assertions that every
	// handle operation performs (spec §4.2, §5).
	Identity() uintptr

	MemoryProperties() MemoryProperties
	AllocateMemory(typeIndex int, size uint64) (RawMemory, error)
	FreeMemory(RawMemory)
	MapMemory(mem RawMemory, offset, size uint64) ([]byte, error)
	UnmapMemory(RawMemory)
	InvalidateRanges(ranges []MemoryRange) error
	FlushRanges(ranges []MemoryRange) error

	GetBufferRequirements(BufferInfo) Requirements
	GetImageRequirements(ImageInfo) Requirements

	CreateBuffer(BufferInfo) (RawBuffer, error)
	DestroyBuffer(RawBuffer)
	BindBufferMemory(buf RawBuffer, mem RawMemory, offset uint64) error

	CreateImage(ImageInfo) (RawImage, error)
	DestroyImage(RawImage)
	BindImageMemory(img RawImage, mem RawMemory, offset uint64) error

	CreateImageView(ImageViewInfo) (RawImageView, error)
	DestroyImageView(RawImageView)

	CreateSampler(SamplerInfo) (RawSampler, error)
	DestroySampler(RawSampler)

	CreateShaderModule(ShaderModuleInfo) (RawShaderModule, error)
	DestroyShaderModule(RawShaderModule)

	CreateDescriptorSetLayout(DescriptorSetLayoutInfo) (RawDescriptorSetLayout, error)
	DestroyDescriptorSetLayout(RawDescriptorSetLayout)

	CreatePipelineLayout(PipelineLayoutInfo) (RawPipelineLayout, error)
	DestroyPipelineLayout(RawPipelineLayout)

	CreateRenderPass(RenderPassInfo) (RawRenderPass, error)
	DestroyRenderPass(RawRenderPass)

	CreateGraphicsPipeline(GraphicsPipelineInfo) (RawGraphicsPipeline, error)
	DestroyGraphicsPipeline(RawGraphicsPipeline)

	CreateFramebuffer(FramebufferInfo) (RawFramebuffer, error)
	DestroyFramebuffer(RawFramebuffer)

	CreateDescriptorPool(DescriptorPoolInfo) (RawDescriptorPool, error)
	DestroyDescriptorPool(RawDescriptorPool)
	AllocateDescriptorSets(pool RawDescriptorPool, layouts []RawDescriptorSetLayout) ([]RawDescriptorSet, error)
	FreeDescriptorSets(pool RawDescriptorPool, sets []RawDescriptorSet)

	CreateFence(signaled bool) (RawFence, error)
	DestroyFence(RawFence)
	WaitFence(f RawFence, timeoutNanos int64) (bool, error)
	ResetFence(RawFence) error

	CreateSemaphore() (RawSemaphore, error)
	DestroySemaphore(RawSemaphore)

	CreateCommandPool(family int) (RawCommandPool, error)
	DestroyCommandPool(RawCommandPool)
	ResetCommandPool(RawCommandPool) error
	AllocateCommandBuffers(pool RawCommandPool, count int) ([]RawCommandBuffer, error)
	FreeCommandBuffers(pool RawCommandPool, bufs []RawCommandBuffer)

	BeginCommandBuffer(cb RawCommandBuffer, oneShot bool) error
	EndCommandBuffer(cb RawCommandBuffer) error
	CmdPipelineBarrier(cb RawCommandBuffer, srcStageMask, dstStageMask uint32, memory []MemoryBarrier, buffers []BufferBarrier, images []ImageBarrier)

	QueueSubmit(family, index int, submits []SubmitInfo, fence RawFence) error
}
