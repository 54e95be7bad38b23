package backend

// SubresourceRange names the mip/array slice of an image a barrier or view
// applies to (spec §4.6 synchronizer input).
type SubresourceRange struct {
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// MemoryBarrier is a global access-mask transition that applies across
// every resource, matching Vulkan's VkMemoryBarrier — used when a
// synchronizer needs to express a read/write hazard that isn't tied to
// one specific buffer or image.
type MemoryBarrier struct {
	SrcAccessMask uint32
	DstAccessMask uint32
}

// BufferBarrier describes one buffer's access-mask transition across a
// pipeline barrier, matching Vulkan's VkBufferMemoryBarrier fields forge
// actually needs (no queue-family-ownership transfer support yet — spec
// §9 leaves queue transfer unimplemented).
type BufferBarrier struct {
	Buffer        RawBuffer
	SrcAccessMask uint32
	DstAccessMask uint32
}

// ImageBarrier describes one image's access-mask and layout transition
// across a pipeline barrier.
type ImageBarrier struct {
	Image         RawImage
	Range         SubresourceRange
	SrcAccessMask uint32
	DstAccessMask uint32
	OldLayout     ImageLayout
	NewLayout     ImageLayout
}

// SubmitInfo describes one batch of command buffers to submit to a queue,
// with the semaphores it must wait on and signal.
type SubmitInfo struct {
	CommandBuffers []RawCommandBuffer
	Wait           []RawSemaphore
	WaitStageMasks []uint32
	Signal         []RawSemaphore
}
