// Package software provides an in-process, allocation-free-of-real-GPU
// Device implementation (backend.Kind Empty). It exists so the rest of
// forge — allocators, caches, the descriptor allocator, the scheduler — can
// be exercised by plain "testing" unit tests without a real Vulkan/Metal/
// DX12 device, the same role gg's "software" backend plays for 2D
// rendering tests.
package software

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/internal/idgen"
)

func init() {
	backend.Register(backend.Empty, func() (backend.Device, error) {
		return New(), nil
	})
}

// Config tunes the fake device's reported memory-type table.
type Config struct {
	// Heaps, if empty, defaults to a single 256 MiB heap.
	Heaps []backend.MemoryHeap
	// Types, if empty, defaults to three types over that heap: device-local,
	// host-visible+coherent, and host-visible+coherent+cached.
	Types []backend.MemoryType
	// NonCoherentAtomSize defaults to 64 if zero.
	NonCoherentAtomSize uint64
}

// Device is a software-only backend.Device: it never talks to real
// hardware, every "raw" object is a counter, and memory is backed by plain
// Go byte slices. It is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	identity uintptr
	props    backend.MemoryProperties

	nextID  uint64
	mems    map[backend.RawMemory]*memBlock
	fences  map[backend.RawFence]bool
	pools   map[backend.RawDescriptorPool]*descPool
	objects map[uint64]struct{} // generic liveness set for every other Raw* kind
}

type memBlock struct {
	bytes []byte
	props backend.MemoryPropertyFlags
	mapped bool
}

type descPool struct {
	maxSets int
	used    int
}

// New creates a software Device with the default Config.
func New() *Device { return NewWithConfig(Config{}) }

// NewWithConfig creates a software Device with an explicit memory-type
// table, useful for exercising Heaps routing decisions deterministically.
func NewWithConfig(cfg Config) *Device {
	if len(cfg.Heaps) == 0 {
		cfg.Heaps = []backend.MemoryHeap{{Size: 256 << 20}}
	}
	if len(cfg.Types) == 0 {
		cfg.Types = []backend.MemoryType{
			{Properties: backend.MemoryPropDeviceLocal, HeapIndex: 0},
			{Properties: backend.MemoryPropHostVisible | backend.MemoryPropHostCoherent, HeapIndex: 0},
			{Properties: backend.MemoryPropHostVisible | backend.MemoryPropHostCoherent | backend.MemoryPropHostCached, HeapIndex: 0},
		}
	}
	if cfg.NonCoherentAtomSize == 0 {
		cfg.NonCoherentAtomSize = 64
	}
	return &Device{
		identity: uintptr(idgen.NextDeviceID()),
		props: backend.MemoryProperties{
			Heaps:               cfg.Heaps,
			Types:               cfg.Types,
			NonCoherentAtomSize: cfg.NonCoherentAtomSize,
		},
		mems:    make(map[backend.RawMemory]*memBlock),
		fences:  make(map[backend.RawFence]bool),
		pools:   make(map[backend.RawDescriptorPool]*descPool),
		objects: make(map[uint64]struct{}),
	}
}

func (d *Device) id() uint64 { return atomic.AddUint64(&d.nextID, 1) }

// Identity returns this device's monotonic identity tag.
func (d *Device) Identity() uintptr { return d.identity }

func (d *Device) MemoryProperties() backend.MemoryProperties { return d.props }

func (d *Device) AllocateMemory(typeIndex int, size uint64) (backend.RawMemory, error) {
	if typeIndex < 0 || typeIndex >= len(d.props.Types) {
		return 0, backend.ErrOutOfDeviceMemory
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := backend.RawMemory(d.id())
	d.mems[id] = &memBlock{
		bytes: make([]byte, size),
		props: d.props.Types[typeIndex].Properties,
	}
	return id, nil
}

func (d *Device) FreeMemory(m backend.RawMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.mems, m)
}

func (d *Device) MapMemory(m backend.RawMemory, offset, size uint64) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.mems[m]
	if !ok {
		return nil, backend.ErrMappingFailed
	}
	if !b.props.Contains(backend.MemoryPropHostVisible) {
		return nil, backend.ErrMappingFailed
	}
	if offset+size > uint64(len(b.bytes)) {
		return nil, backend.ErrMappingFailed
	}
	b.mapped = true
	return b.bytes[offset : offset+size], nil
}

func (d *Device) UnmapMemory(m backend.RawMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.mems[m]; ok {
		b.mapped = false
	}
}

func (d *Device) InvalidateRanges([]backend.MemoryRange) error { return nil }
func (d *Device) FlushRanges([]backend.MemoryRange) error      { return nil }

func (d *Device) GetBufferRequirements(info backend.BufferInfo) backend.Requirements {
	return backend.Requirements{Size: info.Size, Alignment: 256, TypeMask: ^uint32(0)}
}

func (d *Device) GetImageRequirements(info backend.ImageInfo) backend.Requirements {
	size := uint64(info.Width) * uint64(info.Height) * uint64(max1(info.Depth)) * 4
	return backend.Requirements{Size: size, Alignment: 1024, TypeMask: 1} // device-local only
}

func max1(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}

func (d *Device) newHandle() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.id()
	d.objects[id] = struct{}{}
	return id
}

func (d *Device) drop(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, id)
}

func (d *Device) CreateBuffer(backend.BufferInfo) (backend.RawBuffer, error) {
	return backend.RawBuffer(d.newHandle()), nil
}
func (d *Device) DestroyBuffer(b backend.RawBuffer) { d.drop(uint64(b)) }
func (d *Device) BindBufferMemory(backend.RawBuffer, backend.RawMemory, uint64) error { return nil }

func (d *Device) CreateImage(backend.ImageInfo) (backend.RawImage, error) {
	return backend.RawImage(d.newHandle()), nil
}
func (d *Device) DestroyImage(i backend.RawImage) { d.drop(uint64(i)) }
func (d *Device) BindImageMemory(backend.RawImage, backend.RawMemory, uint64) error { return nil }

func (d *Device) CreateImageView(backend.ImageViewInfo) (backend.RawImageView, error) {
	return backend.RawImageView(d.newHandle()), nil
}
func (d *Device) DestroyImageView(v backend.RawImageView) { d.drop(uint64(v)) }

func (d *Device) CreateSampler(backend.SamplerInfo) (backend.RawSampler, error) {
	return backend.RawSampler(d.newHandle()), nil
}
func (d *Device) DestroySampler(s backend.RawSampler) { d.drop(uint64(s)) }

func (d *Device) CreateShaderModule(backend.ShaderModuleInfo) (backend.RawShaderModule, error) {
	return backend.RawShaderModule(d.newHandle()), nil
}
func (d *Device) DestroyShaderModule(s backend.RawShaderModule) { d.drop(uint64(s)) }

func (d *Device) CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo) (backend.RawDescriptorSetLayout, error) {
	return backend.RawDescriptorSetLayout(d.newHandle()), nil
}
func (d *Device) DestroyDescriptorSetLayout(l backend.RawDescriptorSetLayout) { d.drop(uint64(l)) }

func (d *Device) CreatePipelineLayout(backend.PipelineLayoutInfo) (backend.RawPipelineLayout, error) {
	return backend.RawPipelineLayout(d.newHandle()), nil
}
func (d *Device) DestroyPipelineLayout(l backend.RawPipelineLayout) { d.drop(uint64(l)) }

func (d *Device) CreateRenderPass(backend.RenderPassInfo) (backend.RawRenderPass, error) {
	return backend.RawRenderPass(d.newHandle()), nil
}
func (d *Device) DestroyRenderPass(r backend.RawRenderPass) { d.drop(uint64(r)) }

func (d *Device) CreateGraphicsPipeline(backend.GraphicsPipelineInfo) (backend.RawGraphicsPipeline, error) {
	return backend.RawGraphicsPipeline(d.newHandle()), nil
}
func (d *Device) DestroyGraphicsPipeline(p backend.RawGraphicsPipeline) { d.drop(uint64(p)) }

func (d *Device) CreateFramebuffer(backend.FramebufferInfo) (backend.RawFramebuffer, error) {
	return backend.RawFramebuffer(d.newHandle()), nil
}
func (d *Device) DestroyFramebuffer(f backend.RawFramebuffer) { d.drop(uint64(f)) }

func (d *Device) CreateDescriptorPool(info backend.DescriptorPoolInfo) (backend.RawDescriptorPool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := backend.RawDescriptorPool(d.id())
	d.pools[id] = &descPool{maxSets: info.MaxSets}
	return id, nil
}
func (d *Device) DestroyDescriptorPool(p backend.RawDescriptorPool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pools, p)
}

func (d *Device) AllocateDescriptorSets(pool backend.RawDescriptorPool, layouts []backend.RawDescriptorSetLayout) ([]backend.RawDescriptorSet, error) {
	d.mu.Lock()
	p, ok := d.pools[pool]
	if !ok {
		d.mu.Unlock()
		return nil, backend.ErrFragmentedPool
	}
	if p.used+len(layouts) > p.maxSets {
		d.mu.Unlock()
		return nil, backend.ErrFragmentedPool
	}
	p.used += len(layouts)
	d.mu.Unlock()

	sets := make([]backend.RawDescriptorSet, len(layouts))
	for i := range sets {
		sets[i] = backend.RawDescriptorSet(d.newHandle())
	}
	return sets, nil
}

func (d *Device) FreeDescriptorSets(pool backend.RawDescriptorPool, sets []backend.RawDescriptorSet) {
	d.mu.Lock()
	if p, ok := d.pools[pool]; ok {
		p.used -= len(sets)
		if p.used < 0 {
			p.used = 0
		}
	}
	d.mu.Unlock()
	for _, s := range sets {
		d.drop(uint64(s))
	}
}

func (d *Device) CreateFence(signaled bool) (backend.RawFence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := backend.RawFence(d.id())
	d.fences[id] = signaled
	return id, nil
}
func (d *Device) DestroyFence(f backend.RawFence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.fences, f)
}
func (d *Device) WaitFence(f backend.RawFence, _ int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fences[f], nil
}
func (d *Device) ResetFence(f backend.RawFence) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fences[f] = false
	return nil
}

func (d *Device) CreateSemaphore() (backend.RawSemaphore, error) {
	return backend.RawSemaphore(d.newHandle()), nil
}
func (d *Device) DestroySemaphore(s backend.RawSemaphore) { d.drop(uint64(s)) }

func (d *Device) CreateCommandPool(int) (backend.RawCommandPool, error) {
	return backend.RawCommandPool(d.newHandle()), nil
}
func (d *Device) DestroyCommandPool(p backend.RawCommandPool) { d.drop(uint64(p)) }
func (d *Device) ResetCommandPool(backend.RawCommandPool) error { return nil }

func (d *Device) AllocateCommandBuffers(pool backend.RawCommandPool, count int) ([]backend.RawCommandBuffer, error) {
	bufs := make([]backend.RawCommandBuffer, count)
	for i := range bufs {
		bufs[i] = backend.RawCommandBuffer(d.newHandle())
	}
	return bufs, nil
}
func (d *Device) FreeCommandBuffers(pool backend.RawCommandPool, bufs []backend.RawCommandBuffer) {
	for _, b := range bufs {
		d.drop(uint64(b))
	}
}

func (d *Device) BeginCommandBuffer(backend.RawCommandBuffer, bool) error { return nil }
func (d *Device) EndCommandBuffer(backend.RawCommandBuffer) error        { return nil }
func (d *Device) CmdPipelineBarrier(backend.RawCommandBuffer, uint32, uint32, []backend.MemoryBarrier, []backend.BufferBarrier, []backend.ImageBarrier) {
}

func (d *Device) QueueSubmit(family, index int, submits []backend.SubmitInfo, fence backend.RawFence) error {
	if !fence.IsZero() {
		d.mu.Lock()
		d.fences[fence] = true
		d.mu.Unlock()
	}
	return nil
}

var _ backend.Device = (*Device)(nil)
