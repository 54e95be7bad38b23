package rescache

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/handle"
	"github.com/gogpu/forge/resource"
)

// Cache bundles one ephemeral store per cacheable resource kind for a
// single backend.Device. The zero value is not usable; construct with New.
type Cache struct {
	dev    backend.Device
	images *handle.InstanceStore[resource.Image]

	imageViews    *handle.EphemeralStore[resource.ImageViewKey, resource.ImageView]
	samplers      *handle.EphemeralStore[resource.SamplerDesc, resource.Sampler]
	shaders       *handle.EphemeralStore[resource.ShaderModuleKey, resource.ShaderModule]
	setLayouts    *handle.EphemeralStore[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout]
	pipeLayouts   *handle.EphemeralStore[resource.PipelineLayoutKey, resource.PipelineLayout]
	renderPasses  *handle.EphemeralStore[resource.RenderPassKey, resource.RenderPass]
	graphicsPipes *handle.EphemeralStore[resource.GraphicsPipelineKey, resource.GraphicsPipeline]
	framebuffers  *handle.EphemeralStore[resource.FramebufferKey, resource.Framebuffer]
}

// New constructs a Cache tagged to dev's identity, with images as the
// backing store for image-handle retention on ImageView creation (spec §3:
// image views hold a strong reference to their owning image).
// grace is the epoch count an unreferenced entry survives before eviction;
// see handle.EphemeralStore for its exact semantics.
func New(dev backend.Device, images *handle.InstanceStore[resource.Image], grace int64) *Cache {
	id := dev.Identity()
	c := &Cache{dev: dev, images: images}
	c.imageViews = handle.NewEphemeralStore[resource.ImageViewKey, resource.ImageView](id, grace, func(v resource.ImageView) {
		v.Dispose(dev, images)
	})
	c.samplers = handle.NewEphemeralStore[resource.SamplerDesc, resource.Sampler](id, grace, func(v resource.Sampler) {
		v.Dispose(dev)
	})
	c.shaders = handle.NewEphemeralStore[resource.ShaderModuleKey, resource.ShaderModule](id, grace, func(v resource.ShaderModule) {
		v.Dispose(dev)
	})
	c.setLayouts = handle.NewEphemeralStore[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout](id, grace, func(v resource.DescriptorSetLayout) {
		v.Dispose(dev)
	})
	c.pipeLayouts = handle.NewEphemeralStore[resource.PipelineLayoutKey, resource.PipelineLayout](id, grace, func(v resource.PipelineLayout) {
		v.Dispose(dev)
	})
	c.renderPasses = handle.NewEphemeralStore[resource.RenderPassKey, resource.RenderPass](id, grace, func(v resource.RenderPass) {
		v.Dispose(dev)
	})
	c.graphicsPipes = handle.NewEphemeralStore[resource.GraphicsPipelineKey, resource.GraphicsPipeline](id, grace, func(v resource.GraphicsPipeline) {
		v.Dispose(dev)
	})
	c.framebuffers = handle.NewEphemeralStore[resource.FramebufferKey, resource.Framebuffer](id, grace, func(v resource.Framebuffer) {
		v.Dispose(dev)
	})
	return c
}

// AdvanceEpoch sweeps every store for entries that have sat at zero
// refcount for at least `grace` epochs (spec §9 open question 1).
func (c *Cache) AdvanceEpoch() {
	c.imageViews.AdvanceEpoch()
	c.samplers.AdvanceEpoch()
	c.shaders.AdvanceEpoch()
	c.setLayouts.AdvanceEpoch()
	c.pipeLayouts.AdvanceEpoch()
	c.renderPasses.AdvanceEpoch()
	c.graphicsPipes.AdvanceEpoch()
	c.framebuffers.AdvanceEpoch()
}

// ImageView returns the cached view for key, creating it on miss.
func (c *Cache) ImageView(key resource.ImageViewKey) (handle.Ephemeral[resource.ImageViewKey, resource.ImageView], error) {
	return c.imageViews.LookupOrInsert(key, func() (resource.ImageView, error) {
		return resource.CreateImageView(c.dev, c.images, key)
	})
}

func (c *Cache) GetImageView(h handle.Ephemeral[resource.ImageViewKey, resource.ImageView]) (resource.ImageView, error) {
	return c.imageViews.Get(h)
}

func (c *Cache) ReleaseImageView(h handle.Ephemeral[resource.ImageViewKey, resource.ImageView]) error {
	return c.imageViews.Release(h)
}

// Sampler returns the cached sampler for desc, creating it on miss.
func (c *Cache) Sampler(desc resource.SamplerDesc) (handle.Ephemeral[resource.SamplerDesc, resource.Sampler], error) {
	return c.samplers.LookupOrInsert(desc, func() (resource.Sampler, error) {
		return resource.CreateSampler(c.dev, desc)
	})
}

func (c *Cache) GetSampler(h handle.Ephemeral[resource.SamplerDesc, resource.Sampler]) (resource.Sampler, error) {
	return c.samplers.Get(h)
}

func (c *Cache) ReleaseSampler(h handle.Ephemeral[resource.SamplerDesc, resource.Sampler]) error {
	return c.samplers.Release(h)
}

// ShaderModule returns the cached module for spirv, creating it on miss.
func (c *Cache) ShaderModule(spirv []uint32) (handle.Ephemeral[resource.ShaderModuleKey, resource.ShaderModule], error) {
	key := resource.NewShaderModuleKey(spirv)
	return c.shaders.LookupOrInsert(key, func() (resource.ShaderModule, error) {
		return resource.CreateShaderModule(c.dev, spirv)
	})
}

func (c *Cache) GetShaderModule(h handle.Ephemeral[resource.ShaderModuleKey, resource.ShaderModule]) (resource.ShaderModule, error) {
	return c.shaders.Get(h)
}

func (c *Cache) ReleaseShaderModule(h handle.Ephemeral[resource.ShaderModuleKey, resource.ShaderModule]) error {
	return c.shaders.Release(h)
}

// DescriptorSetLayout returns the cached layout for bindings, creating it
// on miss.
func (c *Cache) DescriptorSetLayout(bindings []backend.DescriptorBindingInfo) (handle.Ephemeral[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout], error) {
	key := resource.NewDescriptorSetLayoutKey(bindings)
	return c.setLayouts.LookupOrInsert(key, func() (resource.DescriptorSetLayout, error) {
		return resource.CreateDescriptorSetLayout(c.dev, bindings)
	})
}

func (c *Cache) GetDescriptorSetLayout(h handle.Ephemeral[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout]) (resource.DescriptorSetLayout, error) {
	return c.setLayouts.Get(h)
}

func (c *Cache) ReleaseDescriptorSetLayout(h handle.Ephemeral[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout]) error {
	return c.setLayouts.Release(h)
}

// PipelineLayout returns the cached layout for the given set layouts and
// push-constant ranges, creating it on miss. rawSetLayouts must line up
// positionally with setLayouts.
func (c *Cache) PipelineLayout(
	setLayouts []handle.Ephemeral[resource.DescriptorSetLayoutKey, resource.DescriptorSetLayout],
	rawSetLayouts []backend.RawDescriptorSetLayout,
	pushConstants []backend.PushConstantRange,
) (handle.Ephemeral[resource.PipelineLayoutKey, resource.PipelineLayout], error) {
	key := resource.NewPipelineLayoutKey(setLayouts, pushConstants)
	return c.pipeLayouts.LookupOrInsert(key, func() (resource.PipelineLayout, error) {
		for _, h := range setLayouts {
			if err := c.setLayouts.Retain(h); err != nil {
				return resource.PipelineLayout{}, err
			}
		}
		return resource.CreatePipelineLayout(c.dev, setLayouts, rawSetLayouts, pushConstants)
	})
}

func (c *Cache) GetPipelineLayout(h handle.Ephemeral[resource.PipelineLayoutKey, resource.PipelineLayout]) (resource.PipelineLayout, error) {
	return c.pipeLayouts.Get(h)
}

// ReleasePipelineLayout releases h and, on last release, the set-layout
// references it held.
func (c *Cache) ReleasePipelineLayout(h handle.Ephemeral[resource.PipelineLayoutKey, resource.PipelineLayout]) error {
	layout, err := c.pipeLayouts.Get(h)
	if err != nil {
		return err
	}
	if err := c.pipeLayouts.Release(h); err != nil {
		return err
	}
	for _, sl := range layout.SetLayouts {
		_ = c.setLayouts.Release(sl)
	}
	return nil
}

// RenderPass returns the cached render pass for info, creating it on miss.
func (c *Cache) RenderPass(info backend.RenderPassInfo) (handle.Ephemeral[resource.RenderPassKey, resource.RenderPass], error) {
	key := resource.NewRenderPassKey(info)
	return c.renderPasses.LookupOrInsert(key, func() (resource.RenderPass, error) {
		return resource.CreateRenderPass(c.dev, info)
	})
}

func (c *Cache) GetRenderPass(h handle.Ephemeral[resource.RenderPassKey, resource.RenderPass]) (resource.RenderPass, error) {
	return c.renderPasses.Get(h)
}

func (c *Cache) ReleaseRenderPass(h handle.Ephemeral[resource.RenderPassKey, resource.RenderPass]) error {
	return c.renderPasses.Release(h)
}

// GraphicsPipelineRequest bundles everything needed to build both a
// GraphicsPipelineKey and, on miss, the backend.GraphicsPipelineInfo to
// create it (spec §4.8: "GraphicsPipelineKey { shaders, layout_handle,
// render_pass_compat_token, subpass, state }").
type GraphicsPipelineRequest struct {
	Shaders          []resource.ShaderModuleKey
	Layout           handle.Ephemeral[resource.PipelineLayoutKey, resource.PipelineLayout]
	RenderPassCompat resource.RenderPassCompatToken
	Subpass          uint32
	State            resource.GraphicsPipelineState
	Info             backend.GraphicsPipelineInfo
}

// GraphicsPipeline returns the cached pipeline for req, creating it on
// miss.
func (c *Cache) GraphicsPipeline(req GraphicsPipelineRequest) (handle.Ephemeral[resource.GraphicsPipelineKey, resource.GraphicsPipeline], error) {
	key := resource.NewGraphicsPipelineKey(req.Shaders, req.Layout, req.RenderPassCompat, req.Subpass, req.State)
	return c.graphicsPipes.LookupOrInsert(key, func() (resource.GraphicsPipeline, error) {
		if err := c.pipeLayouts.Retain(req.Layout); err != nil {
			return resource.GraphicsPipeline{}, err
		}
		return resource.CreateGraphicsPipeline(c.dev, req.Info, key, req.Layout, req.RenderPassCompat)
	})
}

func (c *Cache) GetGraphicsPipeline(h handle.Ephemeral[resource.GraphicsPipelineKey, resource.GraphicsPipeline]) (resource.GraphicsPipeline, error) {
	return c.graphicsPipes.Get(h)
}

// ReleaseGraphicsPipeline releases h and, on last release, its pipeline
// layout reference.
func (c *Cache) ReleaseGraphicsPipeline(h handle.Ephemeral[resource.GraphicsPipelineKey, resource.GraphicsPipeline]) error {
	pipe, err := c.graphicsPipes.Get(h)
	if err != nil {
		return err
	}
	if err := c.graphicsPipes.Release(h); err != nil {
		return err
	}
	_ = c.pipeLayouts.Release(pipe.Layout)
	return nil
}

// Framebuffer returns the cached framebuffer for info/compat/attachments,
// creating it on miss.
func (c *Cache) Framebuffer(info backend.FramebufferInfo, attachments []handle.Ephemeral[resource.ImageViewKey, resource.ImageView], compat resource.RenderPassCompatToken) (handle.Ephemeral[resource.FramebufferKey, resource.Framebuffer], error) {
	key := resource.NewFramebufferKey(compat, attachments, info.Width, info.Height, info.Layers)
	return c.framebuffers.LookupOrInsert(key, func() (resource.Framebuffer, error) {
		for _, a := range attachments {
			if err := c.imageViews.Retain(a); err != nil {
				return resource.Framebuffer{}, err
			}
		}
		return resource.CreateFramebuffer(c.dev, info, attachments, compat)
	})
}

func (c *Cache) GetFramebuffer(h handle.Ephemeral[resource.FramebufferKey, resource.Framebuffer]) (resource.Framebuffer, error) {
	return c.framebuffers.Get(h)
}

// ReleaseFramebuffer releases h and, on last release, its attachment-view
// references.
func (c *Cache) ReleaseFramebuffer(h handle.Ephemeral[resource.FramebufferKey, resource.Framebuffer]) error {
	fb, err := c.framebuffers.Get(h)
	if err != nil {
		return err
	}
	if err := c.framebuffers.Release(h); err != nil {
		return err
	}
	for _, a := range fb.Attachments {
		_ = c.imageViews.Release(a)
	}
	return nil
}
