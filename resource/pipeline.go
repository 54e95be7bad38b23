package resource

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/handle"
)

// DescriptorSetLayoutKey is the content-addressed key for a descriptor set
// layout (spec §4.8 "DescriptorSetLayoutKey { bindings,
// immutable_sampler_handles }"). backend.DescriptorBindingInfo already
// carries its immutable samplers as raw handles, so encoding the bindings
// alone covers both parts of the spec'd key.
type DescriptorSetLayoutKey string

// NewDescriptorSetLayoutKey builds the key for a set of bindings. Bindings
// are encoded in the order given; callers that want binding-order
// independence must sort first (the spec's "range signature" used by the
// descriptor allocator does exactly that — see descriptor.RangeSignature).
func NewDescriptorSetLayoutKey(bindings []backend.DescriptorBindingInfo) DescriptorSetLayoutKey {
	var b keyBuilder
	for _, binding := range bindings {
		b.u32(binding.Binding).u32(uint32(binding.Type)).u32(binding.Count).u32(binding.StageFlags)
		for _, s := range binding.ImmutableSamplers {
			b.u64(uint64(s))
		}
		b.sep()
	}
	return DescriptorSetLayoutKey(b.String())
}

// DescriptorSetLayout carries its binding vector (spec §3).
type DescriptorSetLayout struct {
	Raw      backend.RawDescriptorSetLayout
	Bindings []backend.DescriptorBindingInfo
	Key      DescriptorSetLayoutKey
}

func CreateDescriptorSetLayout(dev backend.Device, bindings []backend.DescriptorBindingInfo) (DescriptorSetLayout, error) {
	raw, err := dev.CreateDescriptorSetLayout(backend.DescriptorSetLayoutInfo{Bindings: bindings})
	if err != nil {
		return DescriptorSetLayout{}, err
	}
	return DescriptorSetLayout{Raw: raw, Bindings: bindings, Key: NewDescriptorSetLayoutKey(bindings)}, nil
}

func (l DescriptorSetLayout) Dispose(dev backend.Device) { dev.DestroyDescriptorSetLayout(l.Raw) }

// PipelineLayoutKey is the content-addressed key for a pipeline layout
// (spec §4.8 "PipelineLayoutKey { set_layout_handles, push_constant_ranges
// }").
type PipelineLayoutKey string

func NewPipelineLayoutKey(setLayouts []handle.Ephemeral[DescriptorSetLayoutKey, DescriptorSetLayout], ranges []backend.PushConstantRange) PipelineLayoutKey {
	var b keyBuilder
	for _, h := range setLayouts {
		key := h.Key()
		b.i(len(key))
		b.buf = append(b.buf, []byte(key)...)
	}
	b.sep()
	for _, r := range ranges {
		b.u32(r.StageFlags).u32(r.Offset).u32(r.Size)
	}
	return PipelineLayoutKey(b.String())
}

// PipelineLayout references its descriptor-set-layouts and push-constant
// ranges (spec §3).
type PipelineLayout struct {
	Raw             backend.RawPipelineLayout
	SetLayouts      []handle.Ephemeral[DescriptorSetLayoutKey, DescriptorSetLayout]
	PushConstants   []backend.PushConstantRange
	Key             PipelineLayoutKey
}

func CreatePipelineLayout(
	dev backend.Device,
	setLayouts []handle.Ephemeral[DescriptorSetLayoutKey, DescriptorSetLayout],
	rawSetLayouts []backend.RawDescriptorSetLayout,
	pushConstants []backend.PushConstantRange,
) (PipelineLayout, error) {
	raw, err := dev.CreatePipelineLayout(backend.PipelineLayoutInfo{
		SetLayouts:         rawSetLayouts,
		PushConstantRanges: pushConstants,
	})
	if err != nil {
		return PipelineLayout{}, err
	}
	return PipelineLayout{
		Raw:           raw,
		SetLayouts:    setLayouts,
		PushConstants: pushConstants,
		Key:           NewPipelineLayoutKey(setLayouts, pushConstants),
	}, nil
}

func (l PipelineLayout) Dispose(dev backend.Device) { dev.DestroyPipelineLayout(l.Raw) }

// RenderPassCompatToken normalizes a render pass down to the fields that
// matter for Vulkan-style render-pass compatibility: attachment
// format/sample-count and subpass attachment structure, but not load/store
// ops (spec §3: "render-pass compatibility is an equivalence looser than
// equality"). Spec §9 open question 2 notes the original implementation's
// SubpassDependency equality inconsistently excluded its flags field in
// some paths; this token follows the spec's own resolution and simply
// never includes dependencies at all, since Vulkan render-pass
// compatibility is defined purely over attachments and subpasses.
type RenderPassCompatToken string

func NewRenderPassCompatToken(info backend.RenderPassInfo) RenderPassCompatToken {
	var b keyBuilder
	for _, a := range info.Attachments {
		b.u32(uint32(a.Format)).u32(uint32(a.Samples))
	}
	b.sep()
	for _, sp := range info.Subpasses {
		for _, ref := range sp.ColorAttachments {
			b.u32(ref.Attachment).u32(uint32(ref.Layout))
		}
		b.sep()
		if sp.DepthStencil != nil {
			b.u32(sp.DepthStencil.Attachment).u32(uint32(sp.DepthStencil.Layout))
		}
		b.sep()
		for _, ref := range sp.InputAttachments {
			b.u32(ref.Attachment).u32(uint32(ref.Layout))
		}
		b.sep()
	}
	return RenderPassCompatToken(b.String())
}

// RenderPassKey is the full structural key used by the derived-object
// cache (spec §4.8 "RenderPassKey { attachments, subpasses, dependencies
// }"): the RenderPassCompatToken followed by every subpass dependency,
// Flags included. Two render passes with identical attachments/subpasses
// but different dependencies therefore produce distinct cached objects;
// load/store ops are left out of the key, as they are of the compat token.
type RenderPassKey string

func NewRenderPassKey(info backend.RenderPassInfo) RenderPassKey {
	var b keyBuilder
	b.buf = append(b.buf, []byte(NewRenderPassCompatToken(info))...)
	b.sep()
	for _, d := range info.Dependencies {
		b.u32(d.SrcSubpass).u32(d.DstSubpass).u32(d.SrcStageMask).u32(d.DstStageMask)
		b.u32(d.SrcAccessMask).u32(d.DstAccessMask).u32(d.Flags)
	}
	return RenderPassKey(b.String())
}

// RenderPass carries its full specification and compatibility token (spec §3).
type RenderPass struct {
	Raw    backend.RawRenderPass
	Info   backend.RenderPassInfo
	Compat RenderPassCompatToken
	Key    RenderPassKey
}

func CreateRenderPass(dev backend.Device, info backend.RenderPassInfo) (RenderPass, error) {
	raw, err := dev.CreateRenderPass(info)
	if err != nil {
		return RenderPass{}, err
	}
	return RenderPass{
		Raw:    raw,
		Info:   info,
		Compat: NewRenderPassCompatToken(info),
		Key:    NewRenderPassKey(info),
	}, nil
}

func (r RenderPass) Dispose(dev backend.Device) { dev.DestroyRenderPass(r.Raw) }

// GraphicsPipelineState is the subset of GraphicsPipelineInfo the cache key
// must distinguish on (spec §4.8: "state includes primitive-assembler
// kind, rasterizer, blend, depth/stencil, multisampling").
type GraphicsPipelineState struct {
	PrimitiveKind uint8
	Rasterizer    backend.RasterizerState
	Blend         backend.BlendState
	DepthStencil  backend.DepthStencilState
	Multisample   backend.MultisampleState
}

// GraphicsPipelineKey is the content-addressed key for a graphics pipeline
// (spec §4.8 "GraphicsPipelineKey { shaders, layout_handle,
// render_pass_compat_token, subpass, state }").
type GraphicsPipelineKey string

func NewGraphicsPipelineKey(
	shaders []ShaderModuleKey,
	layout handle.Ephemeral[PipelineLayoutKey, PipelineLayout],
	renderPassCompat RenderPassCompatToken,
	subpass uint32,
	state GraphicsPipelineState,
) GraphicsPipelineKey {
	var b keyBuilder
	for _, s := range shaders {
		b.i(len(s))
		b.buf = append(b.buf, []byte(s)...)
	}
	b.sep()
	layoutKey := layout.Key()
	b.i(len(layoutKey))
	b.buf = append(b.buf, []byte(layoutKey)...)
	b.sep()
	b.buf = append(b.buf, []byte(renderPassCompat)...)
	b.sep()
	b.u32(subpass)
	b.u32(uint32(state.PrimitiveKind))
	b.u32(uint32(state.Rasterizer.PolygonMode)).u32(uint32(state.Rasterizer.CullMode)).u32(uint32(state.Rasterizer.FrontFace))
	b.bool(state.Blend.Enable).u32(uint32(state.Blend.SrcColorFactor)).u32(uint32(state.Blend.DstColorFactor)).u32(uint32(state.Blend.ColorOp))
	b.u32(uint32(state.Blend.SrcAlphaFactor)).u32(uint32(state.Blend.DstAlphaFactor)).u32(uint32(state.Blend.AlphaOp)).u32(uint32(state.Blend.WriteMask))
	b.bool(state.DepthStencil.DepthTestEnable).bool(state.DepthStencil.DepthWriteEnable).u32(uint32(state.DepthStencil.DepthCompareOp)).bool(state.DepthStencil.StencilEnable)
	b.u32(uint32(state.Multisample.Samples))
	return GraphicsPipelineKey(b.String())
}

// GraphicsPipeline references its PipelineLayout and a compatibility token
// of the RenderPass it was created against (spec §3).
type GraphicsPipeline struct {
	Raw    backend.RawGraphicsPipeline
	Layout handle.Ephemeral[PipelineLayoutKey, PipelineLayout]
	Compat RenderPassCompatToken
	Key    GraphicsPipelineKey
}

func CreateGraphicsPipeline(dev backend.Device, info backend.GraphicsPipelineInfo, key GraphicsPipelineKey, layout handle.Ephemeral[PipelineLayoutKey, PipelineLayout], compat RenderPassCompatToken) (GraphicsPipeline, error) {
	raw, err := dev.CreateGraphicsPipeline(info)
	if err != nil {
		return GraphicsPipeline{}, err
	}
	return GraphicsPipeline{Raw: raw, Layout: layout, Compat: compat, Key: key}, nil
}

func (p GraphicsPipeline) Dispose(dev backend.Device) { dev.DestroyGraphicsPipeline(p.Raw) }

// FramebufferKey is the content-addressed key for a framebuffer (spec §4.8
// "FramebufferKey { render_pass_compat_token, attachments, extent }").
type FramebufferKey string

func NewFramebufferKey(compat RenderPassCompatToken, attachments []handle.Ephemeral[ImageViewKey, ImageView], width, height, layers uint32) FramebufferKey {
	var b keyBuilder
	b.buf = append(b.buf, []byte(compat)...)
	b.sep()
	for _, a := range attachments {
		key := a.Key()
		b.u64(uint64(key.View.Image)).u32(uint32(key.View.Format)).u32(uint32(key.View.ViewKind))
		b.u32(key.View.BaseLevel).u32(key.View.LevelCount).u32(key.View.BaseLayer).u32(key.View.LayerCount)
	}
	b.sep()
	b.u32(width).u32(height).u32(layers)
	return FramebufferKey(b.String())
}

// Framebuffer owns strong references to its attachments' views and a
// compatibility token of its render pass (spec §3).
type Framebuffer struct {
	Raw         backend.RawFramebuffer
	Attachments []handle.Ephemeral[ImageViewKey, ImageView]
	Compat      RenderPassCompatToken
	Key         FramebufferKey
}

func CreateFramebuffer(dev backend.Device, info backend.FramebufferInfo, attachments []handle.Ephemeral[ImageViewKey, ImageView], compat RenderPassCompatToken) (Framebuffer, error) {
	raw, err := dev.CreateFramebuffer(info)
	if err != nil {
		return Framebuffer{}, err
	}
	key := NewFramebufferKey(compat, attachments, info.Width, info.Height, info.Layers)
	return Framebuffer{Raw: raw, Attachments: attachments, Compat: compat, Key: key}, nil
}

func (f Framebuffer) Dispose(dev backend.Device) { dev.DestroyFramebuffer(f.Raw) }
