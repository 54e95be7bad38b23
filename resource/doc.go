// Package resource provides the typed object wrappers forge's caches and
// scheduler operate on (spec §3 "Image / Buffer", "Derived image objects",
// "Pipeline objects", and §4.8's cache-key types): Buffer and Image own
// their raw backend object plus an optional memory.Block; ImageView,
// Sampler, ShaderModule, DescriptorSetLayout, PipelineLayout, RenderPass,
// GraphicsPipeline, and Framebuffer are the derived objects built on top of
// them, each carrying the normalized key its owning cache uses for
// get-or-insert deduplication.
//
// Every derived object holds strong references (handle.Instance or
// handle.Ephemeral) down to the primitive objects it depends on, never the
// reverse, so the resource graph is acyclic by construction (spec §9).
package resource
