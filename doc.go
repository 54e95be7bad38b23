// Package forge is a frame-graph rendering runtime built atop a low-level,
// Vulkan-style graphics API abstraction.
//
// Callers describe one frame as a set of nodes, each declaring which
// transient buffers and images it produces or consumes and in what state;
// forge turns that declaration into a valid, efficient GPU submission plan:
//
//	nodes -> schedule.Collect -> (*Schedule, BufferChains, ImageChains)
//	      -> sync.Synchronize -> *sync.Plan
//
// alongside a reference-counted, content-keyed cache of the derived objects
// (image views, samplers, shader modules, descriptor-set layouts, pipeline
// layouts, render passes, graphics pipelines, framebuffers) every node's
// resources resolve to, and a multi-strategy memory allocator feeding every
// transient resource those objects bind to.
//
// # Quick start
//
//	dev := software.New() // or a real backend.Device adapter
//	g := forge.New(dev, forge.Config{})
//
//	nodes := []schedule.Node{ /* one per frame-graph pass */ }
//	frame := g.Build(nodes, maxQueuesFor)
//	// Build returns no error; a dependency cycle in nodes panics instead
//	// (spec §7 item 5).
//
// # Subsystems
//
// The four subsystems forming forge's core live in their own packages and
// are independently usable; Graph only wires them together:
//
//   - memory: the Dedicated/Linear/Dynamic allocator hierarchy and Heaps router.
//   - chain, schedule: the chain analyzer and Collect scheduler.
//   - rescache, resource, handle: the derived-object cache and its keys.
//   - descriptor: the descriptor-set pool allocator.
//   - sync: the synchronizer producing barriers, transfers, semaphores, fences.
//   - access: the Buffer/Image access-flag and layout-compatibility model.
//   - backend: the capability surface forge consumes from a graphics API binding.
//   - command: the command-buffer state machine and per-frame-in-flight ring.
package forge
