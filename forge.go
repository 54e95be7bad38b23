package forge

import (
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/chain"
	"github.com/gogpu/forge/descriptor"
	"github.com/gogpu/forge/handle"
	"github.com/gogpu/forge/memory"
	"github.com/gogpu/forge/rescache"
	"github.com/gogpu/forge/resource"
	"github.com/gogpu/forge/schedule"
	"github.com/gogpu/forge/sync"
)

// Config tunes the subsystems Graph constructs (spec §6 "Configuration").
// Zero values fall back to memory.HeapsConfig's own defaults and to an
// ephemeral-cache grace of zero epochs (evict as soon as the last handle
// drops, spec §9 open question 1's simplest definite choice).
type Config struct {
	Heaps      memory.HeapsConfig
	CacheGrace int64
}

// Graph bundles one frame's worth of subsystems around a single
// backend.Device: the memory router every transient resource allocates
// through, the derived-object cache, and the descriptor-set allocator.
// Graph itself owns none of the scheduling state — that is rebuilt fresh
// by Build for every call, matching spec §5's "Chains/Schedule:
// constructed per frame ... single-consumer; consumed by the synchronizer
// and then discarded."
type Graph struct {
	Device     backend.Device
	Heaps      *memory.Heaps
	Images     *handle.InstanceStore[resource.Image]
	Cache      *rescache.Cache
	Descriptor *descriptor.Allocator
}

// New constructs a Graph around dev, sizing the allocator hierarchy from
// dev.MemoryProperties() (spec §4.1 "Heaps") and starting the
// derived-object cache and descriptor allocator empty.
func New(dev backend.Device, cfg Config) *Graph {
	heaps := memory.NewHeaps(dev.MemoryProperties(), cfg.Heaps)
	images := handle.NewInstanceStore[resource.Image](dev.Identity(), func(img resource.Image) {
		img.Dispose(dev, heaps)
	})
	return &Graph{
		Device:     dev,
		Heaps:      heaps,
		Images:     images,
		Cache:      rescache.New(dev, images, cfg.CacheGrace),
		Descriptor: descriptor.New(),
	}
}

// Frame is the output of building one frame-graph: the scheduler's
// per-queue assignment, the per-resource chains it derived the assignment
// from, and the synchronizer's barrier/semaphore/fence plan built from
// both (spec §2 "Control flow per frame").
type Frame struct {
	Schedule     *schedule.Schedule
	BufferChains chain.BufferChains
	ImageChains  chain.ImageChains
	Sync         *sync.Plan
}

// Build runs one frame's nodes through the scheduler and synchronizer
// (spec §2's full per-frame control flow, minus execution). maxQueues
// reports how many queues a given queue family offers; schedule.Collect
// calls it once per distinct family among nodes.
//
// Build panics if nodes contains a dependency cycle (spec §7 item 5): that
// is a logic error in the caller's graph construction, not a runtime
// condition forge can recover from.
func (g *Graph) Build(nodes []schedule.Node, maxQueues schedule.MaxQueues) *Frame {
	sched, bufferChains, imageChains := schedule.Collect(nodes, maxQueues)
	plan := sync.Synchronize(sched, bufferChains, imageChains)
	return &Frame{
		Schedule:     sched,
		BufferChains: bufferChains,
		ImageChains:  imageChains,
		Sync:         plan,
	}
}
