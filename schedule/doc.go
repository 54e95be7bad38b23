// Package schedule assigns frame-graph nodes to queues and builds the
// resource chains that result (spec §4.5 "Scheduler"): Collect consumes a
// node list with their buffer/image accesses and dependency edges, and
// produces a Schedule (queue/family/submission hierarchy) alongside the
// chain.BufferChains/chain.ImageChains chain analyzer output.
//
// Grounded on amethyst/rendy's chain/src/schedule/mod.rs (Schedule/Family/
// Queue/Submission hierarchy) and chain/src/collect.rs (the fitness-driven
// greedy scheduling loop, dependency-count-driven readiness, and
// link-compatibility-driven chain construction). Unlike collect.rs, forge
// keys BufferChains/ImageChains by the caller's own resource id directly
// (a plain map, spec §3) rather than through collect.rs's LookupBuilder
// dense-index remap — that remap exists in the original purely to back
// Vec-indexed chain storage, which Go's map type makes unnecessary.
// Internally Collect still remaps nodes, queues, buffers and images to
// dense indices while it builds the chains, then keys the returned chains
// by the caller's ids.
package schedule
