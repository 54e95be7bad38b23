// Package rescache is the derived-object cache (spec §4.8/§5): one Cache
// per backend.Device, bundling a handle.EphemeralStore per cacheable
// resource kind (descriptor set layouts, pipeline layouts, render passes,
// graphics pipelines, framebuffers, samplers, shader modules). Each
// make_X(device, key) call is a get-or-insert against the matching store:
// a hit returns the existing handle, a miss builds the raw object through
// resource.CreateX and registers it.
//
// Grounded on the teacher's cache.ShardedCache (cache/sharded.go) and its
// backing internal/cache.lruList, generalized from "one shard per hash
// bucket" to "one shard per backend" (spec §5: "Concurrent-safe via
// shard-keyed maps (one shard per backend)") — a Cache already belongs to
// exactly one device, so EphemeralStore's own per-store mutex is that
// device's shard lock; no further bucketing is needed on top of it.
package rescache
