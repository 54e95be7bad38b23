// Package handle implements the two resource-store flavors spec'd for
// forge's resource layer (spec §4.2 "Resources and handles"): Instance (an
// explicit-lifetime, generational refcounted slab) and Ephemeral
// (content-keyed, refcounted, with an optional deferred-eviction epoch).
//
// Both stores are grounded on the teacher's cache/sharded.go generic-cache
// shape — map-backed, mutex-guarded, with a get-or-insert entry point — but
// traded the teacher's LRU-eviction policy for explicit refcounting, since
// forge's resources have ownership semantics an LRU cache does not model:
// an entry must never be evicted while a handle still references it.
package handle

import "errors"

// ErrWrongDevice is returned when an operation is attempted against a
// handle created by a different device than the one performing it (spec
// §4.2 "runtime assertions verify any operation uses the handle's owning
// device").
var ErrWrongDevice = errors.New("handle: device identity mismatch")

// ErrStale is returned when a handle's generation no longer matches its
// slot's current generation — the slot has been reused for something else.
var ErrStale = errors.New("handle: stale handle (slot reused)")

// ErrDropped is returned when a handle's slot has been disposed and is
// awaiting reuse.
var ErrDropped = errors.New("handle: use of dropped handle")
