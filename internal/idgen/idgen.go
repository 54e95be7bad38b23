// Package idgen provides the two monotonic counters spec §9 calls out as
// forge's only global state: one general instance-id counter, which no
// package calls (handle.InstanceStore keeps its own per-slot generations),
// and one for device identity tags. Both are process-wide and exist solely
// for identity comparisons, never for ordering or presentation.
package idgen

import "sync/atomic"

var (
	instanceCounter uint64
	deviceCounter   uint64
)

// NextInstanceID returns a fresh, process-wide unique id. No package calls
// it; handle.InstanceStore tracks slot generations itself.
func NextInstanceID() uint64 {
	return atomic.AddUint64(&instanceCounter, 1)
}

// NextDeviceID returns a fresh, process-wide unique id tagging a newly
// constructed backend.Device, so handles can assert they are used against
// the device that created them.
func NextDeviceID() uint64 {
	return atomic.AddUint64(&deviceCounter, 1)
}
