package backend

import "github.com/gogpu/gpucontext"

// Provider is forge's name for the host-application handoff contract
// gpucontext already defines: a host owns the GPU device/queue/adapter and
// hands forge a Provider instead of forge creating its own device. Grounded
// on the teacher's render.DeviceHandle = gpucontext.DeviceProvider alias
// (render/device.go), which exists for exactly this reason: "gg RECEIVES
// the device from the host, it does NOT create one."
//
// forge keeps the same shape for the same reason spec §6 gives: device
// creation, adapter selection and surface setup are platform- and
// windowing-specific and stay outside the core (spec §1 "window-surface
// integration ... platform event loops" are explicit non-goals). A concrete
// backend.Device adapter (such as wgpuhal) is built from whatever
// a Provider exposes; Provider itself never appears in the Device interface.
type Provider = gpucontext.DeviceProvider
