// Package backend defines the capability surface forge consumes from a
// graphics API binding (spec §6 "Graphics backend surface"). forge treats
// the backend as an external collaborator: memory allocation, raw object
// creation/destruction, command recording, fences and semaphores. It never
// talks to Vulkan, Metal, D3D12 or any platform surface directly.
//
// # Registration
//
// Concrete adapters may register a Factory from an init() function,
// mirroring gg's backend package; the software adapter does so:
//
//	import _ "github.com/gogpu/forge/backend/software"
//
// The wgpuhal adapter does not register itself: it is constructed with
// wgpuhal.New from an already-opened hal.Device/hal.Queue pair.
//
// # Selection
//
// Use Default to pick the best available backend in BasicPriority order,
// or Get to request one by Kind explicitly.
package backend
