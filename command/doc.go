// Package command wraps backend.RawCommandBuffer with the typestate and
// capability checks rendy's command crate encodes at the type level (spec
// §9: "typestate vs. explicit state field with runtime assertions — both
// satisfy the spec; implementers may pick whichever fits their type
// system better"). Go has no const-generic typestate, so forge picks the
// runtime-tag-plus-assertion half of that allowance: a Buffer carries its
// State and panics, like a slice index out of range, the moment a caller
// records into a buffer that isn't Recording or submits one that isn't
// Executable.
//
// Grounded on amethyst/rendy's command/src/buffer/{mod,recording}.rs
// (state machine and the finish()/Usage bound this package's
// state-machine doc follows) and command/src/capability.rs (the
// Capability bitmask and Family/queue capability query this package's
// Capability and Family.Supports restore, per the original's out-of-scope
// §6 "command recording" surface).
package command
