package command

import (
	"fmt"

	"github.com/gogpu/forge/backend"
)

// State is a command buffer's typestate (spec §4.9 "Command-buffer state
// types": Initial/Recording/Executable/Pending/Invalid).
type State uint8

const (
	StateInitial State = iota
	StateRecording
	StateExecutable
	StatePending
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRecording:
		return "recording"
	case StateExecutable:
		return "executable"
	case StatePending:
		return "pending"
	default:
		return "invalid"
	}
}

// Usage constrains how many times, and in what pattern, a command
// buffer may be submitted before it must be re-recorded (spec §4.9
// "usage flags"; grounded on rendy's command/src/buffer/usage.rs
// OneShot/MultiShot(SimultaneousUse) split).
type Usage uint8

const (
	// UsageOneShot permits exactly one submission before the buffer must
	// be reset and re-recorded.
	UsageOneShot Usage = iota
	// UsageMultiShot permits repeated submission of the same recording.
	UsageMultiShot
	// UsageSimultaneous permits the buffer to be pending on more than one
	// queue at once; implies MultiShot.
	UsageSimultaneous
)

// Buffer wraps a backend.RawCommandBuffer with the typestate rendy
// enforces via distinct Rust types per state (spec §4.9). forge tracks
// State as a runtime field and panics on an illegal transition rather
// than refusing to compile one — the allowed runtime-assertion half of
// spec §9's typestate/assertions choice.
type Buffer struct {
	Raw   backend.RawCommandBuffer
	Pool  backend.RawCommandPool
	Usage Usage
	state State
}

// NewBuffer wraps a freshly allocated command buffer in StateInitial.
func NewBuffer(raw backend.RawCommandBuffer, pool backend.RawCommandPool, usage Usage) *Buffer {
	return &Buffer{Raw: raw, Pool: pool, Usage: usage, state: StateInitial}
}

// State returns the buffer's current typestate.
func (b *Buffer) State() State { return b.state }

// Begin transitions Initial -> Recording (spec §4.9).
func (b *Buffer) Begin(dev backend.Device) error {
	b.mustBe(StateInitial)
	oneShot := b.Usage == UsageOneShot
	if err := dev.BeginCommandBuffer(b.Raw, oneShot); err != nil {
		b.state = StateInvalid
		return err
	}
	b.state = StateRecording
	return nil
}

// Finish transitions Recording -> Executable (spec §4.9; grounded on
// rendy's buffer/recording.rs CommandBuffer::finish).
func (b *Buffer) Finish(dev backend.Device) error {
	b.mustBe(StateRecording)
	if err := dev.EndCommandBuffer(b.Raw); err != nil {
		b.state = StateInvalid
		return err
	}
	b.state = StateExecutable
	return nil
}

// MarkSubmitted transitions Executable -> Pending. Submission itself is
// the executor's job (schedule.Ordered drives vkQueueSubmit-equivalent
// calls); this only updates the typestate.
func (b *Buffer) MarkSubmitted() {
	b.mustBe(StateExecutable)
	b.state = StatePending
}

// MarkComplete transitions Pending back to Executable (MultiShot/
// Simultaneous usage) or Invalid (OneShot, which must be reset before
// reuse).
func (b *Buffer) MarkComplete() {
	b.mustBe(StatePending)
	if b.Usage == UsageOneShot {
		b.state = StateInvalid
		return
	}
	b.state = StateExecutable
}

// Reset transitions any state except Pending back to Initial (spec §4.9;
// a command pool's ResetCommandPool resets every buffer it owns in one
// call, but a single buffer can also be reset individually when the pool
// supports per-buffer reset). It panics on a Pending buffer: device
// completion must be acknowledged with MarkComplete first.
func (b *Buffer) Reset() {
	if b.state == StatePending {
		panic(fmt.Sprintf("command: buffer in state %s cannot be reset", b.state))
	}
	b.state = StateInitial
}

func (b *Buffer) mustBe(want State) {
	if b.state != want {
		panic(fmt.Sprintf("command: buffer in state %s, expected %s", b.state, want))
	}
}
