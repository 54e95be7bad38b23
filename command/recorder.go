package command

import "github.com/gogpu/forge/backend"

// Recorder scopes a single Begin/Finish recording window to one
// function call, so the only way to issue commands against a Buffer is
// through fn's argument — grounded on rendy's command/src/buffer/
// recording.rs, which restricts command-issuing methods to an
// `impl CommandBuffer<..., RecordingState<U, P>, ...>` block so they are
// simply inexpressible outside the Recording typestate. Go can't block
// method calls by typestate at compile time, so Recorder narrows the
// *opportunity* instead: fn only ever sees the buffer while it is
// provably in StateRecording.
type Recorder struct {
	dev backend.Device
	buf *Buffer
}

// NewRecorder binds a Recorder to dev and buf.
func NewRecorder(dev backend.Device, buf *Buffer) *Recorder {
	return &Recorder{dev: dev, buf: buf}
}

// Record begins the buffer, runs fn, and finishes the buffer, returning
// whichever step's error fires first. fn receives the raw handle so it
// can issue backend.Device Cmd* calls directly.
func (r *Recorder) Record(fn func(backend.RawCommandBuffer) error) error {
	if err := r.buf.Begin(r.dev); err != nil {
		return err
	}
	if err := fn(r.buf.Raw); err != nil {
		r.buf.state = StateInvalid
		return err
	}
	return r.buf.Finish(r.dev)
}
