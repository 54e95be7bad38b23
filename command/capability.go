package command

// Capability is a queue family's bitmask of supported command classes
// (spec §4.5 scheduler input; grounded on rendy's command/src/
// capability.rs CapabilityFlags).
type Capability uint32

const (
	CapabilityGraphics Capability = 1 << iota
	CapabilityCompute
	CapabilityTransfer
	CapabilitySparseBinding
	CapabilityProtected
)

// Supports reports whether c contains every bit in want.
func (c Capability) Supports(want Capability) bool { return c&want == want }

// Family describes one queue family's identity and capabilities. It
// implements the scheduler's max_queues(family) contract's companion
// query — "can this family run what this node needs" — which Collect
// itself does not check, leaving the caller to filter nodes to
// compatible families before calling schedule.Collect (spec §4.6 restores
// this as an explicit, named check rather than leaving it implicit in
// node construction).
type Family struct {
	ID         int
	Caps       Capability
	QueueCount int
}

// Supports reports whether the family can execute commands requiring
// want.
func (f Family) Supports(want Capability) bool { return f.Caps.Supports(want) }
