package chain

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
)

// BufferQueueState is one queue's contiguous participation in a
// BufferLink (spec §3 "LinkQueueState{first, last, access, stages}").
type BufferQueueState struct {
	First, Last int
	Access      access.BufferAccess
	Stages      uint32 // pipeline-stage mask
}

// BufferLink is a maximal group of compatible buffer uses sharing one
// queue family (spec §3 "Link").
type BufferLink struct {
	Access access.BufferAccess
	Usage  backend.BufferUsage
	Stages uint32
	Family int

	queues     map[int]*BufferQueueState
	queueOrder []int
}

// NewBufferLink opens a link with node as its first member.
func NewBufferLink(family, queue, submissionIndex int, acc access.BufferAccess, usage backend.BufferUsage, stages uint32) *BufferLink {
	l := &BufferLink{
		Access: acc,
		Usage:  usage,
		Stages: stages,
		Family: family,
		queues: make(map[int]*BufferQueueState),
	}
	l.queues[queue] = &BufferQueueState{First: submissionIndex, Last: submissionIndex, Access: acc, Stages: stages}
	l.queueOrder = append(l.queueOrder, queue)
	return l
}

// Compatible reports whether a node with the given family/access can join
// this link (spec §4.5 "compatible(node)").
func (l *BufferLink) Compatible(family int, acc access.BufferAccess) bool {
	if family != l.Family {
		return false
	}
	return !(l.Access | acc).HasWrite()
}

// AddNode extends the link with a compatible node, updating combined bits
// and the per-queue state (spec §4.5 "extend the current link").
func (l *BufferLink) AddNode(queue, submissionIndex int, acc access.BufferAccess, usage backend.BufferUsage, stages uint32) {
	l.Access |= acc
	l.Usage |= usage
	l.Stages |= stages

	if qs, ok := l.queues[queue]; ok {
		qs.Last = submissionIndex
		qs.Access |= acc
		qs.Stages |= stages
		return
	}
	l.queues[queue] = &BufferQueueState{First: submissionIndex, Last: submissionIndex, Access: acc, Stages: stages}
	l.queueOrder = append(l.queueOrder, queue)
}

// SingleQueue reports whether only one queue participates in this link.
func (l *BufferLink) SingleQueue() bool { return len(l.queues) == 1 }

// Queue returns the per-queue state for queue, or nil if it never
// participated in this link.
func (l *BufferLink) Queue(queue int) *BufferQueueState { return l.queues[queue] }

// Queues returns the queues participating in this link, in the order they
// first joined it.
func (l *BufferLink) Queues() []int {
	out := make([]int, len(l.queueOrder))
	copy(out, l.queueOrder)
	return out
}

// BufferChain is the ordered sequence of BufferLinks for one buffer over a
// frame's submissions (spec §3 "Chain").
type BufferChain struct {
	Links []*BufferLink
}

// Last returns the chain's tail link, or nil if the chain is empty.
func (c *BufferChain) Last() *BufferLink {
	if len(c.Links) == 0 {
		return nil
	}
	return c.Links[len(c.Links)-1]
}

// Append adds a new link to the end of the chain.
func (c *BufferChain) Append(l *BufferLink) { c.Links = append(c.Links, l) }

// BufferChains maps a densified buffer id to its chain (spec §3
// "BufferChains").
type BufferChains map[uint64]*BufferChain
