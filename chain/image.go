package chain

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
)

// ImageQueueState is one queue's contiguous participation in an ImageLink.
type ImageQueueState struct {
	First, Last int
	Access      access.ImageAccess
	Stages      uint32
}

// ImageLink is a maximal group of compatible image uses sharing one queue
// family and one common layout (spec §3 "Link").
type ImageLink struct {
	Access access.ImageAccess
	Usage  backend.ImageUsage
	Layout backend.ImageLayout
	Stages uint32
	Family int

	queues     map[int]*ImageQueueState
	queueOrder []int
}

// NewImageLink opens a link with node as its first member. layout is the
// link's common layout, fixed for the link's lifetime (spec §3: "common
// layout (images only)").
func NewImageLink(family, queue, submissionIndex int, acc access.ImageAccess, usage backend.ImageUsage, layout backend.ImageLayout, stages uint32) *ImageLink {
	l := &ImageLink{
		Access: acc,
		Usage:  usage,
		Layout: layout,
		Stages: stages,
		Family: family,
		queues: make(map[int]*ImageQueueState),
	}
	l.queues[queue] = &ImageQueueState{First: submissionIndex, Last: submissionIndex, Access: acc, Stages: stages}
	l.queueOrder = append(l.queueOrder, queue)
	return l
}

// Compatible reports whether a node with the given family/access/layout can
// join this link. A node whose own required layout (computed independently
// of the link) disagrees with the link's established layout is exclusive,
// even when neither side carries a write bit — see package doc.
func (l *ImageLink) Compatible(family int, acc access.ImageAccess, layout backend.ImageLayout) bool {
	if family != l.Family {
		return false
	}
	if (l.Access | acc).HasWrite() {
		return false
	}
	return layout == l.Layout
}

// AddNode extends the link with a compatible node.
func (l *ImageLink) AddNode(queue, submissionIndex int, acc access.ImageAccess, usage backend.ImageUsage, stages uint32) {
	l.Access |= acc
	l.Usage |= usage
	l.Stages |= stages

	if qs, ok := l.queues[queue]; ok {
		qs.Last = submissionIndex
		qs.Access |= acc
		qs.Stages |= stages
		return
	}
	l.queues[queue] = &ImageQueueState{First: submissionIndex, Last: submissionIndex, Access: acc, Stages: stages}
	l.queueOrder = append(l.queueOrder, queue)
}

// SingleQueue reports whether only one queue participates in this link.
func (l *ImageLink) SingleQueue() bool { return len(l.queues) == 1 }

// Queue returns the per-queue state for queue, or nil if absent.
func (l *ImageLink) Queue(queue int) *ImageQueueState { return l.queues[queue] }

// Queues returns the queues participating in this link, join order.
func (l *ImageLink) Queues() []int {
	out := make([]int, len(l.queueOrder))
	copy(out, l.queueOrder)
	return out
}

// ImageChain is the ordered sequence of ImageLinks for one image over a
// frame's submissions.
type ImageChain struct {
	Links []*ImageLink
}

func (c *ImageChain) Last() *ImageLink {
	if len(c.Links) == 0 {
		return nil
	}
	return c.Links[len(c.Links)-1]
}

func (c *ImageChain) Append(l *ImageLink) { c.Links = append(c.Links, l) }

// ImageChains maps a densified image id to its chain.
type ImageChains map[uint64]*ImageChain
