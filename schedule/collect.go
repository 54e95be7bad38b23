package schedule

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/backend"
	"github.com/gogpu/forge/chain"
)

// MaxQueues reports how many queues a given family offers. Collect calls
// it once per distinct family it encounters among the input nodes.
type MaxQueues func(family int) int

// Collect assigns each node to a queue and builds the resource chains
// that result (spec §4.5 "collect"). It panics if the node dependency
// graph contains a cycle (spec §7 error taxonomy item 5) — every node
// must eventually become ready once its dependencies are scheduled, and a
// cycle leaves at least one node permanently unready.
//
// Grounded on rendy's chain/src/collect.rs: single-queue fast path
// (dependency resolution only, fitness always zero-transfer), otherwise a
// greedy loop that repeatedly pulls the minimal-Fitness ready node
// (fewest cross-family transfers, then lowest wait factor) and assigns it
// to its best-fit queue.
func Collect(nodes []Node, maxQueues MaxQueues) (*Schedule, chain.BufferChains, chain.ImageChains) {
	resolved, unscheduled := resolveNodes(nodes, maxQueues)

	bufferChains := make([]*bufferChainData, len(resolved.bufferIDs))
	for i := range bufferChains {
		bufferChains[i] = &bufferChainData{chain: &chain.BufferChain{}}
	}
	imageChains := make([]*imageChainData, len(resolved.imageIDs))
	for i := range imageChains {
		imageChains[i] = &imageChainData{chain: &chain.ImageChain{}}
	}

	queues := make([]*queueData, len(resolved.queueIDs))
	for i, qid := range resolved.queueIDs {
		queues[i] = &queueData{queue: newQueue(qid)}
	}

	var ready []*resolvedNode
	for _, n := range resolved.nodes {
		if unscheduled[n.id] == 0 {
			ready = append(ready, n)
		}
	}

	scheduled := 0
	if len(resolved.queueIDs) == 1 {
		// Single queue: wait_factor tracks scheduled count and no node ever
		// transfers between families, so fitness comparison is unnecessary.
		for len(ready) > 0 {
			n := ready[len(ready)-1]
			ready = ready[:len(ready)-1]
			scheduleNode(&ready, unscheduled, resolved, n, 0, scheduled, scheduled, queues, bufferChains, imageChains)
			scheduled++
		}
	} else {
		for len(ready) > 0 {
			bestIdx := -1
			var bestFitness fitness
			bestQueue := 0
			for i, n := range ready {
				f, q := computeFitness(n, bufferChains, imageChains, queues)
				if bestIdx == -1 || f.less(bestFitness) {
					bestIdx, bestFitness, bestQueue = i, f, q
				}
			}
			n := ready[bestIdx]
			ready[bestIdx] = ready[len(ready)-1]
			ready = ready[:len(ready)-1]
			scheduleNode(&ready, unscheduled, resolved, n, bestQueue, bestFitness.waitFactor, scheduled, queues, bufferChains, imageChains)
			scheduled++
		}
	}

	if scheduled != len(resolved.nodes) {
		panic("schedule: dependency loop found")
	}

	sched := newSchedule()
	for _, qd := range queues {
		sched.setQueue(qd.queue)
	}
	sched.buildOrder()

	buffers := make(chain.BufferChains, len(resolved.bufferIDs))
	for i, id := range resolved.bufferIDs {
		buffers[id] = bufferChains[i].chain
	}
	images := make(chain.ImageChains, len(resolved.imageIDs))
	for i, id := range resolved.imageIDs {
		images[id] = imageChains[i].chain
	}

	return sched, buffers, images
}

// fitness lexicographically ranks ready nodes (spec §4.5 "fitness"):
// fewest cross-family transfers first, then lowest wait factor.
type fitness struct {
	transfers  int
	waitFactor int
}

func (f fitness) less(o fitness) bool {
	if f.transfers != o.transfers {
		return f.transfers < o.transfers
	}
	return f.waitFactor < o.waitFactor
}

// bufferChainData/imageChainData track one resource's in-progress chain
// plus the wait-factor bookkeeping collect.rs folds into fitness.
type bufferChainData struct {
	chain                 *chain.BufferChain
	lastLinkWaitFactor    int
	currentLinkWaitFactor int
	currentFamily         int
	hasCurrentFamily      bool
}

type imageChainData struct {
	chain                 *chain.ImageChain
	lastLinkWaitFactor    int
	currentLinkWaitFactor int
	currentFamily         int
	hasCurrentFamily      bool
}

type queueData struct {
	queue      *Queue
	waitFactor int
}

type resolvedNode struct {
	id      int
	family  int
	queueLo int
	queueHi int
	revDeps []int
	buffers []resolvedBufferUse
	images  []resolvedImageUse
	present *PresentHint
}

type resolvedBufferUse struct {
	id     int
	access access.BufferAccess
	usage  backend.BufferUsage
	stages uint32
}

type resolvedImageUse struct {
	id     int
	access access.ImageAccess
	usage  backend.ImageUsage
	stages uint32
}

type resolvedNodeSet struct {
	nodes     []*resolvedNode
	queueIDs  []QueueID
	bufferIDs []uint64
	imageIDs  []uint64
}

type lookupBuilder[I comparable] struct {
	forward  map[I]int
	backward []I
}

func newLookupBuilder[I comparable]() *lookupBuilder[I] {
	return &lookupBuilder[I]{forward: make(map[I]int)}
}

func (lb *lookupBuilder[I]) get(id I) int {
	if idx, ok := lb.forward[id]; ok {
		return idx
	}
	idx := len(lb.backward)
	lb.backward = append(lb.backward, id)
	lb.forward[id] = idx
	return idx
}

// resolveNodes remaps external node/buffer/image ids to dense indices and
// computes each node's dependency-unscheduled count (spec §4.5 "resolve
// nodes"; rendy's collect.rs resolve_nodes). Duplicate dependencies are
// safe: each occurrence both adds a rev-dep entry and increments the
// unscheduled count once, so it is decremented back to zero exactly as
// many times as it was counted.
func resolveNodes(nodes []Node, maxQueues MaxQueues) (*resolvedNodeSet, []int) {
	nodeIDs := newLookupBuilder[int]()
	queues := newLookupBuilder[QueueID]()
	bufferIDs := newLookupBuilder[uint64]()
	imageIDs := newLookupBuilder[uint64]()

	familyRange := make(map[int][2]int)
	reified := make([]*resolvedNode, len(nodes))
	for i := range reified {
		reified[i] = &resolvedNode{}
	}
	unscheduled := make([]int, len(nodes))

	for _, n := range nodes {
		family := n.Family
		if _, ok := familyRange[family]; !ok {
			count := maxQueues(family)
			if count <= 0 {
				panic("schedule: cannot create a family with 0 max queues")
			}
			for i := 0; i < count; i++ {
				queues.get(QueueID{Family: family, Index: i})
			}
			lo := queues.get(QueueID{Family: family, Index: 0})
			hi := queues.get(QueueID{Family: family, Index: count - 1})
			familyRange[family] = [2]int{lo, hi + 1}
		}
		if n.Present != nil && n.Present.SurfaceFamily != family {
			panic("schedule: present-hinted node is not on its surface family")
		}

		id := nodeIDs.get(n.ID)
		if id >= len(nodes) {
			panic("schedule: dependency not found")
		}

		for _, dep := range n.Dependencies {
			depIdx := nodeIDs.get(dep)
			reified[depIdx].revDeps = append(reified[depIdx].revDeps, id)
		}
		unscheduled[id] = len(n.Dependencies)

		rng := familyRange[family]
		rn := reified[id]
		rn.id = id
		rn.family = family
		rn.queueLo, rn.queueHi = rng[0], rng[1]
		rn.present = n.Present
		for _, bu := range n.Buffers {
			rn.buffers = append(rn.buffers, resolvedBufferUse{
				id:     bufferIDs.get(bu.BufferID),
				access: bu.Access,
				usage:  bu.Usage,
				stages: bu.Stages,
			})
		}
		for _, iu := range n.Images {
			rn.images = append(rn.images, resolvedImageUse{
				id:     imageIDs.get(iu.ImageID),
				access: iu.Access,
				usage:  iu.Usage,
				stages: iu.Stages,
			})
		}
	}

	return &resolvedNodeSet{
		nodes:     reified,
		queueIDs:  queues.backward,
		bufferIDs: bufferIDs.backward,
		imageIDs:  imageIDs.backward,
	}, unscheduled
}

func computeFitness(n *resolvedNode, bufferChains []*bufferChainData, imageChains []*imageChainData, queues []*queueData) (fitness, int) {
	transfers := 0
	waitFromChains := 0

	for _, bu := range n.buffers {
		cd := bufferChains[bu.id]
		if cd.hasCurrentFamily && cd.currentFamily != n.family {
			transfers++
		}
		if cd.lastLinkWaitFactor > waitFromChains {
			waitFromChains = cd.lastLinkWaitFactor
		}
	}
	for _, iu := range n.images {
		cd := imageChains[iu.id]
		if cd.hasCurrentFamily && cd.currentFamily != n.family {
			transfers++
		}
		if cd.lastLinkWaitFactor > waitFromChains {
			waitFromChains = cd.lastLinkWaitFactor
		}
	}

	bestQueue := n.queueLo
	bestWait := queues[n.queueLo].waitFactor
	for i := n.queueLo + 1; i < n.queueHi; i++ {
		if queues[i].waitFactor < bestWait {
			bestWait, bestQueue = queues[i].waitFactor, i
		}
	}

	waitFactor := waitFromChains
	if bestWait > waitFactor {
		waitFactor = bestWait
	}
	return fitness{transfers: transfers, waitFactor: waitFactor}, bestQueue
}

func scheduleNode(
	ready *[]*resolvedNode,
	unscheduled []int,
	nodes *resolvedNodeSet,
	n *resolvedNode,
	queue int,
	waitFactor int,
	submitted int,
	queues []*queueData,
	bufferChains []*bufferChainData,
	imageChains []*imageChainData,
) {
	qd := queues[queue]
	if waitFactor+1 > qd.waitFactor {
		qd.waitFactor = waitFactor + 1
	}
	submission := qd.queue.addSubmission(n.id, waitFactor, submitted, n.present)

	for _, bu := range n.buffers {
		addToBufferChain(bufferChains[bu.id], n.family, submission, bu)
	}
	for _, iu := range n.images {
		addToImageChain(imageChains[iu.id], n.family, submission, iu)
	}

	for _, rd := range n.revDeps {
		unscheduled[rd]--
		if unscheduled[rd] == 0 {
			*ready = append(*ready, nodes.nodes[rd])
		}
	}
}

func addToBufferChain(cd *bufferChainData, family int, sub *Submission, use resolvedBufferUse) {
	cd.currentFamily, cd.hasCurrentFamily = family, true
	if sub.WaitFactor+1 > cd.currentLinkWaitFactor {
		cd.currentLinkWaitFactor = sub.WaitFactor + 1
	}

	if last := cd.chain.Last(); last != nil && last.Compatible(family, use.access) {
		last.AddNode(sub.ID.Queue.Index, sub.ID.Index, use.access, use.usage, use.stages)
		return
	}
	cd.lastLinkWaitFactor = cd.currentLinkWaitFactor
	cd.chain.Append(chain.NewBufferLink(family, sub.ID.Queue.Index, sub.ID.Index, use.access, use.usage, use.stages))
}

func addToImageChain(cd *imageChainData, family int, sub *Submission, use resolvedImageUse) {
	cd.currentFamily, cd.hasCurrentFamily = family, true
	if sub.WaitFactor+1 > cd.currentLinkWaitFactor {
		cd.currentLinkWaitFactor = sub.WaitFactor + 1
	}

	layout := access.LayoutFor(use.access)
	if last := cd.chain.Last(); last != nil && last.Compatible(family, use.access, layout) {
		last.AddNode(sub.ID.Queue.Index, sub.ID.Index, use.access, use.usage, use.stages)
		return
	}
	cd.lastLinkWaitFactor = cd.currentLinkWaitFactor
	cd.chain.Append(chain.NewImageLink(family, sub.ID.Queue.Index, sub.ID.Index, use.access, use.usage, layout, use.stages))
}
