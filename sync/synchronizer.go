package sync

import (
	"github.com/gogpu/forge/access"
	"github.com/gogpu/forge/chain"
	"github.com/gogpu/forge/schedule"
)

// WaitEntry is one semaphore a submission must wait on before running,
// and the pipeline stage at which the wait applies (spec §4.7
// "Sync{wait:[(sem_id, stage_mask)]}").
type WaitEntry struct {
	SemaphoreID int
	StageMask   uint32
}

// Sync is the synchronization record attached to one submission (spec
// §4.7): which semaphores it must wait on before starting, and which
// semaphore ids it signals on completion. The executor allocates one
// real backend.RawSemaphore per distinct SemaphoreID at build time.
type Sync struct {
	Wait   []WaitEntry
	Signal []int
}

// Barrier is an intra-family link boundary: no ownership transfer is
// needed, just a pipeline barrier recorded at the destination submission
// (spec §4.7, S2 "synchronizer emits a pipeline barrier between them").
type Barrier struct {
	At           schedule.SubmissionID
	SrcStageMask uint32
	DstStageMask uint32
	SrcBufferAcc access.BufferAccess
	DstBufferAcc access.BufferAccess
	SrcImageAcc  access.ImageAccess
	DstImageAcc  access.ImageAccess
}

// Plan is the complete synchronization plan for one frame's schedule
// (spec §4.7): per-submission Sync records, intra-family barriers, the
// submissions that need a host-visible fence, and how many distinct
// semaphore ids the executor must allocate.
type Plan struct {
	Sync           map[schedule.SubmissionID]*Sync
	Barriers       []Barrier
	Fences         []schedule.SubmissionID
	SemaphoreCount int
}

func (p *Plan) sync(id schedule.SubmissionID) *Sync {
	s, ok := p.Sync[id]
	if !ok {
		s = &Sync{}
		p.Sync[id] = s
	}
	return s
}

// Synchronize walks every buffer and image chain's link boundaries and
// builds the Plan (spec §4.7). A boundary within one queue family
// becomes a Barrier; a boundary crossing families becomes a fresh
// semaphore, signaled by the outgoing link's last submission and waited
// on by the incoming link's first submission (the release/acquire pair
// that actually performs queue-family ownership transfer is the backend
// adapter's concern once it records a barrier with differing src/dst
// families; forge's plan only carries the semaphore dependency that
// orders the two sides of it). The last submission of every queue gets a
// fence so the host can detect frame completion (spec §4.7 "Fences at
// last-in-queue submissions").
func Synchronize(sched *schedule.Schedule, buffers chain.BufferChains, images chain.ImageChains) *Plan {
	plan := &Plan{Sync: make(map[schedule.SubmissionID]*Sync)}

	for _, bc := range buffers {
		walkBufferChain(plan, bc)
	}
	for _, ic := range images {
		walkImageChain(plan, ic)
	}

	for _, f := range sched.Families() {
		for _, q := range f.Queues() {
			subs := q.Submissions()
			if len(subs) == 0 {
				continue
			}
			plan.Fences = append(plan.Fences, subs[len(subs)-1].ID)
		}
	}

	return plan
}

func walkBufferChain(plan *Plan, bc *chain.BufferChain) {
	for i := 1; i < len(bc.Links); i++ {
		prev, curr := bc.Links[i-1], bc.Links[i]

		srcQueue, srcIdx := -1, -1
		for _, q := range prev.Queues() {
			if qs := prev.Queue(q); qs.Last > srcIdx {
				srcQueue, srcIdx = q, qs.Last
			}
		}
		dstQueue, dstIdx := -1, -1
		for _, q := range curr.Queues() {
			if qs := curr.Queue(q); dstIdx == -1 || qs.First < dstIdx {
				dstQueue, dstIdx = q, qs.First
			}
		}
		srcSub := schedule.SubmissionID{Queue: schedule.QueueID{Family: prev.Family, Index: srcQueue}, Index: srcIdx}
		dstSub := schedule.SubmissionID{Queue: schedule.QueueID{Family: curr.Family, Index: dstQueue}, Index: dstIdx}

		if prev.Family != curr.Family {
			sem := plan.SemaphoreCount
			plan.SemaphoreCount++
			plan.sync(srcSub).Signal = append(plan.sync(srcSub).Signal, sem)
			dst := plan.sync(dstSub)
			dst.Wait = append(dst.Wait, WaitEntry{SemaphoreID: sem, StageMask: curr.Stages})
			continue
		}
		plan.Barriers = append(plan.Barriers, Barrier{
			At: dstSub, SrcStageMask: prev.Stages, DstStageMask: curr.Stages,
			SrcBufferAcc: prev.Access, DstBufferAcc: curr.Access,
		})
	}
}

func walkImageChain(plan *Plan, ic *chain.ImageChain) {
	for i := 1; i < len(ic.Links); i++ {
		prev, curr := ic.Links[i-1], ic.Links[i]

		srcQueue, srcIdx := -1, -1
		for _, q := range prev.Queues() {
			if qs := prev.Queue(q); qs.Last > srcIdx {
				srcQueue, srcIdx = q, qs.Last
			}
		}
		dstQueue, dstIdx := -1, -1
		for _, q := range curr.Queues() {
			if qs := curr.Queue(q); dstIdx == -1 || qs.First < dstIdx {
				dstQueue, dstIdx = q, qs.First
			}
		}
		srcSub := schedule.SubmissionID{Queue: schedule.QueueID{Family: prev.Family, Index: srcQueue}, Index: srcIdx}
		dstSub := schedule.SubmissionID{Queue: schedule.QueueID{Family: curr.Family, Index: dstQueue}, Index: dstIdx}

		if prev.Family != curr.Family {
			sem := plan.SemaphoreCount
			plan.SemaphoreCount++
			plan.sync(srcSub).Signal = append(plan.sync(srcSub).Signal, sem)
			dst := plan.sync(dstSub)
			dst.Wait = append(dst.Wait, WaitEntry{SemaphoreID: sem, StageMask: curr.Stages})
			continue
		}
		plan.Barriers = append(plan.Barriers, Barrier{
			At: dstSub, SrcStageMask: prev.Stages, DstStageMask: curr.Stages,
			SrcImageAcc: prev.Access, DstImageAcc: curr.Access,
		})
	}
}
