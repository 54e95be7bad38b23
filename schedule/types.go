package schedule

// QueueID names one queue within a family (spec §4.5 "Queue").
type QueueID struct {
	Family int
	Index  int
}

// SubmissionID names one submission within a queue.
type SubmissionID struct {
	Queue QueueID
	Index int
}

// PresentHint marks a submission as ending in a present (original_source
// graph/src/node/present.rs's swapchain acquire/release pattern): the
// submission's queue family must support presentation to Surface, and the
// submission must signal Release before Present is issued against
// free_acquire's paired image. forge keeps only the scheduling-relevant
// shape; the actual swapchain/semaphore objects live in the backend.
type PresentHint struct {
	// SurfaceFamily is the queue family the backend reports as capable of
	// presenting to the target surface; Collect rejects assigning a
	// present-hinted node to any other family.
	SurfaceFamily int
}

// Submission is one primary command buffer's worth of scheduled work
// (spec §4.5 "Submission"): which node produced it, which queue it runs
// on, and its position in the wait/signal ordering.
type Submission struct {
	ID          SubmissionID
	NodeID      int
	WaitFactor  int
	SubmitOrder int
	Present     *PresentHint
}

// Queue is an ordered sequence of Submissions that must be submitted in
// order (spec §4.5 "Queue").
type Queue struct {
	ID          QueueID
	submissions []*Submission
}

func newQueue(id QueueID) *Queue { return &Queue{ID: id} }

// Submissions returns the queue's submissions in submit order.
func (q *Queue) Submissions() []*Submission { return q.submissions }

func (q *Queue) addSubmission(nodeID, waitFactor, submitOrder int, present *PresentHint) *Submission {
	s := &Submission{
		ID:          SubmissionID{Queue: q.ID, Index: len(q.submissions)},
		NodeID:      nodeID,
		WaitFactor:  waitFactor,
		SubmitOrder: submitOrder,
		Present:     present,
	}
	q.submissions = append(q.submissions, s)
	return s
}

// Family is a set of Queues sharing identical capabilities (spec §4.5
// "Family").
type Family struct {
	ID     int
	queues []*Queue
}

func newFamily(id int) *Family { return &Family{ID: id} }

// Queues returns the family's queues.
func (f *Family) Queues() []*Queue { return f.queues }

func (f *Family) ensureQueue(index int) *Queue {
	for len(f.queues) <= index {
		f.queues = append(f.queues, newQueue(QueueID{Family: f.ID, Index: len(f.queues)}))
	}
	return f.queues[index]
}

// Schedule is the full set of Families produced by Collect (spec §4.5
// "Schedule").
type Schedule struct {
	families map[int]*Family
	ordered  []SubmissionID
}

func newSchedule() *Schedule { return &Schedule{families: make(map[int]*Family)} }

// Families returns the schedule's families, unordered.
func (s *Schedule) Families() []*Family {
	out := make([]*Family, 0, len(s.families))
	for _, f := range s.families {
		out = append(out, f)
	}
	return out
}

// Family returns the family by id, or nil if absent.
func (s *Schedule) Family(id int) *Family { return s.families[id] }

// FamilyCount returns the number of distinct families in the schedule.
func (s *Schedule) FamilyCount() int { return len(s.families) }

// QueueCount returns the total number of queues across all families.
func (s *Schedule) QueueCount() int {
	n := 0
	for _, f := range s.families {
		n += len(f.queues)
	}
	return n
}

// Total returns the total number of submissions in the schedule.
func (s *Schedule) Total() int { return len(s.ordered) }

// Ordered returns submissions in the order they must be submitted
// (spec §4.5 "build order").
func (s *Schedule) Ordered() []*Submission {
	out := make([]*Submission, 0, len(s.ordered))
	for _, sid := range s.ordered {
		out = append(out, s.Submission(sid))
	}
	return out
}

// Submission looks up a submission by id, or returns nil.
func (s *Schedule) Submission(id SubmissionID) *Submission {
	f, ok := s.families[id.Queue.Family]
	if !ok || id.Queue.Index >= len(f.queues) {
		return nil
	}
	q := f.queues[id.Queue.Index]
	if id.Index >= len(q.submissions) {
		return nil
	}
	return q.submissions[id.Index]
}

func (s *Schedule) ensureQueue(id QueueID) *Queue {
	f, ok := s.families[id.Family]
	if !ok {
		f = newFamily(id.Family)
		s.families[id.Family] = f
	}
	return f.ensureQueue(id.Index)
}

func (s *Schedule) setQueue(q *Queue) {
	f, ok := s.families[q.ID.Family]
	if !ok {
		f = newFamily(q.ID.Family)
		s.families[q.ID.Family] = f
	}
	for len(f.queues) <= q.ID.Index {
		f.queues = append(f.queues, nil)
	}
	f.queues[q.ID.Index] = q
}

// buildOrder linearizes every submission's SubmitOrder into s.ordered
// (spec §4.5 "build order"; rendy's Schedule::build_order).
func (s *Schedule) buildOrder() {
	var ordered []SubmissionID
	for _, f := range s.families {
		for _, q := range f.queues {
			for _, sub := range q.submissions {
				if sub.SubmitOrder < 0 {
					continue
				}
				for len(ordered) <= sub.SubmitOrder {
					ordered = append(ordered, SubmissionID{})
				}
				ordered[sub.SubmitOrder] = sub.ID
			}
		}
	}
	s.ordered = ordered
}
