package action

import (
	"errors"
)

// ErrMissingQueue is returned when an action is enqueued on a nil queue
var ErrMissingQueue = errors.New("action: missing queue")

const noIndex int32 = -1

// Handle addresses an action record, stale handles are rejected by generation
type Handle struct {
	index uint32
	gen   uint32
}

// InvalidHandle never refers to a record
var InvalidHandle = Handle{}

// Valid reports whether h was ever issued, liveness needs Queue.GetStatus
func (h Handle) Valid() bool {
	return h.gen != 0
}

type record struct {
	gen    uint32
	alive  bool
	action Action
	kind   Kind
	status Status
	phase  Phase
	cancel CancelState
	parent int32
	child  int32
}

// Queue is the per-agent action chain
// Each action owns at most one child, so the live set is a single root-to-leaf chain
// Records live in an arena and are recycled with a bumped generation
// Not safe for concurrent use, each agent is updated by one system at a time
type Queue struct {
	records []record
	free    []int32
	root    int32
}

// NewQueue creates an empty action queue
func NewQueue() *Queue {
	return &Queue{
		records: make([]record, 0, 4),
		root:    noIndex,
	}
}

// Enqueue clears the queue and activates act as the new root action
func Enqueue[T Action](q *Queue, act T) (Handle, error) {
	if q == nil {
		return InvalidHandle, ErrMissingQueue
	}
	q.Reset()
	idx := q.alloc(act, noIndex)
	q.root = idx
	q.activate(idx)
	return q.handle(idx), nil
}

// PushOrUpdateChild sets the child of parent to act
// A current child of the same kind is updated in place without re-activation,
// any other child is deactivated first and act is activated fresh
// Returns InvalidHandle if parent is not a live, active record
func PushOrUpdateChild[T Action](q *Queue, parent Handle, act T) Handle {
	if q == nil {
		return InvalidHandle
	}
	pidx, ok := q.lookup(parent)
	if !ok {
		return InvalidHandle
	}
	p := &q.records[pidx]
	if p.phase >= PhaseDeactivating {
		return InvalidHandle
	}

	if cidx := p.child; cidx != noIndex {
		c := &q.records[cidx]
		if c.kind == act.Kind() && c.phase < PhaseDeactivating {
			c.action = act
			if c.phase == PhaseFinished {
				// New data means new work, the consumer must act on it again
				c.status = StatusRunning
				c.phase = PhaseRunning
			}
			return q.handle(cidx)
		}
		q.deactivate(cidx)
		q.releaseSubtree(cidx)
	}

	idx := q.alloc(act, pidx)
	// alloc may grow the arena, re-read parent
	q.records[pidx].child = idx
	q.activate(idx)
	return q.handle(idx)
}

// FindCurrent returns the most nested action of type T, or InvalidHandle
func FindCurrent[T Action](q *Queue) Handle {
	var zero T
	return q.FindCurrentOf(zero.Kind())
}

// Get returns the action stored under h if it has type T
func Get[T Action](q *Queue, h Handle) (T, bool) {
	var zero T
	if q == nil {
		return zero, false
	}
	idx, ok := q.lookup(h)
	if !ok {
		return zero, false
	}
	act, ok := q.records[idx].action.(T)
	return act, ok
}

// FindCurrentOf returns the most nested action whose kind is any of kinds
func (q *Queue) FindCurrentOf(kinds ...Kind) Handle {
	if q == nil {
		return InvalidHandle
	}
	for idx := q.leaf(); idx != noIndex; idx = q.records[idx].parent {
		k := q.records[idx].kind
		for _, want := range kinds {
			if k == want {
				return q.handle(idx)
			}
		}
	}
	return InvalidHandle
}

// GetStatus returns the status of h, StatusInvalid for stale or unknown handles
func (q *Queue) GetStatus(h Handle) Status {
	if q == nil {
		return StatusInvalid
	}
	idx, ok := q.lookup(h)
	if !ok {
		return StatusInvalid
	}
	return q.records[idx].status
}

// SetStatus finishes or resumes an action, deactivated records are immutable
func (q *Queue) SetStatus(h Handle, s Status) bool {
	idx, ok := q.lookup(h)
	if !ok || s == StatusInvalid {
		return false
	}
	r := &q.records[idx]
	if r.phase >= PhaseDeactivating {
		return false
	}
	r.status = s
	if s.Finished() {
		r.phase = PhaseFinished
	} else {
		r.phase = PhaseRunning
	}
	return true
}

// Phase returns the lifecycle phase of h
func (q *Queue) Phase(h Handle) Phase {
	idx, ok := q.lookup(h)
	if !ok {
		return PhaseInactive
	}
	return q.records[idx].phase
}

// Cancellation returns the cancellation progress of h
func (q *Queue) Cancellation(h Handle) CancelState {
	idx, ok := q.lookup(h)
	if !ok {
		return CancelNone
	}
	return q.records[idx].cancel
}

// GetChild returns the child of h, or InvalidHandle
func (q *Queue) GetChild(h Handle) Handle {
	idx, ok := q.lookup(h)
	if !ok || q.records[idx].child == noIndex {
		return InvalidHandle
	}
	return q.handle(q.records[idx].child)
}

// GetParent returns the parent of h, or InvalidHandle for the root
func (q *Queue) GetParent(h Handle) Handle {
	idx, ok := q.lookup(h)
	if !ok || q.records[idx].parent == noIndex {
		return InvalidHandle
	}
	return q.handle(q.records[idx].parent)
}

// Root returns the root action handle
func (q *Queue) Root() Handle {
	if q == nil || q.root == noIndex {
		return InvalidHandle
	}
	return q.handle(q.root)
}

// Len returns the chain length
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	n := 0
	for idx := q.root; idx != noIndex; idx = q.records[idx].child {
		n++
	}
	return n
}

// Describe lists the chain root to leaf as kind:status pairs
func (q *Queue) Describe() []string {
	if q == nil {
		return nil
	}
	var out []string
	for idx := q.root; idx != noIndex; idx = q.records[idx].child {
		r := &q.records[idx]
		out = append(out, r.kind.String()+":"+r.status.String())
	}
	return out
}

// CancelAction requests cooperative cancellation of h
// Nothing changes until the next Update, which deactivates h's subtree and fails h
func (q *Queue) CancelAction(h Handle) bool {
	idx, ok := q.lookup(h)
	if !ok {
		return false
	}
	r := &q.records[idx]
	if r.phase >= PhaseDeactivating || r.cancel != CancelNone {
		return false
	}
	r.cancel = CancelRequested
	return true
}

// Update advances cancellation, called once per tick before actions are processed
// Returns the number of cancellations completed
func (q *Queue) Update() int {
	if q == nil {
		return 0
	}
	done := 0
	for idx := q.root; idx != noIndex; {
		next := q.records[idx].child
		if q.records[idx].cancel == CancelRequested {
			q.records[idx].cancel = CancelAcknowledged
			q.deactivate(idx)
			if child := q.records[idx].child; child != noIndex {
				q.releaseSubtree(child)
			}
			q.records[idx].status = StatusFailed
			q.records[idx].cancel = CancelTerminated
			done++
			// Whole subtree is gone
			break
		}
		idx = next
	}
	return done
}

// Reset deactivates and discards every action, all handles become stale
func (q *Queue) Reset() {
	if q == nil || q.root == noIndex {
		return
	}
	q.deactivate(q.root)
	q.releaseSubtree(q.root)
	q.root = noIndex
}

// --- internals ---

func (q *Queue) handle(idx int32) Handle {
	return Handle{index: uint32(idx), gen: q.records[idx].gen}
}

func (q *Queue) lookup(h Handle) (int32, bool) {
	if q == nil || !h.Valid() || int(h.index) >= len(q.records) {
		return noIndex, false
	}
	r := &q.records[h.index]
	if !r.alive || r.gen != h.gen {
		return noIndex, false
	}
	return int32(h.index), true
}

func (q *Queue) leaf() int32 {
	idx := q.root
	if idx == noIndex {
		return noIndex
	}
	for q.records[idx].child != noIndex {
		idx = q.records[idx].child
	}
	return idx
}

func (q *Queue) alloc(act Action, parent int32) int32 {
	var idx int32
	if n := len(q.free); n > 0 {
		idx = q.free[n-1]
		q.free = q.free[:n-1]
	} else {
		q.records = append(q.records, record{})
		idx = int32(len(q.records) - 1)
	}
	r := &q.records[idx]
	r.gen++
	if r.gen == 0 {
		// Generation zero is reserved for InvalidHandle
		r.gen = 1
	}
	r.alive = true
	r.action = act
	r.kind = act.Kind()
	r.status = StatusInvalid
	r.phase = PhaseInactive
	r.cancel = CancelNone
	r.parent = parent
	r.child = noIndex
	return idx
}

func (q *Queue) activate(idx int32) {
	q.records[idx].phase = PhaseActivating
	q.records[idx].status = StatusRunning
	if a, ok := q.records[idx].action.(Activator); ok {
		// Activation may push children and grow the arena, no record pointer is held across it
		if s := a.Activate(q, q.handle(idx)); s != StatusInvalid {
			q.records[idx].status = s
		}
	}
	r := &q.records[idx]
	if r.status.Finished() {
		r.phase = PhaseFinished
	} else {
		r.phase = PhaseRunning
	}
}

// deactivate runs deactivation leaf-first over the subtree rooted at idx
func (q *Queue) deactivate(idx int32) {
	if child := q.records[idx].child; child != noIndex {
		q.deactivate(child)
	}
	if ph := q.records[idx].phase; ph == PhaseInactive || ph >= PhaseDeactivating {
		return
	}
	q.records[idx].phase = PhaseDeactivating
	if d, ok := q.records[idx].action.(Deactivator); ok {
		d.Deactivate(q, q.handle(idx))
	}
	q.records[idx].phase = PhaseDeactivated
}

// releaseSubtree returns idx and its descendants to the free list and unlinks idx from its parent
func (q *Queue) releaseSubtree(idx int32) {
	if parent := q.records[idx].parent; parent != noIndex && q.records[parent].child == idx {
		q.records[parent].child = noIndex
	}
	for idx != noIndex {
		r := &q.records[idx]
		next := r.child
		r.alive = false
		r.action = nil
		r.parent = noIndex
		r.child = noIndex
		q.free = append(q.free, idx)
		idx = next
	}
}
