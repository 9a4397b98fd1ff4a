package nightlight

import (
	"github.com/google/uuid"
)

type PendingID string

// PendingOperation reports true once it has done its work. Operations that
// return false are retried on the next drain.
type PendingOperation func() bool

type pendingEntry struct {
	id   PendingID
	name string
	op   PendingOperation
}

// PendingQueue holds deferred operations in insertion order. It is owned by
// the update thread and is not safe for concurrent use.
type PendingQueue struct {
	entries []pendingEntry
}

func makePendingId() PendingID {
	return PendingID(uuid.NewString())
}

func (q *PendingQueue) Add(name string, op PendingOperation) PendingID {
	id := makePendingId()
	q.entries = append(q.entries, pendingEntry{id: id, name: name, op: op})
	return id
}

// AddUnique enqueues op unless an operation with the same name is already
// waiting, in which case the existing id is returned.
func (q *PendingQueue) AddUnique(name string, op PendingOperation) PendingID {
	for _, e := range q.entries {
		if e.name == name {
			return e.id
		}
	}
	return q.Add(name, op)
}

// Drain runs every queued operation once and keeps the ones that did not
// complete. Operations enqueued while draining run on the next drain.
func (q *PendingQueue) Drain() int {
	if len(q.entries) == 0 {
		return 0
	}
	current := q.entries
	q.entries = nil

	kept := make([]pendingEntry, 0, len(current))
	for _, e := range current {
		if !e.op() {
			kept = append(kept, e)
		}
	}
	completed := len(current) - len(kept)
	q.entries = append(kept, q.entries...)
	return completed
}

func (q *PendingQueue) IsPending(id PendingID) bool {
	for _, e := range q.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

func (q *PendingQueue) Len() int {
	return len(q.entries)
}

func (q *PendingQueue) Clear() {
	q.entries = nil
}
