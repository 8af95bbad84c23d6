// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdevent

import (
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/griddyn/gdmode"
)

// nullEventId is reserved for the queue's own heartbeat adapter so it never
// collides with a caller-assigned EventId.
const nullEventId = -1

// Queue holds a time-sorted vector of Adapters, a separate list of adapters
// awaiting their deferred B-part, and a tolerance below which two scheduled
// times are considered coincident (spec.md §3 "EventQueue"). Invariant:
// events is time-sorted after every Insert/Remove; no two live adapters
// share an EventId.
type Queue struct {
	mu       sync.Mutex
	events   []Adapter
	bList    []Adapter
	timeTol  float64
	nullFunc *Func
}

// NewQueue returns an empty queue with the given coincidence tolerance.
func NewQueue(timeTol float64) *Queue {
	return &Queue{timeTol: timeTol}
}

// Insert adds a to the queue, maintaining time order. Returns an error if an
// adapter with the same EventId is already present (spec.md §3's "no two
// live adapters may share the same eventId").
func (q *Queue) Insert(a Adapter) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.insertLocked(a)
}

func (q *Queue) insertLocked(a Adapter) error {
	for _, e := range q.events {
		if e.EventId() == a.EventId() {
			return chk.Err("gdevent: event id %d already present in queue", a.EventId())
		}
	}
	i := sort.Search(len(q.events), func(i int) bool { return q.events[i].Time() > a.Time() })
	q.events = append(q.events, nil)
	copy(q.events[i+1:], q.events[i:])
	q.events[i] = a
	return nil
}

// Remove drops the adapter with the given EventId, if present.
func (q *Queue) Remove(eventId int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.events {
		if e.EventId() == eventId {
			q.events = append(q.events[:i], q.events[i+1:]...)
			return
		}
	}
}

// Recheck re-sorts the queue after an external caller has mutated an
// adapter's scheduled time directly (spec.md §3 "recheck(): re-sort after
// external time mutation").
func (q *Queue) Recheck() {
	q.mu.Lock()
	defer q.mu.Unlock()
	sort.SliceStable(q.events, func(i, j int) bool { return q.events[i].Time() < q.events[j].Time() })
}

// NextTime returns the scheduled time of the earliest pending event, and
// false if the queue is empty.
func (q *Queue) NextTime() (float64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return 0, false
	}
	return q.events[0].Time(), true
}

// ExecuteEvents runs every adapter whose time is <= currentTime + timeTol in
// time order: the A-part immediately, then either the B-part immediately
// (the default) or deferred onto the B-list if the adapter requested
// part-B-only handling some other way (spec.md §4.3 "executeEvents").
// Returns the maximum ChangeCode among fired events.
func (q *Queue) ExecuteEvents(currentTime float64) gdmode.ChangeCode {
	q.mu.Lock()
	defer q.mu.Unlock()
	max := gdmode.NoChange
	for {
		due, ok := q.popDueLocked(currentTime)
		if !ok {
			break
		}
		if !due.PartBOnly() {
			max = gdmode.Max(max, due.ExecuteA(currentTime))
			due.ExecuteB(currentTime)
		} else {
			q.bList = append(q.bList, due)
		}
		q.rescheduleOrDropLocked(due)
	}
	return max
}

// ExecuteEventsAonly runs only the A-part of every due adapter, deferring
// its B-part onto the internal B-list. Used by event-driven power flow,
// which sandwiches a power-flow solve between the A and B passes so
// recorders capture post-adjustment values (spec.md §4.3).
func (q *Queue) ExecuteEventsAonly(currentTime float64) gdmode.ChangeCode {
	q.mu.Lock()
	defer q.mu.Unlock()
	max := gdmode.NoChange
	for {
		due, ok := q.popDueLocked(currentTime)
		if !ok {
			break
		}
		max = gdmode.Max(max, due.ExecuteA(currentTime))
		q.bList = append(q.bList, due)
		q.rescheduleOrDropLocked(due)
	}
	return max
}

// ExecuteEventsBonly runs the B-part of every adapter deferred by a prior
// ExecuteEventsAonly call, then clears the B-list.
func (q *Queue) ExecuteEventsBonly(currentTime float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, a := range q.bList {
		a.ExecuteB(currentTime)
	}
	q.bList = q.bList[:0]
}

// popDueLocked removes and returns the earliest event if it is due at
// currentTime (within timeTol); the caller holds q.mu.
func (q *Queue) popDueLocked(currentTime float64) (Adapter, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	if q.events[0].Time() > currentTime+q.timeTol {
		return nil, false
	}
	due := q.events[0]
	q.events = q.events[1:]
	return due, true
}

// rescheduleOrDropLocked re-inserts a periodic adapter at its next time, or
// drops it permanently if it requested removal or has no period.
func (q *Queue) rescheduleOrDropLocked(a Adapter) {
	if a.Remove() {
		return
	}
	if _, has := a.Period(); !has {
		return
	}
	a.Reschedule()
	q.insertLocked(a) // reinsertion cannot collide: a just came out of the queue
}

// NullEventTime arms (or re-arms) a periodic heartbeat adapter that always
// returns no_change, forcing the driver out of long solver blocks at
// regular intervals (spec.md §3 "a single 'null event' used as a periodic
// heartbeat"; §4.3 "nullEventTime"). Calling it again before the previous
// heartbeat fires reschedules it instead of adding a second one.
func (q *Queue) NullEventTime(time float64, period float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.nullFunc != nil {
		for i, e := range q.events {
			if e.EventId() == nullEventId {
				q.events = append(q.events[:i], q.events[i+1:]...)
				break
			}
		}
	}
	q.nullFunc = &Func{Id: nullEventId, At: time, Every: period}
	q.insertLocked(q.nullFunc)
}
