// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdevent

import (
	"testing"

	"github.com/cpmech/griddyn/gdmode"
)

func TestInsertMaintainsTimeOrder(t *testing.T) {
	q := NewQueue(1e-9)
	q.Insert(&Func{Id: 1, At: 5})
	q.Insert(&Func{Id: 2, At: 1})
	q.Insert(&Func{Id: 3, At: 3})
	want := []float64{1, 3, 5}
	for i, e := range q.events {
		if e.Time() != want[i] {
			t.Fatalf("events[%d].Time() = %v, want %v", i, e.Time(), want[i])
		}
	}
}

func TestInsertRejectsDuplicateEventId(t *testing.T) {
	q := NewQueue(1e-9)
	q.Insert(&Func{Id: 1, At: 1})
	if err := q.Insert(&Func{Id: 1, At: 2}); err == nil {
		t.Fatal("expected error inserting duplicate event id")
	}
}

func TestExecuteEventsRunsDueEventsInOrderAndReturnsMaxChange(t *testing.T) {
	q := NewQueue(1e-6)
	var order []int
	mk := func(id int, at float64, code gdmode.ChangeCode) *Func {
		return &Func{Id: id, At: at, Fn: func(float64) gdmode.ChangeCode {
			order = append(order, id)
			return code
		}}
	}
	q.Insert(mk(1, 1, gdmode.ParameterChange))
	q.Insert(mk(2, 2, gdmode.ObjectChange))
	q.Insert(mk(3, 10, gdmode.RootChange)) // not due yet

	got := q.ExecuteEvents(2)
	if got != gdmode.ObjectChange {
		t.Fatalf("ExecuteEvents = %v, want ObjectChange", got)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("execution order = %v, want [1 2]", order)
	}
	if _, ok := q.NextTime(); !ok {
		t.Fatal("expected event 3 still pending")
	}
}

func TestPeriodicEventReschedules(t *testing.T) {
	q := NewQueue(1e-6)
	calls := 0
	q.Insert(&Func{Id: 1, At: 1, Every: 5, Fn: func(float64) gdmode.ChangeCode {
		calls++
		return gdmode.NoChange
	}})
	q.ExecuteEvents(1)
	nt, ok := q.NextTime()
	if !ok {
		t.Fatal("expected rescheduled event still pending")
	}
	if nt != 6 {
		t.Fatalf("rescheduled time = %v, want 6", nt)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecuteEventsAonlyDefersBpart(t *testing.T) {
	q := NewQueue(1e-6)
	var bRan bool
	q.Insert(&Func{
		Id: 1, At: 1,
		Fn:  func(float64) gdmode.ChangeCode { return gdmode.NoChange },
		FnB: func(float64) { bRan = true },
	})
	q.ExecuteEventsAonly(1)
	if bRan {
		t.Fatal("B-part ran during A-only pass")
	}
	q.ExecuteEventsBonly(1)
	if !bRan {
		t.Fatal("B-part did not run during B-only pass")
	}
}

func TestNullEventTimeRearmsWithoutDuplicating(t *testing.T) {
	q := NewQueue(1e-6)
	q.NullEventTime(10, 10)
	q.NullEventTime(5, 10)
	count := 0
	for _, e := range q.events {
		if e.EventId() == nullEventId {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("found %d null events, want 1", count)
	}
	nt, _ := q.NextTime()
	if nt != 5 {
		t.Fatalf("NextTime() = %v, want 5 (most recent arm)", nt)
	}
}

func TestRemoveDropsEvent(t *testing.T) {
	q := NewQueue(1e-6)
	q.Insert(&Func{Id: 1, At: 1})
	q.Insert(&Func{Id: 2, At: 2})
	q.Remove(1)
	if len(q.events) != 1 || q.events[0].EventId() != 2 {
		t.Fatalf("events after remove = %+v", q.events)
	}
}
