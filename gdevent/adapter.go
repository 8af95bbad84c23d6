// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gdevent implements the time-ordered, two-phase event queue
// (spec.md §3 "EventQueue + EventAdapter"): EventAdapter wraps any
// event-like object behind a uniform interface, and Queue holds a
// time-sorted vector of adapters plus a B-list of adapters awaiting their
// deferred phase. Grounded on fem/fem.go's own output/Control-step loop
// shape (a single driver repeatedly asking "what's next" of a sorted
// schedule) generalized from fixed time steps to arbitrary event times.
package gdevent

import "github.com/cpmech/griddyn/gdmode"

// Adapter wraps any event-like object behind a uniform two-phase interface
// (spec.md §3 "EventAdapter"): an id, a scheduled time, an optional period,
// an A-part (state change at scheduled time), an optional B-part (deferred
// effect, typically reporting/recorder), a partB_only flag, and a remove
// flag queried by the queue before re-insertion.
type Adapter interface {
	EventId() int
	Time() float64
	Period() (period float64, has bool)

	// ExecuteA runs the state-changing half at the scheduled time and
	// returns the ChangeCode it caused.
	ExecuteA(currentTime float64) gdmode.ChangeCode

	// ExecuteB runs the deferred half (e.g. writing a recorder sample);
	// a no-op for adapters with no B-part.
	ExecuteB(currentTime float64)

	// PartBOnly reports whether this adapter only ever runs its B-part
	// (e.g. a pure recorder with nothing to change).
	PartBOnly() bool

	// Remove reports whether the queue should drop this adapter instead
	// of rescheduling it (a one-shot event that already fired, or an
	// external cancellation).
	Remove() bool

	// Reschedule advances Time() by Period() after a periodic adapter
	// fires; no-op for adapters without a period.
	Reschedule()
}

// Func adapts a plain function plus a schedule into an Adapter, the
// lightweight case most driver-internal events (e.g. "re-evaluate at
// t+dt") use instead of a full hand-written type.
type Func struct {
	Id       int
	At       float64
	Every    float64 // 0 means one-shot
	Fn       func(currentTime float64) gdmode.ChangeCode
	FnB      func(currentTime float64)
	removed  bool
}

func (f *Func) EventId() int { return f.Id }
func (f *Func) Time() float64 { return f.At }
func (f *Func) Period() (float64, bool) {
	if f.Every <= 0 {
		return 0, false
	}
	return f.Every, true
}
func (f *Func) ExecuteA(t float64) gdmode.ChangeCode {
	if f.Fn == nil {
		return gdmode.NoChange
	}
	return f.Fn(t)
}
func (f *Func) ExecuteB(t float64) {
	if f.FnB != nil {
		f.FnB(t)
	}
}
func (f *Func) PartBOnly() bool { return f.Fn == nil && f.FnB != nil }
func (f *Func) Remove() bool    { return f.removed }
func (f *Func) Cancel()         { f.removed = true }
func (f *Func) Reschedule() {
	if f.Every > 0 {
		f.At += f.Every
	}
}
